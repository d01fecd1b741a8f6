package permissions_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"haven/infras/otel/mocks"
	authHandler "haven/internal/handlers/auth"
	bookingHandler "haven/internal/handlers/booking"
	exportHandler "haven/internal/handlers/export"
	listingHandler "haven/internal/handlers/listing"
	userHandler "haven/internal/handlers/user"
	"haven/permissions"
	"haven/transport/http/router"
)

func TestGet(t *testing.T) {
	data := permissions.Get()

	assert.NotNil(t, data)
	assert.NotEmpty(t, data.Endpoints)
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()

	tests := []struct {
		name        string
		path        string
		method      string
		wantSkip    bool
		wantRoles   []string
		wantMissing bool
	}{
		{
			name:     "public endpoint is skipped",
			path:     "/v1/auth/login",
			method:   http.MethodPost,
			wantSkip: true,
		},
		{
			name:      "admin endpoint carries the admin role",
			path:      "/v1/users",
			method:    http.MethodGet,
			wantRoles: []string{"admin"},
		},
		{
			name:      "listing update is gated on PATCH",
			path:      "/v1/listings/{id}",
			method:    http.MethodPatch,
			wantRoles: []string{"admin"},
		},
		{
			name:        "unknown endpoint yields the zero permission",
			path:        "/v1/unknown",
			method:      http.MethodGet,
			wantMissing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			if tt.wantMissing {
				assert.Empty(t, permission.Path)

				return
			}

			assert.Equal(t, tt.path, permission.Path)
			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}

// Every registered route must either be skipped or carry explicit roles, so a
// method rename in a handler cannot silently detach an endpoint from its entry.
func TestRegisteredRoutesHavePermissionEntries(t *testing.T) {
	data := permissions.Get()
	otel := mocks.NewOtel()

	domainRouter := router.New(router.DomainHandlers{
		Auth:    authHandler.New(nil, otel),
		User:    userHandler.New(nil, otel),
		Listing: listingHandler.New(nil, otel),
		Booking: bookingHandler.New(nil, otel),
		Export:  exportHandler.New(nil, otel),
	})

	mux := chi.NewRouter()
	domainRouter.SetupRoutes(mux)

	err := chi.Walk(mux, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route != "/" {
			route = strings.TrimSuffix(route, "/")
		}

		permission := data.FindPermissions(route, method)

		assert.NotEmptyf(t, permission.Path, "route %s %s has no permission entry", method, route)

		if !permission.Skip {
			assert.NotEmptyf(t, permission.Permissions, "route %s %s has neither skip nor roles", method, route)
		}

		return nil
	})

	assert.NoError(t, err)
}
