//go:build wireinject
// +build wireinject

package di

import (
	"haven/config"
	"haven/infras/jwt"
	"haven/infras/kafka"
	"haven/infras/otel"
	"haven/infras/postgres"
	"haven/infras/redis"
	"haven/infras/s3"
	"haven/permissions"
	"haven/shared/cache"
	"haven/transport/http"
	"haven/transport/http/middleware"
	"haven/transport/http/router"

	"github.com/google/wire"

	authService "haven/internal/domains/auth/service"
	bookingRepository "haven/internal/domains/booking/repository"
	bookingService "haven/internal/domains/booking/service"
	exportService "haven/internal/domains/export/service"
	listingRepository "haven/internal/domains/listing/repository"
	listingService "haven/internal/domains/listing/service"
	userRepository "haven/internal/domains/user/repository"
	userService "haven/internal/domains/user/service"

	authHandler "haven/internal/handlers/auth"
	bookingHandler "haven/internal/handlers/booking"
	exportHandler "haven/internal/handlers/export"
	listingHandler "haven/internal/handlers/listing"
	userHandler "haven/internal/handlers/user"
)

// App bundles the HTTP transport with the auth service so the entry point can
// seed the admin account before serving.
type App struct {
	HTTP *http.HTTP
	Auth authService.Auth
}

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var exportDomain = wire.NewSet(
	exportService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	listingDomain,
	bookingDomain,
	exportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	listingHandler.New,
	bookingHandler.New,
	exportHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
