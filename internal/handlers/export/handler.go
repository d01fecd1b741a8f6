package export

import (
	"net/http"

	"haven/infras/otel"
	"haven/internal/domains/export/service"
	"haven/shared/constant"
	"haven/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Export
	otel    otel.Otel
}

func New(service service.Export, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/export", func(r chi.Router) {
		r.Get("/{entity}", handler.Export)
	})
}

// Export renders an entity collection as a downloadable file.
// @Summary Export an entity collection
// @Description Download all bookings, users, or listings as a CSV, Excel, or PDF file. Admin only.
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Param entity path string true "Entity to export (bookings, users, listings)"
// @Param format query string false "File format (csv, excel, pdf). Defaults to csv."
// @Success 200 {file} binary "Exported file"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/export/{entity} [get]
// @Security BearerAuth
func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Export")
	defer scope.End()

	entity := chi.URLParam(r, constant.RequestParamEntity)

	format := r.URL.Query().Get(constant.RequestParamFormat)
	if format == "" {
		format = service.FormatCSV
	}

	file, err := handler.service.Export(ctx, entity, format)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export " + entity)

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Exported " + entity + " as " + format)

	response.WithFile(w, file.Name, file.ContentType, file.Data)
}
