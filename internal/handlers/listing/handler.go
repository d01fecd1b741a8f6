package listing

import (
	"net/http"

	"haven/infras/otel"
	"haven/internal/domains/listing/model"
	"haven/internal/domains/listing/model/dto"
	"haven/internal/domains/listing/service"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/validator"
	"haven/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Listing
	otel    otel.Otel
}

func New(service service.Listing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/available", handler.GetAvailableListings)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Patch("/{id}", handler.UpdateListing)
		routerGroup.Patch("/{id}/status", handler.UpdateListingStatus)
		routerGroup.Post("/{id}/image", handler.UploadListingImage)
		routerGroup.Delete("/{id}", handler.DeleteListing)
	})
}

// GetListings retrieves all listings based on query parameters.
// @Summary Get all listings
// @Description Retrieve all listings with optional filtering, search, and pagination.
// @Tags Listing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (Available, Booked, Sold, Leased)"
// @Param category query string false "Filter by category"
// @Param search query string false "Search in name and description"
// @Success 200 {object} response.Data[dto.GetListingsResponse] "List of listings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := buildListingFilter(r)

	listings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listings retrieved successfully")

	response.WithJSON(w, http.StatusOK, listings)
}

// GetAvailableListings retrieves listings with status Available.
// @Summary Get available listings
// @Description Retrieve listings that are currently available for booking.
// @Tags Listing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param search query string false "Search in name and description"
// @Success 200 {object} response.Data[dto.GetListingsResponse] "List of available listings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/available [get]
func (handler *Handler) GetAvailableListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := buildListingFilter(r)
	filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    constant.ListingStatusAvailable,
		Table:    model.TableName,
	})

	listings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available listings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Available listings retrieved successfully")

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID retrieves a listing by its ID.
// @Summary Get a listing by ID
// @Description Retrieve a listing by its unique identifier.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing retrieved successfully")

	response.WithJSON(w, http.StatusOK, listing)
}

// CreateListing handles the creation of a new listing.
// @Summary Create a new listing
// @Description Create a new listing with the provided details. Admin only.
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.CreateListingRequest true "Create Listing Request"
// @Success 201 {object} response.Message "Listing created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	req := dto.CreateListingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing created successfully by admin " + admin)

	response.WithMessage(w, http.StatusCreated, "Listing created successfully")
}

// UpdateListing updates an existing listing by its ID.
// @Summary Update a listing by ID
// @Description Update the details of an existing listing. Admin only.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Update Listing Request"
// @Success 200 {object} response.Message "Listing updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing updated successfully by admin " + admin)

	response.WithMessage(w, http.StatusOK, "Listing updated successfully")
}

// UpdateListingStatus updates the status of a listing by its ID.
// @Summary Update a listing's status
// @Description Set a listing's status to Available, Booked, Sold, or Leased. Admin only.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingStatusRequest true "Update Listing Status Request"
// @Success 200 {object} response.Message "Listing status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListingStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing status")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing status updated successfully by admin " + admin)

	response.WithMessage(w, http.StatusOK, "Listing status updated successfully")
}

// UploadListingImage uploads an image for a listing.
// @Summary Upload a listing image
// @Description Upload an image file for a listing and attach its URL. Admin only.
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Listing ID"
// @Param file formData file true "Listing image"
// @Success 200 {object} response.Data[dto.UploadImageResponse] "Image uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/image [post]
// @Security BearerAuth
func (handler *Handler) UploadListingImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadListingImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read image from form")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	imageURL, err := handler.service.UploadImage(ctx, id, file, fileHeader)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload listing image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing image uploaded successfully")

	response.WithJSON(w, http.StatusOK, dto.UploadImageResponse{ImageURL: imageURL})
}

// DeleteListing deletes a listing by its ID.
// @Summary Delete a listing by ID
// @Description Delete a listing and its stored image. Admin only.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message "Listing deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete listing")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing deleted successfully by admin " + admin)

	response.WithMessage(w, http.StatusOK, "Listing deleted successfully")
}

// buildListingFilter assembles the shared status/category/search filters from
// the request query. The search term matches name or description.
func buildListingFilter(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := r.URL.Query().Get(constant.RequestParamStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if category := r.URL.Query().Get(constant.RequestParamCategory); category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if search := r.URL.Query().Get(constant.RequestParamSearch); search != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "search_name",
					Field:    model.FieldName,
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "search_description",
					Field:    model.FieldDescription,
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    model.TableName,
				},
			},
		})
	}

	return filterGroup
}
