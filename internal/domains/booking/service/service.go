package service

import (
	"context"
	"fmt"

	"haven/config"
	"haven/infras/kafka"
	"haven/infras/otel"
	"haven/internal/domains/booking/model"
	"haven/internal/domains/booking/model/dto"
	"haven/internal/domains/booking/repository"
	listingModel "haven/internal/domains/listing/model"
	listingRepo "haven/internal/domains/listing/repository"
	"haven/shared"
	"haven/shared/cache"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/failure"
	"haven/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) error
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	SetStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Booking
	listingRepo listingRepo.Listing
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	kafka       kafka.Client
}

func New(repo repository.Booking, listingRepo listingRepo.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		kafka:       kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userEmail, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if userID == constant.Empty {
		return failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(req.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return failure.BadRequestFromString("listing does not exist") // nolint:wrapcheck
	}

	// Read-then-write duplicate guard. Concurrent requests for the same
	// pair can still slip through between the check and the insert.
	duplicate, err := s.repo.Exist(ctx, duplicateFilter(userID, req.ListingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check for existing booking")

		return fmt.Errorf("failed to check for existing booking: %w", err)
	}

	if duplicate {
		return failure.Conflict("a booking for this listing already exists") // nolint:wrapcheck
	}

	booking := req.ToModel(userID, userEmail, listing)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishEvent(ctx, dto.NewBookingEvent(dto.EventTypeCreated, booking))
	s.invalidateLists(ctx)

	return nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMyBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	return s.getAll(ctx, req, filter)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return res, err // nolint:wrapcheck
	}

	return s.getAll(ctx, req, filter)
}

func (s *serviceImpl) getAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if userRole != constant.RoleAdmin && booking.UserID != userID {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

// SetStatus applies the requested status without validating reachability
// from the current one. Approved stamps the approval date, Completed stamps
// the completion date; earlier stamps are left untouched.
func (s *serviceImpl) SetStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetBookingStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	now := timezone.Now()
	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	switch req.Status {
	case constant.BookingStatusApproved:
		updatedFields[model.FieldApprovalDate] = now
	case constant.BookingStatusCompleted:
		updatedFields[model.FieldCompletionDate] = now
	}

	if req.AdminNotes != constant.Empty {
		updatedFields[model.FieldAdminNotes] = req.AdminNotes
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status
	s.publishEvent(ctx, dto.NewBookingEvent(dto.EventTypeStatusChanged, booking))
	s.invalidate(ctx, id)

	return nil
}

// Cancel lets the requester withdraw a pending booking. The row transitions
// to Rejected with a fixed system note, keeping the audit trail intact.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.UserID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusPending {
		return failure.BadRequestFromString("only pending bookings can be cancelled") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        constant.BookingStatusRejected,
		model.FieldAdminNotes:    constant.CancelledByUserNote,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: userID,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = constant.BookingStatusRejected
	s.publishEvent(ctx, dto.NewBookingEvent(dto.EventTypeStatusChanged, booking))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, event dto.BookingEvent) {
	go func() {
		c := context.WithoutCancel(ctx)

		msg := kafka.Message{Key: event.BookingID, Value: event}
		if err := s.kafka.SendMessages(c, constant.KafkaTopicBookingEvents, msg); err != nil {
			log.Error().Err(err).Str("booking_id", event.BookingID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func duplicateFilter(userID, listingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldListingID,
				Operator: gDto.FilterOperatorEq,
				Value:    listingID,
				Table:    model.TableName,
			},
		},
	}
}
