package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"haven/config"
	"haven/infras/otel"
	"haven/infras/s3"
	"haven/internal/domains/listing/model"
	"haven/internal/domains/listing/model/dto"
	"haven/internal/domains/listing/repository"
	"haven/shared"
	"haven/shared/cache"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetListing    = "listing:get"
	cacheGetAllListing = "listing:gets"
	cacheCountListing  = "listing:count"

	imageDirectory = "listings"
)

type Listing interface {
	Create(ctx context.Context, req dto.CreateListingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetListingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	Update(ctx context.Context, req dto.UpdateListingRequest, id string) error
	SetStatus(ctx context.Context, req dto.UpdateListingStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

type serviceImpl struct {
	repo  repository.Listing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Listing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	if !req.Price.IsPositive() {
		return failure.BadRequestFromString("price must be positive") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		return fmt.Errorf("failed to create listing: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllListings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllListing, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountListings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountListing, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetListing, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listing")

		return res, nil
	}

	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateListingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	if !req.Price.IsZero() && req.Price.IsNegative() {
		return failure.BadRequestFromString("price must be positive") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if listing exists")

		return fmt.Errorf("failed to check if listing exists: %w", err)
	}

	if !exist {
		return failure.NotFound("listing not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update listing")

		return fmt.Errorf("failed to update listing: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetStatus(ctx context.Context, req dto.UpdateListingStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetListingStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if listing exists")

		return fmt.Errorf("failed to check if listing exists: %w", err)
	}

	if !exist {
		return failure.NotFound("listing not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update listing status")

		return fmt.Errorf("failed to update listing status: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	listing, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return failure.NotFound("listing not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete listing")

		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if listing.ImageURL != nil {
		go func() {
			c := context.WithoutCancel(ctx)
			bucket := s.cfg.External.S3.ListingBucket
			objectName := s.s3.GetObjectNameFromURL(bucket, *listing.ImageURL)

			if objectName == constant.Empty {
				return
			}

			if err := s.s3.DeleteFile(c, bucket, constant.Empty, objectName); err != nil {
				log.Error().Err(err).Str("listing_id", listing.ID).Msg("failed to delete listing image")
			}
		}()
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadListingImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return constant.Empty, err // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if listing exists")

		return constant.Empty, fmt.Errorf("failed to check if listing exists: %w", err)
	}

	if !exist {
		return constant.Empty, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	fileName := fmt.Sprintf("%s-%s%s", id, uuid.NewString(), filepath.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, s.cfg.External.S3.ListingBucket, imageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload listing image")

		return constant.Empty, fmt.Errorf("failed to upload listing image: %w", err)
	}

	updatedFields := shared.TransformFields(struct {
		ImageURL string `db:"image_url"`
	}{ImageURL: url}, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to persist listing image url")

		return constant.Empty, fmt.Errorf("failed to persist listing image url: %w", err)
	}

	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetListing, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete listing from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
	}()
}
