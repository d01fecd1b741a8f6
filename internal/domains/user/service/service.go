package service

import (
	"context"
	"fmt"
	"haven/config"
	"haven/infras/otel"
	"haven/internal/domains/user/model"
	"haven/internal/domains/user/model/dto"
	"haven/internal/domains/user/repository"
	"haven/shared"
	"haven/shared/constant"
	gDto "haven/shared/dto"
	"haven/shared/failure"

	"github.com/rs/zerolog/log"
)

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetUsersResponse, error)
	SetRole(ctx context.Context, req dto.UpdateRoleRequest, id string) error
}

type serviceImpl struct {
	repo repository.User
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.User, cfg *config.Config, otel otel.Otel) User {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllUsers")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return res, err // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) SetRole(ctx context.Context, req dto.UpdateRoleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetRole")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = shared.RequireAdmin(ctx); err != nil {
		return err // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, actor)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user role")

		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}
