package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/otel"
	"washbay/internal/domains/resource/model"
	"washbay/internal/domains/resource/model/dto"
	"washbay/internal/domains/resource/repository"
	"washbay/shared"
	"washbay/shared/cache"
	"washbay/shared/constant"
	gDto "washbay/shared/dto"
	"washbay/shared/failure"
	gRepo "washbay/shared/repository"
)

const (
	cacheActiveResources = "resource:active"
)

// Directory is the read-mostly registry of schedulable bays and mobile teams.
type Directory interface {
	ListEligible(ctx context.Context, criteria model.Criteria) ([]model.Resource, error)
	GetStatus(ctx context.Context, id string) (model.Status, error)
	Get(ctx context.Context, id string) (dto.ResourceResponse, error)
	Register(ctx context.Context, req dto.RegisterResourceRequest) (dto.ResourceResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
}

type serviceImpl struct {
	repo  repository.Resource
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Resource, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Directory {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// ListEligible returns active resources compatible with the criteria, ordered by id.
func (s *serviceImpl) ListEligible(ctx context.Context, criteria model.Criteria) (res []model.Resource, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListEligible")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"resource.kind":         string(criteria.Kind),
		"resource.vehicle_size": string(criteria.VehicleSize),
	})

	active, err := s.activeByKind(ctx, criteria.Kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active resources")

		return nil, fmt.Errorf("failed to list active resources: %w", err)
	}

	res = []model.Resource{}

	for _, resource := range active {
		if resource.Serves(criteria) {
			res = append(res, resource)
		}
	}

	slices.SortFunc(res, func(a, b model.Resource) int {
		return strings.Compare(a.ID, b.ID)
	})

	return res, nil
}

func (s *serviceImpl) activeByKind(ctx context.Context, kind model.Kind) (res []model.Resource, err error) {
	cacheKey := shared.BuildCacheKey(cacheActiveResources, string(kind))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusActive), Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldKind, Value: string(kind), Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}

	res, err = s.repo.GetAll(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get resources: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save active resources to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetStatus(ctx context.Context, id string) (status model.Status, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	resource, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	return resource.Status, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	resource, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(resource)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Resource, error) {
	resource, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("resource_id", id).Msg("failed to get resource")

		return resource, fmt.Errorf("failed to get resource: %w", err)
	}

	if resource.ID == constant.Empty {
		return resource, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	return resource, nil
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterResourceRequest) (res dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	resource := req.ToModel(actor)

	if resource.Kind == model.KindBay && !resource.MaxVehicleSize.Valid() {
		return res, failure.Validation("bay requires a max vehicle size") // nolint:wrapcheck
	}

	if resource.Kind == model.KindMobileTeam && resource.ServiceRadiusKm <= 0 {
		return res, failure.Validation("mobile team requires a positive service radius") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, resource); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict("resource " + resource.Name + " already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to register resource")

		return res, fmt.Errorf("failed to register resource: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(resource)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyActorID).(string)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	fields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: req.Status}, actor)

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("resource_id", id).Msg("failed to update resource status")

		return fmt.Errorf("failed to update resource status: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheActiveResources)
	}()
}
