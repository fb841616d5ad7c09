package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/otel"
	"washbay/internal/domains/booking/model"
	"washbay/internal/domains/booking/model/dto"
	"washbay/internal/domains/booking/repository"
	notificationModel "washbay/internal/domains/notification/model"
	notificationService "washbay/internal/domains/notification/service"
	resourceModel "washbay/internal/domains/resource/model"
	resourceService "washbay/internal/domains/resource/service"
	"washbay/internal/domains/schedule/allocator"
	"washbay/internal/domains/schedule/coordinator"
	scheduleModel "washbay/internal/domains/schedule/model"
	"washbay/internal/domains/schedule/resolver"
	"washbay/shared"
	"washbay/shared/cache"
	"washbay/shared/constant"
	gDto "washbay/shared/dto"
	"washbay/shared/failure"
	"washbay/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	// assignmentSpan widens the assignment lookup so the resolver sees the neighbours of a window.
	assignmentSpan = 12 * time.Hour
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	StartService(ctx context.Context, id string) (dto.BookingResponse, error)
	CompleteService(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelRequest) (dto.BookingResponse, error)
	MarkNoShow(ctx context.Context, id string) (dto.BookingResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (dto.BookingResponse, error)
	AddService(ctx context.Context, id string, req dto.ServiceRequest) (dto.BookingResponse, error)
	RemoveService(ctx context.Context, id, serviceID string) (dto.BookingResponse, error)
	RateQuality(ctx context.Context, id string, req dto.RateRequest) (dto.BookingResponse, error)
	RecordWorkItem(ctx context.Context, id, serviceID string, req dto.WorkItemRequest) (dto.BookingResponse, error)
	QuoteCancellation(ctx context.Context, id string) (dto.CancellationQuoteResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	directory   resourceService.Directory
	coordinator coordinator.Coordinator
	notifier    notificationService.Notifier
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	policy      model.Policy
	allocator   allocator.Allocator
	resolver    resolver.Resolver
	now         func() time.Time
}

func New(
	repo repository.Booking,
	directory resourceService.Directory,
	coordinator coordinator.Coordinator,
	notifier notificationService.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	strategies, err := resolver.ParseStrategies(cfg.Booking.ResolutionStrategies)
	if err != nil {
		log.Warn().Err(err).Msg("invalid resolution strategies, using defaults")

		strategies = resolver.DefaultStrategies
	}

	return &serviceImpl{
		repo:        repo,
		directory:   directory,
		coordinator: coordinator,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		policy:      policyFrom(cfg),
		allocator:   allocator.New(allocator.Order(cfg.Booking.AllocationOrder)),
		resolver: resolver.New(
			strategies,
			time.Duration(cfg.Booking.TimeShiftHorizonMinutes)*time.Minute,
			time.Duration(cfg.Booking.MinBufferMinutes)*time.Minute,
		),
		now: timezone.Now,
	}
}

// policyFrom overrides the default policy with every positive config value.
func policyFrom(cfg *config.Config) model.Policy {
	policy := model.DefaultPolicy()

	if cfg.Booking.BufferMinutes > 0 {
		policy.BufferMinutes = cfg.Booking.BufferMinutes
	}

	if cfg.Booking.GracePeriodMinutes > 0 {
		policy.GracePeriod = time.Duration(cfg.Booking.GracePeriodMinutes) * time.Minute
	}

	if cfg.Booking.OvertimeRatePerMinute > 0 {
		policy.OvertimeRatePerMinute = cfg.Booking.OvertimeRatePerMinute
	}

	if cfg.Booking.MinNoticeMinutes > 0 {
		policy.MinNotice = time.Duration(cfg.Booking.MinNoticeMinutes) * time.Minute
	}

	if cfg.Booking.MaxAdvanceDays > 0 {
		policy.MaxAdvance = time.Duration(cfg.Booking.MaxAdvanceDays) * 24 * time.Hour
	}

	return policy
}

func actorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(constant.ContextKeyActorID).(string); ok && actor != constant.Empty {
		return actor
	}

	return constant.ContextSystem
}

// placement is where a booking ends up and which other bookings had to move for it.
type placement struct {
	resourceID string
	window     scheduleModel.Window
	strategy   resolver.Strategy
	changes    []resolver.Change
	displaced  []*model.Booking
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := actorFrom(ctx)
	now := s.now()

	booking, err := req.ToModel(actor, s.policy.BufferMinutes, now)
	if err != nil {
		return res, failure.Validation("invalid scheduled_at: %v", err) // nolint:wrapcheck
	}

	if err = booking.Validate(s.policy, now, req.StartNow); err != nil {
		return res, err
	}

	candidates, err := s.candidates(ctx, booking.Criteria())
	if err != nil {
		return res, err
	}

	var placed placement

	err = s.coordinator.WithLock(ctx, candidates, func(ctx context.Context) error {
		placed, err = s.place(ctx, booking, booking.Window(), candidates, req.StartNow, actor, now)
		if err != nil {
			return err
		}

		booking.ApplyWindow(placed.window)
		booking.AssignTo(placed.resourceID)

		if req.StartNow {
			booking.StartImmediately(actor, placed.resourceID, now)
		}

		if err := s.repo.Insert(ctx, booking, placed.displaced...); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	events := []notificationModel.Event{notificationModel.FromBooking(notificationModel.KindCreated, booking, actor, now)}
	if req.StartNow {
		events = append(events, notificationModel.FromBooking(notificationModel.KindStarted, booking, actor, now))
	}

	s.publish(ctx, placed, actor, now, events...)
	s.invalidate(ctx, bookingIDs(booking.ID, placed.displaced)...)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

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
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

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
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindConfirmed, func(b *model.Booking, actor string, now time.Time) error {
		return b.Confirm(actor, now)
	})
}

func (s *serviceImpl) StartService(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindStarted, func(b *model.Booking, actor string, now time.Time) error {
		return b.Start(actor, now)
	})
}

func (s *serviceImpl) CompleteService(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindCompleted, func(b *model.Booking, actor string, now time.Time) error {
		return b.Complete(actor, now, s.policy)
	})
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindCancelled, func(b *model.Booking, actor string, now time.Time) error {
		return b.Cancel(actor, req.Reason, now)
	})
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkNoShow")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindNoShow, func(b *model.Booking, actor string, now time.Time) error {
		return b.MarkNoShow(actor, now, s.policy)
	})
}

func (s *serviceImpl) RateQuality(ctx context.Context, id string, req dto.RateRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RateQuality")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, notificationModel.KindRated, func(b *model.Booking, actor string, now time.Time) error {
		return b.Rate(req.Rating, req.Feedback, actor, now)
	})
}

func (s *serviceImpl) RecordWorkItem(ctx context.Context, id, serviceID string, req dto.WorkItemRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordWorkItem")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.mutate(ctx, id, constant.Empty, func(b *model.Booking, actor string, now time.Time) error {
		return b.RecordWork(req.ToModel(serviceID), actor, now)
	})
}

func (s *serviceImpl) RemoveService(ctx context.Context, id, serviceID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	// A shorter window always fits where the booking already is.
	return s.mutate(ctx, id, notificationModel.KindServicesChanged, func(b *model.Booking, actor string, now time.Time) error {
		return b.RemoveService(serviceID, actor, now)
	})
}

func (s *serviceImpl) QuoteCancellation(ctx context.Context, id string) (res dto.CancellationQuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".QuoteCancellation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.Status.CanTransitionTo(model.StatusCancelled) {
		return res, failure.InvalidStateTransition(string(booking.Status), string(model.StatusCancelled)) // nolint:wrapcheck
	}

	now := s.now()

	amount, err := booking.QuoteCancellation(now)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromModel(booking, amount, now)

	return res, nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := actorFrom(ctx)
	now := s.now()

	at, err := req.Time()
	if err != nil {
		return res, failure.Validation("invalid scheduled_at: %v", err) // nolint:wrapcheck
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = booking.CanReschedule(at, now, s.policy); err != nil {
		return res, err // nolint:wrapcheck
	}

	candidates, err := s.candidates(ctx, booking.Criteria())
	if err != nil {
		return res, err
	}

	old := booking.Window()
	window := scheduleModel.NewWindow(at, old.Duration(), time.Duration(s.policy.BufferMinutes)*time.Minute)

	var placed placement

	err = s.coordinator.WithLock(ctx, append(candidates, booking.AssignedResource()), func(ctx context.Context) error {
		placed, err = s.place(ctx, booking, window, candidates, req.Force, actor, now)
		if err != nil {
			return err
		}

		booking.ApplyWindow(placed.window)
		booking.AssignTo(placed.resourceID)
		booking.Touch(actor, now)

		return s.save(ctx, append([]*model.Booking{&booking}, placed.displaced...)...)
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	rescheduled := notificationModel.FromBooking(notificationModel.KindRescheduled, booking, actor, now).
		WithWindows(old, booking.Window())

	s.publish(ctx, placed, actor, now, rescheduled)
	s.invalidate(ctx, bookingIDs(booking.ID, placed.displaced)...)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) AddService(ctx context.Context, id string, req dto.ServiceRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := actorFrom(ctx)
	now := s.now()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = booking.AddService(req.ToModel(), actor, now); err != nil {
		return res, err // nolint:wrapcheck
	}

	candidates, err := s.candidates(ctx, booking.Criteria())
	if err != nil {
		return res, err
	}

	current := booking.AssignedResource()

	err = s.coordinator.WithLock(ctx, append(candidates, current), func(ctx context.Context) error {
		window := booking.Window()

		occupancy, err := s.occupancy(ctx, candidates, window, booking.ID)
		if err != nil {
			return err
		}

		if !slices.Contains(candidates, current) || !occupancy.IsFree(current, window) {
			resourceID, ok := s.allocator.Allocate(window, candidates, occupancy)
			if !ok {
				return failure.NoAvailableSlot("no resource can fit the extended booking %s", booking.ID) // nolint:wrapcheck
			}

			booking.AssignTo(resourceID)
		}

		return s.save(ctx, &booking)
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	s.notifier.Notify(ctx, notificationModel.FromBooking(notificationModel.KindServicesChanged, booking, actor, now))
	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// mutate loads a booking, applies a lifecycle change and saves it under its version check.
// An empty kind emits no event.
func (s *serviceImpl) mutate(
	ctx context.Context,
	id string,
	kind notificationModel.Kind,
	apply func(b *model.Booking, actor string, now time.Time) error,
) (res dto.BookingResponse, err error) {
	actor := actorFrom(ctx)
	now := s.now()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = apply(&booking, actor, now); err != nil {
		return res, err
	}

	if err = s.save(ctx, &booking); err != nil {
		return res, err
	}

	if kind != constant.Empty {
		s.notifier.Notify(ctx, notificationModel.FromBooking(kind, booking, actor, now))
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) save(ctx context.Context, bookings ...*model.Booking) error {
	if err := s.repo.Save(ctx, bookings...); err != nil {
		if failure.IsTransient(err) {
			return err // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to save booking")

		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// candidates lists the ids of the resources able to serve criteria.
func (s *serviceImpl) candidates(ctx context.Context, criteria resourceModel.Criteria) ([]string, error) {
	eligible, err := s.directory.ListEligible(ctx, criteria)
	if err != nil {
		return nil, err // nolint:wrapcheck
	}

	if len(eligible) == 0 {
		return nil, failure.NoAvailableSlot("no active %s can serve this booking", criteria.Kind) // nolint:wrapcheck
	}

	ids := make([]string, len(eligible))
	for i, resource := range eligible {
		ids[i] = resource.ID
	}

	return ids, nil
}

// occupancy loads the active assignments around window on resourceIDs, leaving out excludeID.
func (s *serviceImpl) occupancy(ctx context.Context, resourceIDs []string, window scheduleModel.Window, excludeID string) (scheduleModel.Occupancy, error) {
	assignments, err := s.repo.GetAssignments(ctx, resourceIDs, window.Start.Add(-assignmentSpan), window.PaddedEnd().Add(assignmentSpan))
	if err != nil {
		log.Error().Err(err).Msg("failed to get assignments")

		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	return scheduleModel.Group(resourceIDs, assignments).Without(excludeID), nil
}

// place finds a resource for window. Must run under the locks of candidates.
// When resolve is set and nothing is free, the conflict resolver may move other bookings.
func (s *serviceImpl) place(
	ctx context.Context,
	booking model.Booking,
	window scheduleModel.Window,
	candidates []string,
	resolve bool,
	actor string,
	now time.Time,
) (placement, error) {
	occupancy, err := s.occupancy(ctx, candidates, window, booking.ID)
	if err != nil {
		return placement{}, err
	}

	if resourceID, ok := s.allocator.Allocate(window, candidates, occupancy); ok {
		return placement{resourceID: resourceID, window: window}, nil
	}

	if !resolve {
		return placement{}, failure.NoAvailableSlot("no resource is free from %s to %s", // nolint:wrapcheck
			timezone.Format(window.Start, constant.DateFormat), timezone.Format(window.End, constant.DateFormat))
	}

	conflicting, alternatives, err := s.conflicts(ctx, window, candidates, occupancy)
	if err != nil {
		return placement{}, err
	}

	plan, err := s.resolver.Resolve(resolver.Request{
		Window:       window,
		Candidates:   s.allocator.Rank(candidates, occupancy),
		Occupancy:    occupancy,
		Alternatives: alternatives,
	})
	if err != nil {
		return placement{}, err // nolint:wrapcheck
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("resource_id", plan.ResourceID).
		Str("strategy", string(plan.Strategy)).
		Int("changes", len(plan.Changes)).
		Msg("resolved scheduling conflict")

	result := placement{
		resourceID: plan.ResourceID,
		window:     plan.Window,
		strategy:   plan.Strategy,
		changes:    plan.Changes,
	}

	for _, change := range plan.Changes {
		moved, ok := conflicting[change.BookingID]
		if !ok {
			return placement{}, failure.InvalidArgument("plan moves unknown booking %s", change.BookingID) // nolint:wrapcheck
		}

		if moved.Status == model.StatusInProgress &&
			(!change.New.Start.Equal(change.Old.Start) || change.ToResource != moved.AssignedResource()) {
			return placement{}, failure.InvalidArgument("plan moves in-progress booking %s", change.BookingID) // nolint:wrapcheck
		}

		moved.ApplyWindow(change.New)
		moved.AssignTo(change.ToResource)
		moved.Touch(actor, now)

		result.displaced = append(result.displaced, moved)
	}

	return result, nil
}

// conflicts loads the bookings overlapping window on any candidate, together with the
// candidates each of them could be relocated to. In-progress bookings get no alternatives:
// only their buffer may change.
func (s *serviceImpl) conflicts(
	ctx context.Context,
	window scheduleModel.Window,
	candidates []string,
	occupancy scheduleModel.Occupancy,
) (map[string]*model.Booking, map[string][]string, error) {
	conflicting := map[string]*model.Booking{}
	alternatives := map[string][]string{}

	for _, candidate := range candidates {
		for _, assignment := range occupancy.Conflicts(candidate, window) {
			if conflicting[assignment.BookingID] != nil {
				continue
			}

			booking, err := s.find(ctx, assignment.BookingID)
			if err != nil {
				return nil, nil, err
			}

			if assignment.Pinned {
				conflicting[booking.ID] = &booking
				alternatives[booking.ID] = []string{}

				continue
			}

			eligible, err := s.directory.ListEligible(ctx, booking.Criteria())
			if err != nil {
				return nil, nil, err // nolint:wrapcheck
			}

			ids := []string{}

			for _, resource := range eligible {
				if slices.Contains(candidates, resource.ID) {
					ids = append(ids, resource.ID)
				}
			}

			conflicting[booking.ID] = &booking
			alternatives[booking.ID] = ids
		}
	}

	return conflicting, alternatives, nil
}

// publish emits events followed by one schedule change per displaced booking.
func (s *serviceImpl) publish(ctx context.Context, placed placement, actor string, now time.Time, events ...notificationModel.Event) {
	for i, change := range placed.changes {
		events = append(events, notificationModel.FromBooking(notificationModel.KindScheduleChanged, *placed.displaced[i], actor, now).
			WithWindows(change.Old, change.New))
	}

	s.notifier.Notify(ctx, events...)
}

func bookingIDs(id string, others []*model.Booking) []string {
	ids := []string{id}
	for _, booking := range others {
		ids = append(ids, booking.ID)
	}

	return ids
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
