package service_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"washbay/internal/domains/booking/model"
	scheduleModel "washbay/internal/domains/schedule/model"
	gDto "washbay/shared/dto"
	"washbay/shared/failure"
)

// memoryRepo keeps bookings in memory with the same version semantics as the SQL repository.
type memoryRepo struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newMemoryRepo(seed ...model.Booking) *memoryRepo {
	repo := &memoryRepo{bookings: map[string]model.Booking{}}
	for _, b := range seed {
		repo.bookings[b.ID] = b
	}

	return repo
}

func (r *memoryRepo) Insert(_ context.Context, booking model.Booking, displaced ...*model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersions(displaced); err != nil {
		return err
	}

	r.bookings[booking.ID] = booking
	r.store(displaced)

	return nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking := r.bookings[id]
	booking.Services = slices.Clone(booking.Services)

	if booking.WorkSession != nil {
		session := *booking.WorkSession
		session.Items = slices.Clone(session.Items)
		booking.WorkSession = &session
	}

	return booking, nil
}

func (r *memoryRepo) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := []model.Booking{}
	for _, b := range r.bookings {
		res = append(res, b)
	}

	return res, nil
}

func (r *memoryRepo) Count(context.Context, gDto.FilterGroup) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bookings), nil
}

func (r *memoryRepo) Save(_ context.Context, bookings ...*model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersions(bookings); err != nil {
		return err
	}

	r.store(bookings)

	return nil
}

func (r *memoryRepo) GetAssignments(_ context.Context, resourceIDs []string, from, to time.Time) ([]scheduleModel.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := []scheduleModel.Assignment{}

	for _, b := range r.bookings {
		window := b.Window()
		if !b.Status.IsActive() || !slices.Contains(resourceIDs, b.AssignedResource()) {
			continue
		}

		if !window.Start.Before(to) || !window.PaddedEnd().After(from) {
			continue
		}

		res = append(res, scheduleModel.Assignment{
			BookingID:       b.ID,
			ResourceID:      b.AssignedResource(),
			Start:           b.ScheduledAt,
			DurationMinutes: b.TotalDuration,
			BufferMinutes:   b.BufferMinutes,
			Pinned:          b.Status == model.StatusInProgress,
		})
	}

	return res, nil
}

func (r *memoryRepo) checkVersions(bookings []*model.Booking) error {
	for _, b := range bookings {
		if stored, ok := r.bookings[b.ID]; !ok || stored.Version != b.Version {
			return failure.ConcurrentModification(model.EntityName, b.ID) // nolint:wrapcheck
		}
	}

	return nil
}

func (r *memoryRepo) store(bookings []*model.Booking) {
	for _, b := range bookings {
		b.Version++
		r.bookings[b.ID] = *b
	}
}

func (r *memoryRepo) find(id string) model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bookings[id]
}

// nopCache always misses.
type nopCache struct{}

func (nopCache) Save(context.Context, string, any, int) error { return nil }
func (nopCache) Get(context.Context, string, any) error { return failure.NotFound("cache miss") }
func (nopCache) Delete(context.Context, string) error { return nil }
func (nopCache) Clear(context.Context, string) error { return nil }
func (nopCache) Increment(context.Context, string, int) (int64, error) { return 0, nil }
