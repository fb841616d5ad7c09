package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washbay/internal/domains/booking/model"
	resourceModel "washbay/internal/domains/resource/model"
	"washbay/shared/failure"
)

var now = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func service(id string, price float64, minutes int) model.BookingService {
	return model.BookingService{ServiceID: id, Name: "service " + id, Price: price, DurationMinutes: minutes}
}

func newBooking(status model.Status, services ...model.BookingService) model.Booking {
	if len(services) == 0 {
		services = []model.BookingService{service("wash", 100, 60)}
	}

	b := model.Booking{
		ID:            "b-1",
		CustomerID:    "c-1",
		VehicleID:     "v-1",
		VehicleSize:   resourceModel.VehicleSizeMedium,
		Category:      model.CategoryStationary,
		Status:        status,
		ScheduledAt:   now.Add(48 * time.Hour),
		BufferMinutes: model.DefaultBufferMinutes,
		Services:      services,
	}
	b.Recalculate()

	return b
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from model.Status
		to   model.Status
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusInProgress, false},
		{model.StatusConfirmed, model.StatusInProgress, true},
		{model.StatusConfirmed, model.StatusNoShow, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusInProgress, model.StatusCompleted, true},
		{model.StatusInProgress, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusCancelled, false},
		{model.StatusNoShow, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, model.StatusNoShow.IsTerminal())
	assert.False(t, model.StatusInProgress.IsTerminal())
	assert.True(t, model.StatusInProgress.IsActive())
	assert.False(t, model.StatusCancelled.IsActive())
}

func TestBooking_Validate(t *testing.T) {
	lat, lng := -6.2, 106.8

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		immediate bool
		wantErr   error
	}{
		{
			name:   "valid stationary booking",
			mutate: func(b *model.Booking) {},
		},
		{
			name:    "no services",
			mutate:  func(b *model.Booking) { b.Services = nil },
			wantErr: failure.ErrValidation,
		},
		{
			name: "eleven services",
			mutate: func(b *model.Booking) {
				b.Services = nil
				for i := range 11 {
					b.Services = append(b.Services, service(string(rune('a'+i)), 1, 10))
				}
			},
			wantErr: failure.ErrValidation,
		},
		{
			name:    "too short",
			mutate:  func(b *model.Booking) { b.Services = []model.BookingService{service("quick", 10, 20)} },
			wantErr: failure.ErrValidation,
		},
		{
			name:    "too long",
			mutate:  func(b *model.Booking) { b.Services = []model.BookingService{service("detail", 10, 241)} },
			wantErr: failure.ErrValidation,
		},
		{
			name:    "free of charge",
			mutate:  func(b *model.Booking) { b.Services = []model.BookingService{service("free", 0, 60)} },
			wantErr: failure.ErrValidation,
		},
		{
			name:    "too expensive",
			mutate:  func(b *model.Booking) { b.Services = []model.BookingService{service("gold", 10000.01, 60)} },
			wantErr: failure.ErrValidation,
		},
		{
			name:    "mobile without location",
			mutate:  func(b *model.Booking) { b.Category = model.CategoryMobile },
			wantErr: failure.ErrValidation,
		},
		{
			name: "mobile with location",
			mutate: func(b *model.Booking) {
				b.Category = model.CategoryMobile
				b.CustomerLatitude = &lat
				b.CustomerLongitude = &lng
			},
		},
		{
			name:    "less than two hours ahead",
			mutate:  func(b *model.Booking) { b.ScheduledAt = now.Add(90 * time.Minute) },
			wantErr: failure.ErrValidation,
		},
		{
			name:    "more than ninety days ahead",
			mutate:  func(b *model.Booking) { b.ScheduledAt = now.Add(91 * 24 * time.Hour) },
			wantErr: failure.ErrValidation,
		},
		{
			name: "walk-in starting now skips notice",
			mutate: func(b *model.Booking) {
				b.Category = model.CategoryWalkIn
				b.ScheduledAt = now
			},
			immediate: true,
		},
		{
			name:      "only walk-ins start immediately",
			mutate:    func(b *model.Booking) { b.ScheduledAt = now },
			immediate: true,
			wantErr:   failure.ErrValidation,
		},
		{
			name:    "unknown vehicle size",
			mutate:  func(b *model.Booking) { b.VehicleSize = "bus" },
			wantErr: failure.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(model.StatusPending)
			tt.mutate(&b)
			b.Recalculate()

			err := b.Validate(model.DefaultPolicy(), now, tt.immediate)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBooking_CancelTwice(t *testing.T) {
	b := newBooking(model.StatusConfirmed)

	require.NoError(t, b.Cancel("staff-1", "customer called", now))
	assert.Equal(t, model.StatusCancelled, b.Status)
	assert.Equal(t, "staff-1", *b.CancelledBy)

	err := b.Cancel("staff-1", "again", now)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
}

func TestBooking_CancellationFee(t *testing.T) {
	tests := []struct {
		name        string
		hoursBefore time.Duration
		want        float64
	}{
		{name: "25 hours", hoursBefore: 25 * time.Hour, want: 0},
		{name: "10 hours", hoursBefore: 10 * time.Hour, want: 25},
		{name: "3 hours", hoursBefore: 3 * time.Hour, want: 50},
		{name: "1 hour", hoursBefore: time.Hour, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(model.StatusPending)
			b.ScheduledAt = now.Add(tt.hoursBefore)

			quote, err := b.QuoteCancellation(now)
			require.NoError(t, err)

			require.NoError(t, b.Cancel("c-1", "", now))
			assert.Equal(t, tt.want, b.CancellationFee)
			assert.Equal(t, quote, b.CancellationFee)
			assert.Equal(t, tt.want, b.AmountDue())
		})
	}
}

func TestBooking_CancelInProgress(t *testing.T) {
	b := newBooking(model.StatusInProgress)

	err := b.Cancel("c-1", "", now)

	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
	assert.Equal(t, model.StatusInProgress, b.Status)
	assert.Nil(t, b.CancelledAt)
}

func TestBooking_MarkNoShow(t *testing.T) {
	b := newBooking(model.StatusConfirmed)
	policy := model.DefaultPolicy()

	err := b.MarkNoShow("staff-1", b.ScheduledAt.Add(29*time.Minute), policy)
	assert.ErrorIs(t, err, failure.ErrGracePeriodNotElapsed)
	assert.Equal(t, model.StatusConfirmed, b.Status)

	require.NoError(t, b.MarkNoShow("staff-1", b.ScheduledAt.Add(31*time.Minute), policy))
	assert.Equal(t, model.StatusNoShow, b.Status)
	assert.Equal(t, 100.0, b.NoShowFee)

	pending := newBooking(model.StatusPending)
	err = pending.MarkNoShow("staff-1", pending.ScheduledAt.Add(time.Hour), policy)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
}

func TestBooking_StartAndComplete(t *testing.T) {
	b := newBooking(model.StatusConfirmed)
	start := b.ScheduledAt

	require.NoError(t, b.Start("staff-1", start))
	require.NoError(t, b.Complete("staff-1", start.Add(75*time.Minute), model.DefaultPolicy()))

	assert.Equal(t, model.StatusCompleted, b.Status)
	assert.Equal(t, 15.0, b.OvertimeCharge)
	assert.Equal(t, 115.0, b.AmountDue())
	assert.Equal(t, start.Add(75*time.Minute), *b.ActualEnd)

	err := b.Complete("staff-1", start.Add(80*time.Minute), model.DefaultPolicy())
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
}

func TestBooking_CompleteEarlyHasNoOvertime(t *testing.T) {
	b := newBooking(model.StatusConfirmed)

	require.NoError(t, b.Start("staff-1", b.ScheduledAt))
	require.NoError(t, b.Complete("staff-1", b.ScheduledAt.Add(45*time.Minute), model.DefaultPolicy()))

	assert.Zero(t, b.OvertimeCharge)
}

func TestBooking_Rate(t *testing.T) {
	pending := newBooking(model.StatusPending)
	assert.ErrorIs(t, pending.Rate(5, "", "c-1", now), failure.ErrInvalidStateTransition)

	b := newBooking(model.StatusCompleted)

	assert.ErrorIs(t, b.Rate(6, "", "c-1", now), failure.ErrValidation)
	assert.ErrorIs(t, b.Rate(0, "", "c-1", now), failure.ErrValidation)
	assert.ErrorIs(t, b.Rate(4, strings.Repeat("x", 1001), "c-1", now), failure.ErrValidation)
	assert.Nil(t, b.Rating)

	require.NoError(t, b.Rate(4, strings.Repeat("x", 1000), "c-1", now))
	assert.Equal(t, 4, *b.Rating)

	err := b.Rate(5, "changed my mind", "c-1", now)
	assert.ErrorIs(t, err, failure.ErrAlreadyRated)
	assert.Equal(t, 4, *b.Rating)
}

func TestBooking_AddRemoveRoundTrip(t *testing.T) {
	b := newBooking(model.StatusPending, service("wash", 19.99, 45), service("wax", 0.1, 15))
	price, duration := b.TotalPrice, b.TotalDuration

	require.NoError(t, b.AddService(service("tyres", 0.2, 20), "c-1", now))
	assert.Equal(t, 80, b.TotalDuration)
	assert.Len(t, b.Services, 3)
	assert.Equal(t, 3, b.Services[2].Position)

	require.NoError(t, b.RemoveService("tyres", "c-1", now))
	assert.Equal(t, price, b.TotalPrice)
	assert.Equal(t, duration, b.TotalDuration)
	assert.Len(t, b.Services, 2)
}

func TestBooking_ServiceBounds(t *testing.T) {
	tests := []struct {
		name    string
		booking func() model.Booking
		apply   func(b *model.Booking) error
		wantErr error
	}{
		{
			name:    "removing the last service",
			booking: func() model.Booking { return newBooking(model.StatusPending) },
			apply:   func(b *model.Booking) error { return b.RemoveService("wash", "c-1", now) },
			wantErr: failure.ErrBusinessRuleViolation,
		},
		{
			name: "eleventh service",
			booking: func() model.Booking {
				services := []model.BookingService{}
				for i := range 10 {
					services = append(services, service(string(rune('a'+i)), 5, 10))
				}

				return newBooking(model.StatusPending, services...)
			},
			apply:   func(b *model.Booking) error { return b.AddService(service("z", 5, 10), "c-1", now) },
			wantErr: failure.ErrBusinessRuleViolation,
		},
		{
			name:    "duration above 240",
			booking: func() model.Booking { return newBooking(model.StatusPending, service("wash", 50, 200)) },
			apply:   func(b *model.Booking) error { return b.AddService(service("detail", 50, 45), "c-1", now) },
			wantErr: failure.ErrBusinessRuleViolation,
		},
		{
			name:    "duplicate service",
			booking: func() model.Booking { return newBooking(model.StatusPending) },
			apply:   func(b *model.Booking) error { return b.AddService(service("wash", 10, 10), "c-1", now) },
			wantErr: failure.ErrBusinessRuleViolation,
		},
		{
			name:    "unknown service",
			booking: func() model.Booking { return newBooking(model.StatusPending) },
			apply:   func(b *model.Booking) error { return b.RemoveService("nope", "c-1", now) },
			wantErr: failure.ErrNotFound,
		},
		{
			name:    "not pending",
			booking: func() model.Booking { return newBooking(model.StatusConfirmed) },
			apply:   func(b *model.Booking) error { return b.AddService(service("wax", 10, 10), "c-1", now) },
			wantErr: failure.ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.booking()
			before := b.TotalPrice
			count := len(b.Services)

			err := tt.apply(&b)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, b.TotalPrice)
			assert.Len(t, b.Services, count)
		})
	}
}

func TestBooking_CanReschedule(t *testing.T) {
	b := newBooking(model.StatusConfirmed)
	policy := model.DefaultPolicy()

	assert.ErrorIs(t, b.CanReschedule(now.Add(90*time.Minute), now, policy), failure.ErrValidation)
	assert.NoError(t, b.CanReschedule(now.Add(121*time.Minute), now, policy))

	done := newBooking(model.StatusCompleted)
	assert.ErrorIs(t, done.CanReschedule(now.Add(5*time.Hour), now, policy), failure.ErrInvalidStateTransition)
}

func TestBooking_Criteria(t *testing.T) {
	foam := service("foam", 20, 30)
	foam.RequiredEquipment = []string{"foam_cannon", "pressure_washer"}
	wash := service("wash", 20, 30)
	wash.RequiredEquipment = []string{"pressure_washer"}

	b := newBooking(model.StatusPending, foam, wash)
	criteria := b.Criteria()

	assert.Equal(t, resourceModel.KindBay, criteria.Kind)
	assert.Equal(t, []string{"foam_cannon", "pressure_washer"}, criteria.RequiredEquipment)
	assert.Nil(t, criteria.Location)

	assert.Equal(t, resourceModel.KindMobileTeam, model.CategoryMobile.ResourceKind())
	assert.Equal(t, resourceModel.KindBay, model.CategoryWalkIn.ResourceKind())
}

func TestBooking_WalkInWorkSession(t *testing.T) {
	b := newBooking(model.StatusPending, service("wash", 30, 30), service("vacuum", 20, 30))
	b.Category = model.CategoryWalkIn

	b.StartImmediately("staff-1", "bay-1", now)
	assert.Equal(t, model.StatusInProgress, b.Status)
	assert.Equal(t, "bay-1", b.AssignedResource())
	require.True(t, b.WorkSession.IsOpen())

	require.NoError(t, b.RecordWork(model.WorkItem{ServiceID: "wash", ActualMinutes: 35}, "staff-1", now))
	require.NoError(t, b.RecordWork(model.WorkItem{ServiceID: "vacuum", ActualMinutes: 20, QualityNote: "pet hair"}, "staff-1", now))
	require.NoError(t, b.RecordWork(model.WorkItem{ServiceID: "wash", ActualMinutes: 40}, "staff-1", now))
	assert.Equal(t, 60, b.WorkSession.LaborMinutes)
	assert.Len(t, b.WorkSession.Items, 2)

	assert.ErrorIs(t, b.RecordWork(model.WorkItem{ServiceID: "polish", ActualMinutes: 5}, "staff-1", now), failure.ErrNotFound)

	require.NoError(t, b.Complete("staff-1", now.Add(70*time.Minute), model.DefaultPolicy()))
	assert.False(t, b.WorkSession.IsOpen())
	assert.Equal(t, 10.0, b.OvertimeCharge)

	err := b.RecordWork(model.WorkItem{ServiceID: "wash", ActualMinutes: 1}, "staff-1", now)
	assert.ErrorIs(t, err, failure.ErrInvalidStateTransition)
}

func TestWorkSession_ScanValue(t *testing.T) {
	session := model.WorkSession{
		ResourceID: "bay-1",
		StaffID:    "staff-1",
		OpenedAt:   now,
		Items:      []model.WorkItem{{ServiceID: "wash", ActualMinutes: 30, RecordedAt: now}},
	}
	session.Record(session.Items[0])

	value, err := session.Value()
	require.NoError(t, err)

	var scanned model.WorkSession
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, session, scanned)

	assert.Error(t, scanned.Scan(42))
}
