package model

import (
	"time"

	"github.com/google/uuid"

	bookingModel "washbay/internal/domains/booking/model"
	scheduleModel "washbay/internal/domains/schedule/model"
)

const HeaderKind = "kind"

type Kind string

const (
	KindCreated         Kind = "booking.created"
	KindConfirmed       Kind = "booking.confirmed"
	KindStarted         Kind = "booking.started"
	KindCompleted       Kind = "booking.completed"
	KindCancelled       Kind = "booking.cancelled"
	KindNoShow          Kind = "booking.no_show"
	KindRescheduled     Kind = "booking.rescheduled"
	KindScheduleChanged Kind = "booking.schedule_changed"
	KindServicesChanged Kind = "booking.services_changed"
	KindRated           Kind = "booking.rated"
)

// Terminal reports whether the event closes the booking for good.
func (k Kind) Terminal() bool {
	return k == KindCompleted || k == KindCancelled || k == KindNoShow
}

type Event struct {
	ID         string                `json:"id"`
	Kind       Kind                  `json:"kind"`
	BookingID  string                `json:"booking_id"`
	CustomerID string                `json:"customer_id"`
	ResourceID string                `json:"resource_id,omitempty"`
	Status     string                `json:"status"`
	Actor      string                `json:"actor"`
	OldWindow  *scheduleModel.Window `json:"old_window,omitempty"`
	NewWindow  *scheduleModel.Window `json:"new_window,omitempty"`
	// Booking is the full record, attached to terminal events for archiving.
	Booking    *bookingModel.Booking `json:"booking,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func FromBooking(kind Kind, booking bookingModel.Booking, actor string, at time.Time) Event {
	event := Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ResourceID: booking.AssignedResource(),
		Status:     string(booking.Status),
		Actor:      actor,
		OccurredAt: at,
	}

	if kind.Terminal() {
		snapshot := booking
		event.Booking = &snapshot
	}

	return event
}

// WithWindows records a move from old to updated.
func (e Event) WithWindows(old, updated scheduleModel.Window) Event {
	e.OldWindow = &old
	e.NewWindow = &updated

	return e
}
