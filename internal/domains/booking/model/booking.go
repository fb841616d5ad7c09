package model

import (
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"washbay/internal/domains/booking/fee"
	resourceModel "washbay/internal/domains/resource/model"
	scheduleModel "washbay/internal/domains/schedule/model"
	"washbay/shared/failure"
)

// CheckSchedule validates a requested start against the notice and advance limits.
func (p Policy) CheckSchedule(now, at time.Time) error {
	ahead := at.Sub(now)

	if ahead < p.MinNotice {
		return failure.Validation("scheduled time must be at least %s ahead", p.MinNotice) // nolint:wrapcheck
	}

	if ahead > p.MaxAdvance {
		return failure.Validation("scheduled time must be within %s", p.MaxAdvance) // nolint:wrapcheck
	}

	return nil
}

// Recalculate derives totals and positions from the service list.
func (b *Booking) Recalculate() {
	price := 0.0
	duration := 0

	for i := range b.Services {
		b.Services[i].BookingID = b.ID
		b.Services[i].Position = i + 1
		price += b.Services[i].Price
		duration += b.Services[i].DurationMinutes
	}

	b.TotalPrice = math.Round(price*100) / 100
	b.TotalDuration = duration
}

// boundsViolation describes the first violated service bound, or returns "".
func boundsViolation(services []BookingService) string {
	if len(services) < MinServices || len(services) > MaxServices {
		return "a booking needs between 1 and 10 services"
	}

	price := 0.0
	duration := 0

	for _, s := range services {
		if s.Price < 0 || s.DurationMinutes < 0 {
			return "service price and duration must not be negative"
		}

		price += s.Price
		duration += s.DurationMinutes
	}

	if duration < MinDurationMinutes || duration > MaxDurationMinutes {
		return "total duration must be between 30 and 240 minutes"
	}

	if price <= 0 || price > MaxTotalPrice {
		return "total price must be above 0 and at most 10000"
	}

	return ""
}

// Validate checks a new booking. immediate skips the notice window for walk-ins starting now.
func (b Booking) Validate(policy Policy, now time.Time, immediate bool) error {
	if !b.Category.Valid() {
		return failure.Validation("unknown booking category %q", b.Category) // nolint:wrapcheck
	}

	if !b.VehicleSize.Valid() {
		return failure.Validation("unknown vehicle size %q", b.VehicleSize) // nolint:wrapcheck
	}

	if msg := boundsViolation(b.Services); msg != "" {
		return failure.Validation("%s", msg) // nolint:wrapcheck
	}

	if b.Category == CategoryMobile && b.Location() == nil {
		return failure.Validation("mobile bookings require a customer location") // nolint:wrapcheck
	}

	if immediate {
		if b.Category != CategoryWalkIn {
			return failure.Validation("only walk-ins can start immediately") // nolint:wrapcheck
		}

		return nil
	}

	return policy.CheckSchedule(now, b.ScheduledAt)
}

func (b Booking) Location() *resourceModel.Location {
	if b.CustomerLatitude == nil || b.CustomerLongitude == nil {
		return nil
	}

	return &resourceModel.Location{Latitude: *b.CustomerLatitude, Longitude: *b.CustomerLongitude}
}

// Criteria is what a resource must offer to serve the booking.
func (b Booking) Criteria() resourceModel.Criteria {
	equipment := []string{}

	for _, s := range b.Services {
		equipment = append(equipment, s.RequiredEquipment...)
	}

	slices.Sort(equipment)

	return resourceModel.Criteria{
		Kind:              b.Category.ResourceKind(),
		VehicleSize:       b.VehicleSize,
		Location:          b.Location(),
		RequiredEquipment: slices.Compact(equipment),
	}
}

func (b Booking) Window() scheduleModel.Window {
	return scheduleModel.NewWindow(
		b.ScheduledAt,
		time.Duration(b.TotalDuration)*time.Minute,
		time.Duration(b.BufferMinutes)*time.Minute,
	)
}

func (b Booking) AssignedResource() string {
	if b.ResourceID == nil {
		return ""
	}

	return *b.ResourceID
}

// AssignTo places the booking on a resource.
func (b *Booking) AssignTo(resourceID string) {
	b.ResourceID = &resourceID

	if b.WorkSession.IsOpen() {
		b.WorkSession.ResourceID = resourceID
	}
}

// ApplyWindow moves the booking to start at window.Start and keeps its buffer in whole minutes.
func (b *Booking) ApplyWindow(window scheduleModel.Window) {
	b.ScheduledAt = window.Start
	b.BufferMinutes = int(window.Buffer / time.Minute)
}

func (b *Booking) Confirm(actor string, now time.Time) error {
	if err := b.transition(StatusConfirmed); err != nil {
		return err
	}

	b.Touch(actor, now)

	return nil
}

func (b *Booking) Start(actor string, now time.Time) error {
	if err := b.transition(StatusInProgress); err != nil {
		return err
	}

	b.ActualStart = &now
	b.Touch(actor, now)

	return nil
}

// StartImmediately puts a new walk-in straight into service on resourceID.
func (b *Booking) StartImmediately(actor, resourceID string, now time.Time) {
	b.Status = StatusInProgress
	b.ActualStart = &now
	b.AssignTo(resourceID)
	b.WorkSession = &WorkSession{
		ResourceID: resourceID,
		StaffID:    actor,
		OpenedAt:   now,
		Items:      []WorkItem{},
	}
}

func (b *Booking) Complete(actor string, now time.Time, policy Policy) error {
	if !b.Status.CanTransitionTo(StatusCompleted) {
		return failure.InvalidStateTransition(string(b.Status), string(StatusCompleted)) // nolint:wrapcheck
	}

	start := b.ScheduledAt
	if b.ActualStart != nil {
		start = *b.ActualStart
	}

	actual := max(0, now.Sub(start).Minutes())

	charge, err := fee.OvertimeCharge(float64(b.TotalDuration), actual, policy.OvertimeRatePerMinute)
	if err != nil {
		return err // nolint:wrapcheck
	}

	b.Status = StatusCompleted
	b.ActualEnd = &now
	b.OvertimeCharge = charge

	if b.WorkSession.IsOpen() {
		b.WorkSession.Close(now)
	}

	b.Touch(actor, now)

	return nil
}

func (b *Booking) Cancel(actor, reason string, now time.Time) error {
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return failure.InvalidStateTransition(string(b.Status), string(StatusCancelled)) // nolint:wrapcheck
	}

	amount, err := b.QuoteCancellation(now)
	if err != nil {
		return err
	}

	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancelledBy = &actor
	b.CancellationReason = &reason
	b.CancellationFee = amount
	b.Touch(actor, now)

	return nil
}

// QuoteCancellation is the fee Cancel would charge at now.
func (b Booking) QuoteCancellation(now time.Time) (float64, error) {
	amount, err := fee.CancellationFee(b.TotalPrice, now, b.ScheduledAt)
	if err != nil {
		return 0, err // nolint:wrapcheck
	}

	return amount, nil
}

func (b *Booking) MarkNoShow(actor string, now time.Time, policy Policy) error {
	if !b.Status.CanTransitionTo(StatusNoShow) {
		return failure.InvalidStateTransition(string(b.Status), string(StatusNoShow)) // nolint:wrapcheck
	}

	if deadline := b.ScheduledAt.Add(policy.GracePeriod); now.Before(deadline) {
		return failure.GracePeriodNotElapsed("booking %s can be marked no-show after %s", b.ID, deadline.Format(time.RFC3339)) // nolint:wrapcheck
	}

	amount, err := fee.NoShowFee(b.TotalPrice)
	if err != nil {
		return err // nolint:wrapcheck
	}

	b.Status = StatusNoShow
	b.NoShowFee = amount
	b.Touch(actor, now)

	return nil
}

// CanReschedule validates a move to at without changing the booking.
func (b Booking) CanReschedule(at, now time.Time, policy Policy) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return failure.InvalidState("cannot reschedule a %s booking", b.Status) // nolint:wrapcheck
	}

	return policy.CheckSchedule(now, at)
}

func (b *Booking) AddService(service BookingService, actor string, now time.Time) error {
	if b.Status != StatusPending {
		return failure.InvalidState("services can only be changed while pending, booking is %s", b.Status) // nolint:wrapcheck
	}

	if slices.ContainsFunc(b.Services, func(s BookingService) bool { return s.ServiceID == service.ServiceID }) {
		return failure.BusinessRuleViolation("service %s is already on the booking", service.ServiceID) // nolint:wrapcheck
	}

	services := append(slices.Clone(b.Services), service)
	if msg := boundsViolation(services); msg != "" {
		return failure.BusinessRuleViolation("%s", msg) // nolint:wrapcheck
	}

	b.Services = services
	b.Recalculate()
	b.Touch(actor, now)

	return nil
}

func (b *Booking) RemoveService(serviceID, actor string, now time.Time) error {
	if b.Status != StatusPending {
		return failure.InvalidState("services can only be changed while pending, booking is %s", b.Status) // nolint:wrapcheck
	}

	index := slices.IndexFunc(b.Services, func(s BookingService) bool { return s.ServiceID == serviceID })
	if index < 0 {
		return failure.NotFound("service not found on booking") // nolint:wrapcheck
	}

	services := slices.Delete(slices.Clone(b.Services), index, index+1)
	if msg := boundsViolation(services); msg != "" {
		return failure.BusinessRuleViolation("%s", msg) // nolint:wrapcheck
	}

	b.Services = services
	b.Recalculate()
	b.Touch(actor, now)

	return nil
}

func (b *Booking) Rate(rating int, feedback, actor string, now time.Time) error {
	if b.Status != StatusCompleted {
		return failure.InvalidState("only completed bookings can be rated, booking is %s", b.Status) // nolint:wrapcheck
	}

	if b.Rating != nil {
		return failure.AlreadyRated(b.ID) // nolint:wrapcheck
	}

	if rating < MinRating || rating > MaxRating {
		return failure.Validation("rating must be between 1 and 5") // nolint:wrapcheck
	}

	if utf8.RuneCountInString(feedback) > MaxFeedbackLength {
		return failure.Validation("feedback must be at most 1000 characters") // nolint:wrapcheck
	}

	b.Rating = &rating
	b.Feedback = &feedback
	b.Touch(actor, now)

	return nil
}

// RecordWork adds a completion record to the open walk-in work session.
func (b *Booking) RecordWork(item WorkItem, actor string, now time.Time) error {
	if b.Status != StatusInProgress || !b.WorkSession.IsOpen() {
		return failure.InvalidState("booking %s has no open work session", b.ID) // nolint:wrapcheck
	}

	if !slices.ContainsFunc(b.Services, func(s BookingService) bool { return s.ServiceID == item.ServiceID }) {
		return failure.NotFound("service not found on booking") // nolint:wrapcheck
	}

	if item.ActualMinutes < 0 {
		return failure.Validation("actual minutes must not be negative") // nolint:wrapcheck
	}

	item.RecordedAt = now
	b.WorkSession.Record(item)
	b.Touch(actor, now)

	return nil
}

// AmountDue is what the customer owes in the booking's current status.
func (b Booking) AmountDue() float64 {
	switch b.Status {
	case StatusCancelled:
		return b.CancellationFee
	case StatusNoShow:
		return b.NoShowFee
	default:
		return math.Round((b.TotalPrice+b.OvertimeCharge)*100) / 100
	}
}
