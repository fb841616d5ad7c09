package dto

import (
	"time"

	"github.com/google/uuid"

	"washbay/internal/domains/booking/fee"
	"washbay/internal/domains/booking/model"
	resourceModel "washbay/internal/domains/resource/model"
	"washbay/shared"
	"washbay/shared/constant"
	gDto "washbay/shared/dto"
	gModel "washbay/shared/model"
	"washbay/shared/timezone"
)

type ServiceRequest struct {
	ServiceID         string   `json:"service_id"         validate:"required,max=64"`
	Name              string   `json:"name"               validate:"required,max=100"`
	Price             float64  `json:"price"              validate:"gte=0"`
	DurationMinutes   int      `json:"duration_minutes"   validate:"gte=0"`
	RequiredEquipment []string `json:"required_equipment" validate:"omitempty,dive,required,max=50"`
}

func (r *ServiceRequest) ToModel() model.BookingService {
	equipment := r.RequiredEquipment
	if equipment == nil {
		equipment = []string{}
	}

	return model.BookingService{
		ServiceID:         r.ServiceID,
		Name:              r.Name,
		Price:             r.Price,
		DurationMinutes:   r.DurationMinutes,
		RequiredEquipment: equipment,
	}
}

type CreateBookingRequest struct {
	CustomerID  string           `json:"customer_id"  validate:"required,max=64"`
	VehicleID   string           `json:"vehicle_id"   validate:"required,max=64"`
	VehicleSize string           `json:"vehicle_size" validate:"required,oneof=small medium large xl"`
	Category    string           `json:"category"     validate:"required,oneof=stationary mobile walk_in"`
	ScheduledAt string           `json:"scheduled_at" validate:"required_without=StartNow,omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	StartNow    bool             `json:"start_now"`
	Latitude    *float64         `json:"latitude"     validate:"required_if=Category mobile,omitempty,gte=-90,lte=90"`
	Longitude   *float64         `json:"longitude"    validate:"required_if=Category mobile,omitempty,gte=-180,lte=180"`
	Services    []ServiceRequest `json:"services"     validate:"required,min=1,max=10,dive"`
}

// ToModel builds a pending booking. Walk-ins starting now are scheduled at now, truncated to the minute.
func (r *CreateBookingRequest) ToModel(actor string, bufferMinutes int, now time.Time) (model.Booking, error) {
	scheduledAt := now.Truncate(time.Minute)

	if !r.StartNow {
		parsed, err := timezone.Parse(constant.DateFormat, r.ScheduledAt)
		if err != nil {
			return model.Booking{}, err // nolint:wrapcheck
		}

		scheduledAt = parsed
	}

	services := make([]model.BookingService, len(r.Services))
	for i := range r.Services {
		services[i] = r.Services[i].ToModel()
	}

	booking := model.Booking{
		ID:                uuid.NewString(),
		CustomerID:        r.CustomerID,
		VehicleID:         r.VehicleID,
		VehicleSize:       resourceModel.VehicleSize(r.VehicleSize),
		Category:          model.Category(r.Category),
		Status:            model.StatusPending,
		ScheduledAt:       scheduledAt,
		BufferMinutes:     bufferMinutes,
		CustomerLatitude:  r.Latitude,
		CustomerLongitude: r.Longitude,
		Services:          services,
		Metadata:          gModel.NewMetadata(actor, now),
	}
	booking.Recalculate()

	return booking, nil
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Force       bool   `json:"force"`
}

func (r *RescheduleRequest) Time() (time.Time, error) {
	return timezone.Parse(constant.DateFormat, r.ScheduledAt) // nolint:wrapcheck
}

type RateRequest struct {
	Rating   int    `json:"rating"   validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}

type WorkItemRequest struct {
	ActualMinutes int    `json:"actual_minutes" validate:"gte=0"`
	QualityNote   string `json:"quality_note"   validate:"omitempty,max=500"`
}

func (r *WorkItemRequest) ToModel(serviceID string) model.WorkItem {
	return model.WorkItem{
		ServiceID:     serviceID,
		ActualMinutes: r.ActualMinutes,
		QualityNote:   r.QualityNote,
	}
}

type ServiceResponse struct {
	ServiceID         string   `json:"service_id"`
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	DurationMinutes   int      `json:"duration_minutes"`
	RequiredEquipment []string `json:"required_equipment"`
}

type BookingResponse struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customer_id"`
	VehicleID          string             `json:"vehicle_id"`
	VehicleSize        string             `json:"vehicle_size"`
	Category           string             `json:"category"`
	Status             string             `json:"status"`
	ScheduledAt        string             `json:"scheduled_at"`
	EndsAt             string             `json:"ends_at"`
	BufferMinutes      int                `json:"buffer_minutes"`
	ResourceID         string             `json:"resource_id,omitempty"`
	Services           []ServiceResponse  `json:"services"`
	TotalPrice         float64            `json:"total_price"`
	TotalDuration      int                `json:"total_duration"`
	ActualStart        string             `json:"actual_start,omitempty"`
	ActualEnd          string             `json:"actual_end,omitempty"`
	CancelledAt        string             `json:"cancelled_at,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CancellationFee    float64            `json:"cancellation_fee"`
	NoShowFee          float64            `json:"no_show_fee"`
	OvertimeCharge     float64            `json:"overtime_charge"`
	AmountDue          float64            `json:"amount_due"`
	Rating             *int               `json:"rating,omitempty"`
	Feedback           string             `json:"feedback,omitempty"`
	WorkSession        *model.WorkSession `json:"work_session,omitempty"`
	Version            int                `json:"version"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.CustomerID = m.CustomerID
	r.VehicleID = m.VehicleID
	r.VehicleSize = string(m.VehicleSize)
	r.Category = string(m.Category)
	r.Status = string(m.Status)
	r.ScheduledAt = timezone.Format(m.ScheduledAt, constant.DateFormat)
	r.EndsAt = timezone.Format(m.Window().End, constant.DateFormat)
	r.BufferMinutes = m.BufferMinutes
	r.ResourceID = m.AssignedResource()
	r.TotalPrice = m.TotalPrice
	r.TotalDuration = m.TotalDuration
	r.ActualStart = formatOptional(m.ActualStart)
	r.ActualEnd = formatOptional(m.ActualEnd)
	r.CancelledAt = formatOptional(m.CancelledAt)
	r.CancellationFee = m.CancellationFee
	r.NoShowFee = m.NoShowFee
	r.OvertimeCharge = m.OvertimeCharge
	r.AmountDue = m.AmountDue()
	r.Rating = m.Rating
	r.WorkSession = m.WorkSession
	r.Version = m.Version

	if m.CancellationReason != nil {
		r.CancellationReason = *m.CancellationReason
	}

	if m.Feedback != nil {
		r.Feedback = *m.Feedback
	}

	r.Services = make([]ServiceResponse, len(m.Services))
	for i, s := range m.Services {
		r.Services[i] = ServiceResponse{
			ServiceID:         s.ServiceID,
			Name:              s.Name,
			Price:             s.Price,
			DurationMinutes:   s.DurationMinutes,
			RequiredEquipment: s.RequiredEquipment,
		}
	}

	r.Metadata.FromModel(m.Metadata)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return timezone.Format(*t, constant.DateFormat)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type CancellationQuoteResponse struct {
	BookingID  string  `json:"booking_id"`
	HoursUntil float64 `json:"hours_until"`
	Percent    int     `json:"percent"`
	Fee        float64 `json:"fee"`
}

func (r *CancellationQuoteResponse) FromModel(m model.Booking, amount float64, now time.Time) {
	r.BookingID = m.ID
	r.HoursUntil = m.ScheduledAt.Sub(now).Hours()
	r.Percent = fee.CancellationPercent(r.HoursUntil)
	r.Fee = amount
}
