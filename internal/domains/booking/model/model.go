package model

import (
	"time"

	"github.com/lib/pq"

	resourceModel "washbay/internal/domains/resource/model"
	"washbay/shared/model"
)

const (
	TableName         = "bookings"
	EntityName        = "booking"
	ServiceTableName  = "booking_services"
	ServiceEntityName = "booking_service"

	FieldID            = "id"
	FieldCustomerID    = "customer_id"
	FieldVehicleID     = "vehicle_id"
	FieldCategory      = "category"
	FieldStatus        = "status"
	FieldScheduledAt   = "scheduled_at"
	FieldResourceID    = "resource_id"
	FieldVersion       = "version"
	FieldBookingID     = "booking_id"
	FieldPosition      = "position"
	FieldTotalDuration = "total_duration"
)

const (
	MinServices          = 1
	MaxServices          = 10
	MinDurationMinutes   = 30
	MaxDurationMinutes   = 240
	MaxTotalPrice        = 10000.0
	MinRating            = 1
	MaxRating            = 5
	MaxFeedbackLength    = 1000
	DefaultBufferMinutes = 15
)

type Category string

const (
	CategoryStationary Category = "stationary"
	CategoryMobile     Category = "mobile"
	CategoryWalkIn     Category = "walk_in"
)

// ResourceKind is the kind of resource able to serve the category.
func (c Category) ResourceKind() resourceModel.Kind {
	if c == CategoryMobile {
		return resourceModel.KindMobileTeam
	}

	return resourceModel.KindBay
}

func (c Category) Valid() bool {
	switch c {
	case CategoryStationary, CategoryMobile, CategoryWalkIn:
		return true
	default:
		return false
	}
}

// BookingService is a catalog snapshot taken when the service was added.
type BookingService struct {
	BookingID         string         `db:"booking_id"         json:"-"`
	Position          int            `db:"position"           json:"position"`
	ServiceID         string         `db:"service_id"         json:"service_id"`
	Name              string         `db:"name"               json:"name"`
	Price             float64        `db:"price"              json:"price"`
	DurationMinutes   int            `db:"duration_minutes"   json:"duration_minutes"`
	RequiredEquipment pq.StringArray `db:"required_equipment" json:"required_equipment"`
}

type Booking struct {
	ID                 string                    `db:"id"                  json:"id"`
	CustomerID         string                    `db:"customer_id"         json:"customer_id"`
	VehicleID          string                    `db:"vehicle_id"          json:"vehicle_id"`
	VehicleSize        resourceModel.VehicleSize `db:"vehicle_size"        json:"vehicle_size"`
	Category           Category                  `db:"category"            json:"category"`
	Status             Status                    `db:"status"              json:"status"`
	ScheduledAt        time.Time                 `db:"scheduled_at"        json:"scheduled_at"`
	TotalPrice         float64                   `db:"total_price"         json:"total_price"`
	TotalDuration      int                       `db:"total_duration"      json:"total_duration"`
	BufferMinutes      int                       `db:"buffer_minutes"      json:"buffer_minutes"`
	ResourceID         *string                   `db:"resource_id"         json:"resource_id"`
	CustomerLatitude   *float64                  `db:"customer_latitude"   json:"customer_latitude"`
	CustomerLongitude  *float64                  `db:"customer_longitude"  json:"customer_longitude"`
	ActualStart        *time.Time                `db:"actual_start"        json:"actual_start"`
	ActualEnd          *time.Time                `db:"actual_end"          json:"actual_end"`
	CancelledAt        *time.Time                `db:"cancelled_at"        json:"cancelled_at"`
	CancelledBy        *string                   `db:"cancelled_by"        json:"cancelled_by"`
	CancellationReason *string                   `db:"cancellation_reason" json:"cancellation_reason"`
	CancellationFee    float64                   `db:"cancellation_fee"    json:"cancellation_fee"`
	NoShowFee          float64                   `db:"no_show_fee"         json:"no_show_fee"`
	OvertimeCharge     float64                   `db:"overtime_charge"     json:"overtime_charge"`
	Rating             *int                      `db:"rating"              json:"rating"`
	Feedback           *string                   `db:"feedback"            json:"feedback"`
	WorkSession        *WorkSession              `db:"work_session"        json:"work_session"`
	Version            int                       `db:"version"             json:"version"`
	Services           []BookingService          `db:"-"                   json:"services"`
	model.Metadata
}
