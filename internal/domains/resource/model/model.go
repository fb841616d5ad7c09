package model

import (
	"math"
	"slices"

	"github.com/lib/pq"

	"washbay/shared/model"
)

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID              = "id"
	FieldName            = "name"
	FieldKind            = "kind"
	FieldStatus          = "status"
	FieldMaxVehicleSize  = "max_vehicle_size"
	FieldServiceRadiusKm = "service_radius_km"
	FieldBaseLatitude    = "base_latitude"
	FieldBaseLongitude   = "base_longitude"
	FieldEquipment       = "equipment"
)

type Kind string

const (
	KindBay        Kind = "bay"
	KindMobileTeam Kind = "mobile_team"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

type VehicleSize string

const (
	VehicleSizeSmall      VehicleSize = "small"
	VehicleSizeMedium     VehicleSize = "medium"
	VehicleSizeLarge      VehicleSize = "large"
	VehicleSizeExtraLarge VehicleSize = "xl"
)

var vehicleSizeRank = map[VehicleSize]int{
	VehicleSizeSmall:      1,
	VehicleSizeMedium:     2,
	VehicleSizeLarge:      3,
	VehicleSizeExtraLarge: 4,
}

// Rank orders sizes from small to xl. Unknown sizes rank 0.
func (v VehicleSize) Rank() int {
	return vehicleSizeRank[v]
}

func (v VehicleSize) Valid() bool {
	return v.Rank() > 0
}

// FitsIn reports whether a vehicle of size v can be served by a bay rated for limit.
func (v VehicleSize) FitsIn(limit VehicleSize) bool {
	return v.Valid() && limit.Valid() && v.Rank() <= limit.Rank()
}

const earthRadiusKm = 6371.0

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm is the great-circle distance between two points.
func (l Location) DistanceKm(other Location) float64 {
	lat1 := toRadians(l.Latitude)
	lat2 := toRadians(other.Latitude)
	dLat := lat2 - lat1
	dLng := toRadians(other.Longitude - l.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

type Resource struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Kind            Kind           `db:"kind"`
	Status          Status         `db:"status"`
	MaxVehicleSize  VehicleSize    `db:"max_vehicle_size"`
	ServiceRadiusKm float64        `db:"service_radius_km"`
	BaseLatitude    float64        `db:"base_latitude"`
	BaseLongitude   float64        `db:"base_longitude"`
	Equipment       pq.StringArray `db:"equipment"`
	model.Metadata
}

func (r Resource) Base() Location {
	return Location{Latitude: r.BaseLatitude, Longitude: r.BaseLongitude}
}

// Criteria describes what a booking needs from a resource.
type Criteria struct {
	Kind              Kind
	VehicleSize       VehicleSize
	Location          *Location
	RequiredEquipment []string
}

// Serves reports whether the resource is operable and compatible with the criteria.
func (r Resource) Serves(criteria Criteria) bool {
	if r.Status != StatusActive || r.Kind != criteria.Kind {
		return false
	}

	for _, tag := range criteria.RequiredEquipment {
		if !slices.Contains(r.Equipment, tag) {
			return false
		}
	}

	switch r.Kind {
	case KindBay:
		return criteria.VehicleSize.FitsIn(r.MaxVehicleSize)
	case KindMobileTeam:
		if criteria.Location == nil {
			return false
		}

		return r.Base().DistanceKm(*criteria.Location) <= r.ServiceRadiusKm
	default:
		return false
	}
}
