package dto

import (
	"github.com/google/uuid"

	"washbay/internal/domains/resource/model"
	gDto "washbay/shared/dto"
	gModel "washbay/shared/model"
	"washbay/shared/timezone"
)

type RegisterResourceRequest struct {
	Name            string   `json:"name"              validate:"required,max=100"`
	Kind            string   `json:"kind"              validate:"required,oneof=bay mobile_team"`
	MaxVehicleSize  string   `json:"max_vehicle_size"  validate:"required_if=Kind bay,omitempty,oneof=small medium large xl"`
	ServiceRadiusKm float64  `json:"service_radius_km" validate:"required_if=Kind mobile_team,gte=0"`
	BaseLatitude    float64  `json:"base_latitude"     validate:"gte=-90,lte=90"`
	BaseLongitude   float64  `json:"base_longitude"    validate:"gte=-180,lte=180"`
	Equipment       []string `json:"equipment"         validate:"omitempty,dive,required,max=50"`
}

func (r *RegisterResourceRequest) ToModel(actor string) model.Resource {
	equipment := r.Equipment
	if equipment == nil {
		equipment = []string{}
	}

	return model.Resource{
		ID:              uuid.NewString(),
		Name:            r.Name,
		Kind:            model.Kind(r.Kind),
		Status:          model.StatusActive,
		MaxVehicleSize:  model.VehicleSize(r.MaxVehicleSize),
		ServiceRadiusKm: r.ServiceRadiusKm,
		BaseLatitude:    r.BaseLatitude,
		BaseLongitude:   r.BaseLongitude,
		Equipment:       equipment,
		Metadata:        gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active maintenance inactive"`
}

type EligibleRequest struct {
	Kind              string   `json:"kind"               validate:"required,oneof=bay mobile_team"`
	VehicleSize       string   `json:"vehicle_size"       validate:"required,oneof=small medium large xl"`
	Latitude          *float64 `json:"latitude"           validate:"required_if=Kind mobile_team,omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude"          validate:"required_if=Kind mobile_team,omitempty,gte=-180,lte=180"`
	RequiredEquipment []string `json:"required_equipment" validate:"omitempty,dive,required"`
}

func (r *EligibleRequest) ToCriteria() model.Criteria {
	criteria := model.Criteria{
		Kind:              model.Kind(r.Kind),
		VehicleSize:       model.VehicleSize(r.VehicleSize),
		RequiredEquipment: r.RequiredEquipment,
	}

	if r.Latitude != nil && r.Longitude != nil {
		criteria.Location = &model.Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}

	return criteria
}

type ResourceResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	Status          string   `json:"status"`
	MaxVehicleSize  string   `json:"max_vehicle_size,omitempty"`
	ServiceRadiusKm float64  `json:"service_radius_km,omitempty"`
	BaseLatitude    float64  `json:"base_latitude"`
	BaseLongitude   float64  `json:"base_longitude"`
	Equipment       []string `json:"equipment"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(m model.Resource) {
	r.ID = m.ID
	r.Name = m.Name
	r.Kind = string(m.Kind)
	r.Status = string(m.Status)
	r.MaxVehicleSize = string(m.MaxVehicleSize)
	r.ServiceRadiusKm = m.ServiceRadiusKm
	r.BaseLatitude = m.BaseLatitude
	r.BaseLongitude = m.BaseLongitude
	r.Equipment = m.Equipment
	r.Metadata.FromModel(m.Metadata)
}

type ResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

func (r *ResourcesResponse) FromModels(models []model.Resource) {
	r.Resources = make([]ResourceResponse, len(models))
	for i, m := range models {
		r.Resources[i].FromModel(m)
	}
}
