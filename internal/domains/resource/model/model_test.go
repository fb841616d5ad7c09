package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"washbay/internal/domains/resource/model"
)

func TestLocation_DistanceKm(t *testing.T) {
	jakarta := model.Location{Latitude: -6.2088, Longitude: 106.8456}
	bandung := model.Location{Latitude: -6.9175, Longitude: 107.6191}

	assert.InDelta(t, 116.0, jakarta.DistanceKm(bandung), 3.0)
	assert.InDelta(t, jakarta.DistanceKm(bandung), bandung.DistanceKm(jakarta), 1e-9)
	assert.InDelta(t, 0.0, jakarta.DistanceKm(jakarta), 1e-9)
}

func TestVehicleSize_FitsIn(t *testing.T) {
	assert.True(t, model.VehicleSizeSmall.FitsIn(model.VehicleSizeLarge))
	assert.True(t, model.VehicleSizeLarge.FitsIn(model.VehicleSizeLarge))
	assert.False(t, model.VehicleSizeExtraLarge.FitsIn(model.VehicleSizeLarge))
	assert.False(t, model.VehicleSize("truck").FitsIn(model.VehicleSizeExtraLarge))
}

func TestResource_Serves(t *testing.T) {
	base := model.Location{Latitude: -6.2, Longitude: 106.8}
	near := model.Location{Latitude: -6.25, Longitude: 106.85}
	far := model.Location{Latitude: -6.9, Longitude: 107.6}

	bay := model.Resource{
		ID:             "bay-1",
		Kind:           model.KindBay,
		Status:         model.StatusActive,
		MaxVehicleSize: model.VehicleSizeLarge,
		Equipment:      []string{"foam", "vacuum"},
	}
	team := model.Resource{
		ID:              "team-1",
		Kind:            model.KindMobileTeam,
		Status:          model.StatusActive,
		ServiceRadiusKm: 15,
		BaseLatitude:    base.Latitude,
		BaseLongitude:   base.Longitude,
	}

	tests := []struct {
		name     string
		resource model.Resource
		criteria model.Criteria
		want     bool
	}{
		{
			name:     "bay fits vehicle",
			resource: bay,
			criteria: model.Criteria{Kind: model.KindBay, VehicleSize: model.VehicleSizeMedium},
			want:     true,
		},
		{
			name:     "bay too small",
			resource: bay,
			criteria: model.Criteria{Kind: model.KindBay, VehicleSize: model.VehicleSizeExtraLarge},
			want:     false,
		},
		{
			name:     "bay has required equipment",
			resource: bay,
			criteria: model.Criteria{Kind: model.KindBay, VehicleSize: model.VehicleSizeSmall, RequiredEquipment: []string{"foam"}},
			want:     true,
		},
		{
			name:     "bay missing equipment",
			resource: bay,
			criteria: model.Criteria{Kind: model.KindBay, VehicleSize: model.VehicleSizeSmall, RequiredEquipment: []string{"ceramic"}},
			want:     false,
		},
		{
			name: "bay in maintenance",
			resource: func() model.Resource {
				r := bay
				r.Status = model.StatusMaintenance

				return r
			}(),
			criteria: model.Criteria{Kind: model.KindBay, VehicleSize: model.VehicleSizeSmall},
			want:     false,
		},
		{
			name:     "wrong kind",
			resource: bay,
			criteria: model.Criteria{Kind: model.KindMobileTeam, VehicleSize: model.VehicleSizeSmall, Location: &near},
			want:     false,
		},
		{
			name:     "team within radius",
			resource: team,
			criteria: model.Criteria{Kind: model.KindMobileTeam, VehicleSize: model.VehicleSizeSmall, Location: &near},
			want:     true,
		},
		{
			name:     "team out of radius",
			resource: team,
			criteria: model.Criteria{Kind: model.KindMobileTeam, VehicleSize: model.VehicleSizeSmall, Location: &far},
			want:     false,
		},
		{
			name:     "team without customer location",
			resource: team,
			criteria: model.Criteria{Kind: model.KindMobileTeam, VehicleSize: model.VehicleSizeSmall},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resource.Serves(tt.criteria))
		})
	}
}
