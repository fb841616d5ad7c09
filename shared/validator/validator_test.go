package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washbay/shared/failure"
	"washbay/shared/validator"
)

type washRequest struct {
	CustomerID  string   `json:"customer_id"  validate:"required,max=64"`
	Category    string   `json:"category"     validate:"required,oneof=stationary mobile walk_in"`
	ScheduledAt string   `json:"scheduled_at" validate:"required_without=StartNow,omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	StartNow    bool     `json:"start_now"`
	Latitude    *float64 `json:"latitude"     validate:"required_if=Category mobile,omitempty,gte=-90,lte=90"`
	Rating      int      `json:"rating"       validate:"omitempty,min=1,max=5"`
}

func ptr(v float64) *float64 {
	return &v
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    washRequest
		wantMsg string
	}{
		{
			name: "scheduled stationary booking",
			data: washRequest{CustomerID: "c-1", Category: "stationary", ScheduledAt: "2026-05-04T10:00:00Z"},
		},
		{
			name: "walk in starting now needs no time",
			data: washRequest{CustomerID: "c-1", Category: "walk_in", StartNow: true},
		},
		{
			name:    "missing customer",
			data:    washRequest{Category: "stationary", ScheduledAt: "2026-05-04T10:00:00Z"},
			wantMsg: "customer_id is required",
		},
		{
			name:    "unknown category",
			data:    washRequest{CustomerID: "c-1", Category: "drive_thru", ScheduledAt: "2026-05-04T10:00:00Z"},
			wantMsg: "category must be one of stationary mobile walk_in",
		},
		{
			name:    "scheduled time is required without start now",
			data:    washRequest{CustomerID: "c-1", Category: "stationary"},
			wantMsg: "scheduled_at is required unless StartNow is set",
		},
		{
			name:    "scheduled time must be RFC3339",
			data:    washRequest{CustomerID: "c-1", Category: "stationary", ScheduledAt: "04/05/2026 10:00"},
			wantMsg: "scheduled_at must be a date time",
		},
		{
			name:    "mobile booking needs a location",
			data:    washRequest{CustomerID: "c-1", Category: "mobile", ScheduledAt: "2026-05-04T10:00:00Z"},
			wantMsg: "latitude is required when Category mobile",
		},
		{
			name:    "latitude out of range",
			data:    washRequest{CustomerID: "c-1", Category: "mobile", ScheduledAt: "2026-05-04T10:00:00Z", Latitude: ptr(91)},
			wantMsg: "latitude must be less than or equal to 90",
		},
		{
			name:    "rating above five",
			data:    washRequest{CustomerID: "c-1", Category: "walk_in", StartNow: true, Rating: 6},
			wantMsg: "rating must be less than or equal to 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, failure.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "valid required string", field: "bay-1", tag: "required"},
		{name: "empty required string", field: "", tag: "required", wantErr: true},
		{name: "number in range", field: 3, tag: "min=1,max=5"},
		{name: "number out of range", field: 0, tag: "min=1,max=5", wantErr: true},
		{name: "valid oneof", field: "maintenance", tag: "oneof=active maintenance inactive"},
		{name: "invalid oneof", field: "broken", tag: "oneof=active maintenance inactive", wantErr: true},
		{name: "empty tag accepts zero value", field: "", tag: "empty"},
		{name: "empty tag rejects value", field: "x", tag: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		jsonBody string
		wantErr  bool
	}{
		{
			name:     "valid body",
			jsonBody: `{"customer_id":"c-1","category":"walk_in","start_now":true}`,
		},
		{
			name:     "invalid body",
			jsonBody: `{"customer_id":"c-1","category":"walk_in"}`,
			wantErr:  true,
		},
		{
			name:     "malformed JSON",
			jsonBody: `{"customer_id":}`,
			wantErr:  true,
		},
		{
			name:     "empty JSON",
			jsonBody: `{}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data washRequest

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "c-1", data.CustomerID)
			}
		})
	}
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	err := validator.ValidateStruct(&washRequest{Category: "drive_thru", StartNow: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer_id is required; category must be one of stationary mobile walk_in")
}
