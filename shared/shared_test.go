package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"washbay/shared"
	cacheMocks "washbay/shared/cache/mocks"
	"washbay/shared/constant"
	"washbay/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "no data", total: 0, limit: 10, want: 1},
		{name: "exact pages", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "fewer rows than limit", total: 3, limit: 10, want: 1},
		{name: "zero limit", total: 5, limit: 0, want: 1},
		{name: "negative limit", total: 5, limit: -1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type statusUpdate struct {
		Status  string  `db:"status"`
		Radius  float64 `db:"service_radius_km"`
		Note    *string `db:"note"`
		Skipped string  `db:"-"`
		NoTag   string
	}

	note := ""

	tests := []struct {
		name  string
		data  statusUpdate
		actor string
		want  map[string]any
	}{
		{
			name:  "populated fields are kept",
			data:  statusUpdate{Status: "maintenance", Radius: 12.5, Skipped: "x", NoTag: "x"},
			actor: "staff-1",
			want:  map[string]any{"status": "maintenance", "service_radius_km": 12.5},
		},
		{
			name:  "zero values are dropped",
			data:  statusUpdate{},
			actor: "staff-2",
			want:  map[string]any{},
		},
		{
			name:  "non nil pointer to zero value is kept",
			data:  statusUpdate{Note: &note},
			actor: "system",
			want:  map[string]any{"note": &note},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shared.TransformFields(tt.data, tt.actor)

			assert.Equal(t, tt.actor, got[constant.FieldModifiedBy])
			assert.IsType(t, time.Time{}, got[constant.FieldModifiedAt])

			delete(got, constant.FieldModifiedBy)
			delete(got, constant.FieldModifiedAt)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByID(t *testing.T) {
	got := shared.FilterByID("b-1", "id", "bookings")

	require.Len(t, got.Filters, 1)
	assert.Equal(t, dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"}, got.Filters[0])

	where, args := got.GetWhereClause()
	assert.Contains(t, where, "bookings.id = :id")
	assert.Equal(t, "b-1", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get", shared.BuildCacheKey("booking:get"))
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking:get", "b-1"))
	assert.Equal(t, "resource:active:bay", shared.BuildCacheKey("resource:active", "bay"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}
	byStatus := func(status string) dto.FilterGroup {
		return dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "status", Value: status, Operator: dto.FilterOperatorEq, Table: "bookings"},
			},
		}
	}

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, byStatus("confirmed"))

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("booking:gets", params, byStatus("confirmed")))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:gets", params, byStatus("pending")))

	params.Page = 2
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("booking:gets", params, byStatus("confirmed")))
	assert.Contains(t, first, "booking:gets:p1:l10")
}

func TestInvalidateCaches(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "clears the prefix"},
		{name: "cache error is swallowed", err: errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)

			redisCache.EXPECT().Clear(gomock.Any(), "booking:get*").Return(tt.err)

			shared.InvalidateCaches(context.Background(), redisCache, "booking:get")
		})
	}
}
