package allocator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"washbay/internal/domains/schedule/allocator"
	"washbay/internal/domains/schedule/model"
)

var day = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func assignment(id, resource string, startMinute, duration int) model.Assignment {
	return model.Assignment{
		BookingID:       id,
		ResourceID:      resource,
		Start:           day.Add(time.Duration(startMinute) * time.Minute),
		DurationMinutes: duration,
		BufferMinutes:   15,
	}
}

func TestAllocator_Allocate(t *testing.T) {
	window := model.NewWindow(day.Add(60*time.Minute), time.Hour, 15*time.Minute)

	tests := []struct {
		name       string
		order      allocator.Order
		candidates []string
		existing   []model.Assignment
		wantID     string
		wantOK     bool
	}{
		{
			name:       "first free by id",
			order:      allocator.OrderByID,
			candidates: []string{"bay-2", "bay-1"},
			wantID:     "bay-1",
			wantOK:     true,
		},
		{
			name:       "skips occupied resource",
			order:      allocator.OrderByID,
			candidates: []string{"bay-1", "bay-2"},
			existing:   []model.Assignment{assignment("b1", "bay-1", 30, 60)},
			wantID:     "bay-2",
			wantOK:     true,
		},
		{
			name:       "buffer of previous booking blocks the slot",
			order:      allocator.OrderByID,
			candidates: []string{"bay-1"},
			existing:   []model.Assignment{assignment("b1", "bay-1", 0, 50)},
			wantOK:     false,
		},
		{
			name:       "previous booking clears buffer in time",
			order:      allocator.OrderByID,
			candidates: []string{"bay-1"},
			existing:   []model.Assignment{assignment("b1", "bay-1", 0, 45)},
			wantID:     "bay-1",
			wantOK:     true,
		},
		{
			name:       "no capacity",
			order:      allocator.OrderByID,
			candidates: []string{"bay-1", "bay-2"},
			existing: []model.Assignment{
				assignment("b1", "bay-1", 60, 60),
				assignment("b2", "bay-2", 90, 60),
			},
			wantOK: false,
		},
		{
			name:       "no candidates",
			order:      allocator.OrderByID,
			candidates: nil,
			wantOK:     false,
		},
		{
			name:       "least loaded prefers idle resource",
			order:      allocator.OrderLeastLoaded,
			candidates: []string{"bay-1", "bay-2"},
			existing:   []model.Assignment{assignment("b1", "bay-1", 300, 120)},
			wantID:     "bay-2",
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occupancy := model.Group(tt.candidates, tt.existing)

			gotID, gotOK := allocator.New(tt.order).Allocate(window, tt.candidates, occupancy)

			assert.Equal(t, tt.wantOK, gotOK)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}

func TestAllocator_Deterministic(t *testing.T) {
	window := model.NewWindow(day, time.Hour, 15*time.Minute)
	candidates := []string{"bay-3", "bay-1", "bay-2", "bay-1"}
	occupancy := model.Group(candidates, nil)
	alloc := allocator.New("")

	assert.Equal(t, []string{"bay-1", "bay-2", "bay-3"}, alloc.Rank(candidates, occupancy))

	for range 10 {
		id, ok := alloc.Allocate(window, candidates, occupancy)

		assert.True(t, ok)
		assert.Equal(t, "bay-1", id)
	}
}
