package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"washbay/internal/domains/schedule/model"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func TestWindow_Overlaps(t *testing.T) {
	buffer := 15 * time.Minute

	tests := []struct {
		name string
		a    model.Window
		b    model.Window
		want bool
	}{
		{
			name: "identical windows",
			a:    model.NewWindow(at(0), time.Hour, buffer),
			b:    model.NewWindow(at(0), time.Hour, buffer),
			want: true,
		},
		{
			name: "back to back inside buffer",
			a:    model.NewWindow(at(0), time.Hour, buffer),
			b:    model.NewWindow(at(70), time.Hour, buffer),
			want: true,
		},
		{
			name: "starts exactly when buffer ends",
			a:    model.NewWindow(at(0), time.Hour, buffer),
			b:    model.NewWindow(at(75), time.Hour, buffer),
			want: false,
		},
		{
			name: "earlier window ends before later begins",
			a:    model.NewWindow(at(200), time.Hour, buffer),
			b:    model.NewWindow(at(0), time.Hour, buffer),
			want: false,
		},
		{
			name: "no buffer touching windows",
			a:    model.NewWindow(at(0), time.Hour, 0),
			b:    model.NewWindow(at(60), time.Hour, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestWindow_OverlapsCore(t *testing.T) {
	a := model.NewWindow(at(0), time.Hour, 15*time.Minute)
	b := model.NewWindow(at(65), time.Hour, 15*time.Minute)

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.OverlapsCore(b))
}

func TestOccupancy(t *testing.T) {
	occupancy := model.Group([]string{"bay-1", "bay-2"}, []model.Assignment{
		{BookingID: "b2", ResourceID: "bay-1", Start: at(120), DurationMinutes: 60, BufferMinutes: 15},
		{BookingID: "b1", ResourceID: "bay-1", Start: at(0), DurationMinutes: 60, BufferMinutes: 15},
		{BookingID: "x", ResourceID: "bay-9", Start: at(0), DurationMinutes: 60, BufferMinutes: 15},
	})

	assert.Len(t, occupancy, 2)
	assert.Empty(t, occupancy["bay-2"])
	assert.Equal(t, 120, occupancy.BookedMinutes("bay-1"))

	window := model.NewWindow(at(30), 2*time.Hour, 15*time.Minute)
	conflicts := occupancy.Conflicts("bay-1", window)

	if assert.Len(t, conflicts, 2) {
		assert.Equal(t, "b1", conflicts[0].BookingID)
		assert.Equal(t, "b2", conflicts[1].BookingID)
	}

	assert.False(t, occupancy.IsFree("bay-1", window))
	assert.True(t, occupancy.IsFree("bay-2", window))

	without := occupancy.Without("b1")
	assert.Len(t, without["bay-1"], 1)
	assert.Len(t, occupancy["bay-1"], 2)

	clone := occupancy.Clone()
	clone["bay-1"][0].BufferMinutes = 5
	assert.Equal(t, 15, occupancy["bay-1"][0].BufferMinutes)
}
