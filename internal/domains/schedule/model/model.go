package model

import (
	"slices"
	"time"
)

// Window is a half-open [Start, End) interval followed by a cleanup Buffer.
type Window struct {
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Buffer time.Duration `json:"buffer"`
}

func NewWindow(start time.Time, duration, buffer time.Duration) Window {
	return Window{
		Start:  start,
		End:    start.Add(duration),
		Buffer: buffer,
	}
}

// PaddedEnd is the instant the resource becomes free again.
func (w Window) PaddedEnd() time.Time {
	return w.End.Add(w.Buffer)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps compares buffer-padded windows.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.PaddedEnd()) && other.Start.Before(w.PaddedEnd())
}

// OverlapsCore compares the windows without their buffers.
func (w Window) OverlapsCore(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// StartingAt keeps duration and buffer and moves the window to start.
func (w Window) StartingAt(start time.Time) Window {
	return NewWindow(start, w.Duration(), w.Buffer)
}

func (w Window) WithBuffer(buffer time.Duration) Window {
	w.Buffer = buffer

	return w
}

func (w Window) Equal(other Window) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End) && w.Buffer == other.Buffer
}

// Assignment is an active booking as seen from the resource it occupies.
type Assignment struct {
	BookingID       string    `db:"id"`
	ResourceID      string    `db:"resource_id"`
	Start           time.Time `db:"scheduled_at"`
	DurationMinutes int       `db:"total_duration"`
	BufferMinutes   int       `db:"buffer_minutes"`
	Pinned          bool      `db:"pinned"`
}

func (a Assignment) Window() Window {
	return NewWindow(a.Start, time.Duration(a.DurationMinutes)*time.Minute, time.Duration(a.BufferMinutes)*time.Minute)
}

// Occupancy maps resource id to the assignments currently held on it.
type Occupancy map[string][]Assignment

// Conflicts returns the assignments on resourceID overlapping window, ordered by start.
func (o Occupancy) Conflicts(resourceID string, window Window) []Assignment {
	conflicts := []Assignment{}

	for _, assignment := range o[resourceID] {
		if assignment.Window().Overlaps(window) {
			conflicts = append(conflicts, assignment)
		}
	}

	slices.SortFunc(conflicts, func(a, b Assignment) int {
		return a.Start.Compare(b.Start)
	})

	return conflicts
}

// IsFree reports whether window fits on resourceID.
func (o Occupancy) IsFree(resourceID string, window Window) bool {
	for _, assignment := range o[resourceID] {
		if assignment.Window().Overlaps(window) {
			return false
		}
	}

	return true
}

// Without returns a copy that ignores bookingID, used when a booking is moved.
func (o Occupancy) Without(bookingID string) Occupancy {
	out := make(Occupancy, len(o))

	for resourceID, assignments := range o {
		kept := make([]Assignment, 0, len(assignments))

		for _, assignment := range assignments {
			if assignment.BookingID != bookingID {
				kept = append(kept, assignment)
			}
		}

		out[resourceID] = kept
	}

	return out
}

// Clone deep-copies the occupancy so a plan can be tried without touching the original.
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))

	for resourceID, assignments := range o {
		out[resourceID] = slices.Clone(assignments)
	}

	return out
}

// BookedMinutes sums the duration of every assignment on resourceID.
func (o Occupancy) BookedMinutes(resourceID string) int {
	total := 0

	for _, assignment := range o[resourceID] {
		total += assignment.DurationMinutes
	}

	return total
}

// Group builds an occupancy for resourceIDs, with an empty entry for idle resources.
func Group(resourceIDs []string, assignments []Assignment) Occupancy {
	out := make(Occupancy, len(resourceIDs))

	for _, id := range resourceIDs {
		out[id] = []Assignment{}
	}

	for _, assignment := range assignments {
		if _, ok := out[assignment.ResourceID]; ok {
			out[assignment.ResourceID] = append(out[assignment.ResourceID], assignment)
		}
	}

	return out
}
