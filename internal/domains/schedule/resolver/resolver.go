// Package resolver plans how to make room for a booking when no resource is free.
package resolver

import (
	"fmt"
	"slices"
	"time"

	"washbay/internal/domains/schedule/model"
	"washbay/shared/constant"
	"washbay/shared/failure"
)

type Strategy string

const (
	StrategyRelocate          Strategy = "relocate"
	StrategyTimeShift         Strategy = "time_shift"
	StrategyBufferCompression Strategy = "buffer_compression"
)

const (
	DefaultHorizon   = 2 * time.Hour
	DefaultMinBuffer = 5 * time.Minute
)

var DefaultStrategies = []Strategy{StrategyRelocate, StrategyTimeShift, StrategyBufferCompression}

// ParseStrategies validates a configured strategy order.
func ParseStrategies(names []string) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))

	for _, name := range names {
		strategy := Strategy(name)

		switch strategy {
		case StrategyRelocate, StrategyTimeShift, StrategyBufferCompression:
		default:
			return nil, fmt.Errorf("unknown resolution strategy %q", name)
		}

		if !slices.Contains(strategies, strategy) {
			strategies = append(strategies, strategy)
		}
	}

	return strategies, nil
}

// Change describes how one existing booking is displaced.
type Change struct {
	BookingID    string
	FromResource string
	ToResource   string
	Old          model.Window
	New          model.Window
}

// Plan places the incoming window on ResourceID once Changes are applied.
type Plan struct {
	ResourceID string
	Strategy   Strategy
	Window     model.Window
	Changes    []Change
}

type Request struct {
	Window     model.Window
	Candidates []string
	Occupancy  model.Occupancy
	// Alternatives lists, per existing booking id, the resources that booking may move to.
	Alternatives map[string][]string
}

type Resolver struct {
	strategies []Strategy
	horizon    time.Duration
	minBuffer  time.Duration
}

func New(strategies []Strategy, horizon, minBuffer time.Duration) Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}

	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	if minBuffer < 0 {
		minBuffer = DefaultMinBuffer
	}

	return Resolver{
		strategies: slices.Clone(strategies),
		horizon:    horizon,
		minBuffer:  minBuffer,
	}
}

func (r Resolver) Strategies() []Strategy {
	return slices.Clone(r.strategies)
}

// Resolve tries each strategy against each candidate in order and returns the first plan that works.
// Nothing in req is modified.
func (r Resolver) Resolve(req Request) (Plan, error) {
	for _, strategy := range r.strategies {
		for _, candidate := range req.Candidates {
			if _, known := req.Occupancy[candidate]; !known {
				continue
			}

			var (
				plan Plan
				ok   bool
			)

			switch strategy {
			case StrategyRelocate:
				plan, ok = r.relocate(candidate, req)
			case StrategyTimeShift:
				plan, ok = r.timeShift(candidate, req)
			case StrategyBufferCompression:
				plan, ok = r.compressBuffers(candidate, req)
			}

			if ok {
				plan.Strategy = strategy
				plan.ResourceID = candidate

				return plan, nil
			}
		}
	}

	return Plan{}, failure.NoAvailableSlot("no resource can take the window starting %s", req.Window.Start.Format(constant.DateFormat)) // nolint:wrapcheck
}

func (r Resolver) relocate(candidate string, req Request) (Plan, bool) {
	conflicts := req.Occupancy.Conflicts(candidate, req.Window)
	work := req.Occupancy.Clone()
	changes := make([]Change, 0, len(conflicts))

	for _, conflict := range conflicts {
		if conflict.Pinned {
			return Plan{}, false
		}

		alternatives := slices.Clone(req.Alternatives[conflict.BookingID])
		slices.Sort(alternatives)

		target := ""

		for _, alternative := range alternatives {
			if alternative == candidate {
				continue
			}

			if _, known := work[alternative]; !known {
				continue
			}

			if work.IsFree(alternative, conflict.Window()) {
				target = alternative

				break
			}
		}

		if target == "" {
			return Plan{}, false
		}

		moved := conflict
		moved.ResourceID = target
		work[target] = append(work[target], moved)

		changes = append(changes, Change{
			BookingID:    conflict.BookingID,
			FromResource: candidate,
			ToResource:   target,
			Old:          conflict.Window(),
			New:          conflict.Window(),
		})
	}

	return Plan{Window: req.Window, Changes: changes}, true
}

func (r Resolver) timeShift(candidate string, req Request) (Plan, bool) {
	conflicts := req.Occupancy.Conflicts(candidate, req.Window)

	blocked := []model.Window{req.Window}

	for _, assignment := range req.Occupancy[candidate] {
		if !slices.ContainsFunc(conflicts, func(c model.Assignment) bool { return c.BookingID == assignment.BookingID }) {
			blocked = append(blocked, assignment.Window())
		}
	}

	changes := make([]Change, 0, len(conflicts))

	for _, conflict := range conflicts {
		if conflict.Pinned {
			return Plan{}, false
		}

		old := conflict.Window()

		shifted, ok := r.nextFreeStart(old, blocked)
		if !ok {
			return Plan{}, false
		}

		blocked = append(blocked, shifted)
		changes = append(changes, Change{
			BookingID:    conflict.BookingID,
			FromResource: candidate,
			ToResource:   candidate,
			Old:          old,
			New:          shifted,
		})
	}

	return Plan{Window: req.Window, Changes: changes}, true
}

// nextFreeStart finds the earliest later start within the horizon at which window fits between blocked windows.
func (r Resolver) nextFreeStart(window model.Window, blocked []model.Window) (model.Window, bool) {
	latest := window.Start.Add(r.horizon)
	starts := []time.Time{}

	for _, b := range blocked {
		end := b.PaddedEnd()
		if end.After(window.Start) && !end.After(latest) {
			starts = append(starts, end)
		}
	}

	slices.SortFunc(starts, func(a, b time.Time) int { return a.Compare(b) })

	for _, start := range starts {
		shifted := window.StartingAt(start)

		if !slices.ContainsFunc(blocked, shifted.Overlaps) {
			return shifted, true
		}
	}

	return model.Window{}, false
}

func (r Resolver) compressBuffers(candidate string, req Request) (Plan, bool) {
	conflicts := req.Occupancy.Conflicts(candidate, req.Window)
	incomingBuffer := req.Window.Buffer
	changes := make([]Change, 0, len(conflicts))
	compressed := map[string]model.Window{}

	for _, conflict := range conflicts {
		existing := conflict.Window()

		if existing.OverlapsCore(req.Window) {
			return Plan{}, false
		}

		if !existing.End.After(req.Window.Start) {
			gap := req.Window.Start.Sub(existing.End)
			if gap < r.minBuffer {
				return Plan{}, false
			}

			compressed[conflict.BookingID] = existing.WithBuffer(gap)
			changes = append(changes, Change{
				BookingID:    conflict.BookingID,
				FromResource: candidate,
				ToResource:   candidate,
				Old:          existing,
				New:          existing.WithBuffer(gap),
			})

			continue
		}

		gap := existing.Start.Sub(req.Window.End)
		if gap < r.minBuffer {
			return Plan{}, false
		}

		incomingBuffer = min(incomingBuffer, gap)
	}

	window := req.Window.WithBuffer(incomingBuffer)

	for _, assignment := range req.Occupancy[candidate] {
		existing := assignment.Window()
		if w, ok := compressed[assignment.BookingID]; ok {
			existing = w
		}

		if existing.Overlaps(window) {
			return Plan{}, false
		}
	}

	return Plan{Window: window, Changes: changes}, true
}
