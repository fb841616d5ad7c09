// Package allocator picks a free resource for a window.
package allocator

import (
	"slices"
	"strings"

	"washbay/internal/domains/schedule/model"
)

// Order decides which eligible resource is tried first.
type Order string

const (
	OrderByID        Order = "id"
	OrderLeastLoaded Order = "least_loaded"
)

type Allocator struct {
	order Order
}

func New(order Order) Allocator {
	if order != OrderLeastLoaded {
		order = OrderByID
	}

	return Allocator{order: order}
}

// Allocate returns the first candidate whose assignments do not overlap window.
// ok is false when every candidate is taken.
func (a Allocator) Allocate(window model.Window, candidates []string, occupancy model.Occupancy) (resourceID string, ok bool) {
	for _, candidate := range a.Rank(candidates, occupancy) {
		if occupancy.IsFree(candidate, window) {
			return candidate, true
		}
	}

	return "", false
}

// Rank returns the candidates in the order Allocate tries them.
func (a Allocator) Rank(candidates []string, occupancy model.Occupancy) []string {
	ranked := slices.Clone(candidates)

	slices.SortStableFunc(ranked, func(x, y string) int {
		if a.order == OrderLeastLoaded {
			if diff := occupancy.BookedMinutes(x) - occupancy.BookedMinutes(y); diff != 0 {
				return diff
			}
		}

		return strings.Compare(x, y)
	})

	return slices.Compact(ranked)
}
