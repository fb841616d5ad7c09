package model

import (
	"slices"

	"washbay/shared/failure"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// ActiveStatuses hold a resource window.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s Status) IsActive() bool {
	return slices.Contains(ActiveStatuses, s)
}

func (b *Booking) transition(next Status) error {
	if !b.Status.CanTransitionTo(next) {
		return failure.InvalidStateTransition(string(b.Status), string(next)) // nolint:wrapcheck
	}

	b.Status = next

	return nil
}
