package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// WorkItem records how one service of a walk-in was actually performed.
type WorkItem struct {
	ServiceID     string    `json:"service_id"`
	ActualMinutes int       `json:"actual_minutes"`
	QualityNote   string    `json:"quality_note,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// WorkSession tracks the execution of a walk-in that started immediately.
type WorkSession struct {
	ResourceID   string     `json:"resource_id"`
	StaffID      string     `json:"staff_id"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	Items        []WorkItem `json:"items"`
	LaborMinutes int        `json:"labor_minutes"`
}

func (w *WorkSession) IsOpen() bool {
	return w != nil && w.ClosedAt == nil
}

// Record replaces any earlier record of the same service and recomputes the labor total.
func (w *WorkSession) Record(item WorkItem) {
	replaced := false

	for i := range w.Items {
		if w.Items[i].ServiceID == item.ServiceID {
			w.Items[i] = item
			replaced = true
		}
	}

	if !replaced {
		w.Items = append(w.Items, item)
	}

	w.LaborMinutes = 0
	for _, recorded := range w.Items {
		w.LaborMinutes += recorded.ActualMinutes
	}
}

func (w *WorkSession) Close(at time.Time) {
	w.ClosedAt = &at
}

// Value implements driver.Valuer.
func (w WorkSession) Value() (driver.Value, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal work session: %w", err)
	}

	return string(b), nil
}

// Scan implements sql.Scanner.
func (w *WorkSession) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported work session type")
	}

	if err := json.Unmarshal(data, w); err != nil {
		return fmt.Errorf("failed to unmarshal work session: %w", err)
	}

	return nil
}
