package model

import (
	"time"

	"washbay/internal/domains/booking/fee"
)

// Policy holds the tunable business rules of the booking lifecycle.
type Policy struct {
	BufferMinutes         int
	GracePeriod           time.Duration
	OvertimeRatePerMinute float64
	MinNotice             time.Duration
	MaxAdvance            time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		BufferMinutes:         DefaultBufferMinutes,
		GracePeriod:           30 * time.Minute,
		OvertimeRatePerMinute: fee.DefaultOvertimeRatePerMinute,
		MinNotice:             2 * time.Hour,
		MaxAdvance:            90 * 24 * time.Hour,
	}
}
