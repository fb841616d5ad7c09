// Package fee holds the pure pricing rules for cancellations, no-shows and overtime.
package fee

import (
	"math"
	"time"

	"washbay/shared/failure"
)

const (
	DefaultOvertimeRatePerMinute = 1.0

	fullRefundHours   = 24
	quarterFeeHours   = 6
	halfFeeHours      = 2
	quarterFeePercent = 25
	halfFeePercent    = 50
	fullFeePercent    = 100
)

// CancellationPercent returns the share of the price charged when cancelling hoursUntil hours ahead.
// A value exactly on a boundary gets the lower fee.
func CancellationPercent(hoursUntil float64) int {
	switch {
	case hoursUntil >= fullRefundHours:
		return 0
	case hoursUntil >= quarterFeeHours:
		return quarterFeePercent
	case hoursUntil >= halfFeeHours:
		return halfFeePercent
	default:
		return fullFeePercent
	}
}

func CancellationFee(totalPrice float64, now, scheduledAt time.Time) (float64, error) {
	if totalPrice < 0 {
		return 0, failure.InvalidArgument("total price must not be negative, got %.2f", totalPrice) // nolint:wrapcheck
	}

	hoursUntil := scheduledAt.Sub(now).Hours()

	return roundCents(totalPrice * float64(CancellationPercent(hoursUntil)) / fullFeePercent), nil
}

func NoShowFee(totalPrice float64) (float64, error) {
	if totalPrice < 0 {
		return 0, failure.InvalidArgument("total price must not be negative, got %.2f", totalPrice) // nolint:wrapcheck
	}

	return roundCents(totalPrice), nil
}

// OvertimeCharge bills every minute past the estimate at ratePerMinute.
func OvertimeCharge(estimatedMinutes, actualMinutes, ratePerMinute float64) (float64, error) {
	if estimatedMinutes < 0 || actualMinutes < 0 {
		return 0, failure.InvalidArgument("durations must not be negative, got estimated=%.2f actual=%.2f", estimatedMinutes, actualMinutes) // nolint:wrapcheck
	}

	if ratePerMinute < 0 {
		return 0, failure.InvalidArgument("overtime rate must not be negative, got %.2f", ratePerMinute) // nolint:wrapcheck
	}

	return roundCents(math.Max(0, actualMinutes-estimatedMinutes) * ratePerMinute), nil
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
