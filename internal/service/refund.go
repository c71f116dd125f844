package service

import (
	"time"

	"github.com/shopspring/decimal"
)

type refundTier struct {
	minRemaining time.Duration
	fraction     decimal.Decimal
}

// Ordered from the most generous tier down; the first match wins.
var refundTiers = []refundTier{
	{minRemaining: 24 * time.Hour, fraction: decimal.NewFromInt(1)},
	{minRemaining: 12 * time.Hour, fraction: decimal.RequireFromString("0.75")},
	{minRemaining: 2 * time.Hour, fraction: decimal.RequireFromString("0.5")},
	{minRemaining: time.Minute, fraction: decimal.RequireFromString("0.25")},
}

// RefundPolicy computes cancellation refunds rounded to Scale decimal places.
type RefundPolicy struct {
	Scale int32
}

func NewRefundPolicy(scale int32) RefundPolicy {
	return RefundPolicy{Scale: scale}
}

// Fraction returns the share of the paid value returned when cancelling at
// now a slot that starts at start.
func (p RefundPolicy) Fraction(now, start time.Time) decimal.Decimal {
	remaining := start.Sub(now)
	for _, tier := range refundTiers {
		if remaining >= tier.minRemaining {
			return tier.fraction
		}
	}
	return decimal.Zero
}

func (p RefundPolicy) Compute(now, start time.Time, paid decimal.Decimal) decimal.Decimal {
	return paid.Mul(p.Fraction(now, start)).Round(p.Scale)
}
