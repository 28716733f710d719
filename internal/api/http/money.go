package http

import (
	"math"

	"rentout-backend/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// toCents converts a decimal amount to integer cents. Amounts with more
// precision than a cent are rejected rather than rounded.
func toCents(field string, d decimal.Decimal) (int64, error) {
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, domain.NewValidationError(field, "must have at most two decimal places")
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, domain.NewValidationError(field, "is out of range")
	}
	return cents.IntPart(), nil
}

// optionalCents returns fallback when d is nil.
func optionalCents(field string, d *decimal.Decimal, fallback int64) (int64, error) {
	if d == nil {
		return fallback, nil
	}
	return toCents(field, *d)
}

func requiredCents(field string, d *decimal.Decimal) (int64, error) {
	if d == nil {
		return 0, domain.NewValidationError(field, "is required")
	}
	return toCents(field, *d)
}

// formatCents renders cents as a fixed two-decimal string, e.g. 15000 -> "150.00".
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
