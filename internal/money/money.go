// Package money holds the percent/amount arithmetic shared by the term
// reconciliation engine and the import pipeline. All functions are pure and
// total: bad input maps to zero values, never to errors.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// SumTolerance is the allowance, in basis points, when checking that a
	// term set sums to 100%.
	SumTolerance int64 = 1
)

// AmountFromPercent returns total * percent / 100 rounded to 2 decimals,
// half away from zero.
func AmountFromPercent(total, percent decimal.Decimal) decimal.Decimal {
	return total.Mul(percent).Div(hundred).Round(2)
}

// PercentFromAmount back-derives the percentage an amount represents of
// total. A non-positive total yields 0: the project may not be priced yet.
func PercentFromAmount(total, amount decimal.Decimal) decimal.Decimal {
	if total.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.Mul(hundred).Div(total).Round(2)
}

// ClampPercent clamps p to [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.Sign() < 0 {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// ParsePercent parses a cell value into a clamped percentage. Empty or
// non-numeric input maps to 0.
func ParsePercent(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Zero
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return ClampPercent(p.Round(2))
}

// Basis converts a percentage into integer basis points (percent * 100)
// after rounding to 2 decimals, so sum checks never touch floats.
func Basis(p decimal.Decimal) int64 {
	return p.Round(2).Mul(hundred).IntPart()
}

// SumsToFull reports whether the percentages add up to 100% within
// SumTolerance basis points, and returns the deficit (or excess, negative)
// in basis points.
func SumsToFull(percents []decimal.Decimal) (bool, int64) {
	var sum int64
	for _, p := range percents {
		sum += Basis(p)
	}
	diff := 10000 - sum
	if diff < 0 {
		return -diff <= SumTolerance, diff
	}
	return diff <= SumTolerance, diff
}
