// Package numeric centralizes the handling of degenerate provider numbers.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Sanitize は NaN・±Inf を 0 に変換します。欠損値は NaN として表現される前提です。
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// PercentChange returns (current-reference)/reference*100, or 0 when the
// reference is zero or either input is not finite.
func PercentChange(current, reference float64) float64 {
	current = Sanitize(current)
	reference = Sanitize(reference)
	if reference == 0 {
		return 0
	}
	return Sanitize((current - reference) / reference * 100)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(Sanitize(v)).Round(2).InexactFloat64()
}
