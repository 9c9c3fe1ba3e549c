package kernel

import "github.com/shopspring/decimal"

// RoundedMean returns sum/n rounded half away from zero to a whole number of
// minor units. An empty sample yields 0.
func RoundedMean(sum, n int64) int64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(n)).
		Round(0).
		IntPart()
}

// FormatCents renders minor units as a major-unit decimal string, e.g. 1599 -> "15.99".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
