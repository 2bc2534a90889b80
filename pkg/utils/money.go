package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentOf returns round(amount * percent / 100) in whole currency units.
// Halves round away from zero.
func PercentOf(amount int64, percent decimal.Decimal) int64 {
	if amount <= 0 || percent.Sign() <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(percent).Div(hundred).Round(0).IntPart()
}

// ParsePercent parses a percentage string and rejects values outside [0, 100].
func ParsePercent(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, ValidPercent(d)
}

func ValidPercent(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.Zero) && d.LessThanOrEqual(hundred)
}

// MinInt64 returns the smaller of a and b.
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
