package number

import (
	"github.com/shopspring/decimal"
)

// Decimal parse v, zero when invalid
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Ceil round up to precision digits
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// Floor round down to precision digits
func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Floor().Shift(-precision)
}

// IsInteger d has no fractional part
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// IsAmount positive integer in smallest units
func IsAmount(d decimal.Decimal) bool {
	return d.IsPositive() && IsInteger(d)
}
