package compound

import (
	"github.com/shopspring/decimal"
)

var (
	// MaxPricision max pricision of ratios and spreads
	MaxPricision int32 = 16

	one = decimal.NewFromInt(1)
)
