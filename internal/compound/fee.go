package compound

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// OriginationFee fee added to the debt when borrowing amount, rounded up
func OriginationFee(amount decimal.Decimal, market *core.Market) decimal.Decimal {
	if !market.OriginationFee.IsPositive() {
		return decimal.Zero
	}

	return number.Ceil(amount.Mul(market.OriginationFee), 0)
}

// Liability debt added when borrowing amount
func Liability(amount decimal.Decimal, market *core.Market) decimal.Decimal {
	return amount.Add(OriginationFee(amount, market))
}
