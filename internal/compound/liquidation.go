package compound

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// Spread liquidator spread for the position
//
// fixed: max_liquidator_spread
// dynamic: ratio - liquidation_threshold, clamped to [0, max_liquidator_spread]
func Spread(p *core.Position, market *core.Market, price *core.PriceSnapshot) decimal.Decimal {
	if market.SpreadPolicy != core.SpreadPolicyDynamic {
		return market.MaxLiquidatorSpread
	}

	ratio, infinite := Ratio(p, price)
	if infinite {
		return market.MaxLiquidatorSpread
	}

	spread := ratio.Sub(market.LiquidationThreshold)
	if spread.IsNegative() {
		return decimal.Zero
	}

	return decimal.Min(spread, market.MaxLiquidatorSpread)
}

// SeizeCollateral collateral paid for repay units of borrow asset
// seized = floor(repay * borrow_price * (1 + spread) / collateral_price)
func SeizeCollateral(repay, spread decimal.Decimal, price *core.PriceSnapshot) decimal.Decimal {
	value := repay.Mul(price.BorrowPrice).Mul(one.Add(spread))
	seized, _ := value.QuoRem(price.CollateralPrice, 0)
	return seized
}
