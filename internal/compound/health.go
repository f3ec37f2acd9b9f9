package compound

import (
	"time"

	"lending/core"

	"github.com/shopspring/decimal"
)

// CollateralValue collateral_value = collateral * collateral_price
func CollateralValue(p *core.Position, price *core.PriceSnapshot) decimal.Decimal {
	return p.Collateral.Mul(price.CollateralPrice)
}

// DebtValue debt_value = debt * borrow_price
func DebtValue(p *core.Position, price *core.PriceSnapshot) decimal.Decimal {
	return p.Debt.Mul(price.BorrowPrice)
}

// MaxBorrowableValue max_borrowable_value = collateral_value * effective_collateral_factor
func MaxBorrowableValue(p *core.Position, market *core.Market, price *core.PriceSnapshot) decimal.Decimal {
	return CollateralValue(p, price).Mul(market.EffectiveCollateralFactor(p.AccountID))
}

// WithinCollateralFactor debt_value <= max_borrowable_value
func WithinCollateralFactor(p *core.Position, market *core.Market, price *core.PriceSnapshot) bool {
	return DebtValue(p, price).LessThanOrEqual(MaxBorrowableValue(p, market, price))
}

// Ratio ratio = debt_value / collateral_value
//
// 0 for an empty position, infinite is reported when there is debt without collateral.
func Ratio(p *core.Position, price *core.PriceSnapshot) (ratio decimal.Decimal, infinite bool) {
	collateralValue := CollateralValue(p, price)
	debtValue := DebtValue(p, price)

	if collateralValue.IsZero() {
		return decimal.Zero, debtValue.IsPositive()
	}

	return debtValue.DivRound(collateralValue, MaxPricision), false
}

// reached debt_value >= threshold * collateral_value, no division involved
func reached(p *core.Position, price *core.PriceSnapshot, threshold decimal.Decimal) bool {
	return DebtValue(p, price).GreaterThanOrEqual(CollateralValue(p, price).Mul(threshold))
}

// Status derive the health status at now
//
// An expired borrow is liquidatable whatever its ratio.
func Status(p *core.Position, market *core.Market, price *core.PriceSnapshot, now time.Time) core.HealthStatus {
	switch {
	case p.IsClosed():
		return core.HealthStatusClosed
	case p.Collateral.IsZero():
		return core.HealthStatusLiquidation
	case reached(p, price, market.LiquidationThreshold):
		return core.HealthStatusLiquidation
	case Expired(p, market, now):
		return core.HealthStatusLiquidation
	case reached(p, price, market.WarningThreshold):
		return core.HealthStatusWarning
	default:
		return core.HealthStatusHealthy
	}
}

// Valuate loan view of the position at now
func Valuate(p *core.Position, market *core.Market, price *core.PriceSnapshot, now time.Time) *core.Loan {
	return &core.Loan{
		AccountID:          p.AccountID,
		Collateral:         p.Collateral,
		Debt:               p.Debt,
		CollateralValue:    CollateralValue(p, price),
		DebtValue:          DebtValue(p, price),
		MaxBorrowableValue: MaxBorrowableValue(p, market, price),
		CollateralFactor:   market.EffectiveCollateralFactor(p.AccountID),
		Status:             Status(p, market, price, now),
		Expired:            Expired(p, market, now),
	}
}
