package compound

import (
	"time"

	"lending/core"

	"github.com/shopspring/decimal"
)

const year = 365 * 24 * time.Hour

// AccrueMaintenanceFee add the annual maintenance fee accrued since the last accrual to the debt
//
// fee = floor(debt * annual_maintenance_fee * elapsed / 365d). The accrual
// time only moves when a whole unit was charged, so short intervals are not lost.
func AccrueMaintenanceFee(p *core.Position, market *core.Market, now time.Time) decimal.Decimal {
	if !market.AnnualMaintenanceFee.IsPositive() || !p.Debt.IsPositive() || p.AccruedAt == nil {
		return decimal.Zero
	}

	elapsed := now.Sub(*p.AccruedAt)
	if elapsed <= 0 {
		return decimal.Zero
	}

	fee, _ := p.Debt.
		Mul(market.AnnualMaintenanceFee).
		Mul(decimal.NewFromInt(int64(elapsed))).
		QuoRem(decimal.NewFromInt(int64(year)), 0)
	if !fee.IsPositive() {
		return decimal.Zero
	}

	p.Debt = p.Debt.Add(fee)
	p.AccruedAt = &now
	return fee
}

// Expired the borrow has been open longer than the maximum borrow duration
func Expired(p *core.Position, market *core.Market, now time.Time) bool {
	duration := market.BorrowDuration()
	if duration <= 0 || !p.Debt.IsPositive() || p.BorrowedAt == nil {
		return false
	}

	return now.Sub(*p.BorrowedAt) >= duration
}
