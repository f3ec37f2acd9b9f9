package compound

import (
	"testing"
	"time"

	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func borrowedAt(p *core.Position, at time.Time) *core.Position {
	p.BorrowedAt = &at
	p.AccruedAt = &at
	return p
}

func TestAccrueMaintenanceFee(t *testing.T) {
	market := testMarket()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("disabled", func(t *testing.T) {
		p := borrowedAt(position("a", 1000, 1000), start)
		assert.True(t, AccrueMaintenanceFee(p, market, start.Add(year)).IsZero())
		assert.Equal(t, "1000", p.Debt.String())
	})

	market.AnnualMaintenanceFee = number.Decimal("0.1")

	t.Run("one year", func(t *testing.T) {
		p := borrowedAt(position("a", 1000, 1000), start)
		now := start.Add(year)
		assert.Equal(t, "100", AccrueMaintenanceFee(p, market, now).String())
		assert.Equal(t, "1100", p.Debt.String())
		assert.True(t, p.AccruedAt.Equal(now))
		// borrow start is untouched
		assert.True(t, p.BorrowedAt.Equal(start))
	})

	t.Run("less than one unit", func(t *testing.T) {
		p := borrowedAt(position("a", 1000, 1000), start)
		assert.True(t, AccrueMaintenanceFee(p, market, start.Add(time.Hour)).IsZero())
		assert.True(t, p.AccruedAt.Equal(start))

		// the hour is charged later together with the rest
		assert.Equal(t, "50", AccrueMaintenanceFee(p, market, start.Add(year/2)).String())
	})

	t.Run("no debt", func(t *testing.T) {
		p := position("a", 1000, 0)
		assert.True(t, AccrueMaintenanceFee(p, market, start.Add(year)).IsZero())
	})

	t.Run("clock behind", func(t *testing.T) {
		p := borrowedAt(position("a", 1000, 1000), start)
		assert.True(t, AccrueMaintenanceFee(p, market, start.Add(-time.Hour)).IsZero())
	})
}

func TestExpired(t *testing.T) {
	market := testMarket()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := borrowedAt(position("a", 1000, 100), start)
	price := prices("1", "1")

	assert.False(t, Expired(p, market, start.Add(10*year)))

	market.MaximumBorrowDuration = (24 * time.Hour).Milliseconds()
	assert.False(t, Expired(p, market, start.Add(23*time.Hour)))
	assert.Equal(t, core.HealthStatusHealthy, Status(p, market, price, start.Add(23*time.Hour)))

	assert.True(t, Expired(p, market, start.Add(24*time.Hour)))
	assert.Equal(t, core.HealthStatusLiquidation, Status(p, market, price, start.Add(24*time.Hour)))
	assert.True(t, Valuate(p, market, price, start.Add(25*time.Hour)).Expired)

	// repaid borrows never expire
	repaid := borrowedAt(position("a", 1000, 0), start)
	repaid.Debt = decimal.Zero
	assert.False(t, Expired(repaid, market, start.Add(year)))
}
