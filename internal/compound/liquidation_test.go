package compound

import (
	"testing"

	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSpread(t *testing.T) {
	market := testMarket()
	pos := position("a", 1000, 820)
	price := prices("1", "1")

	assert.Equal(t, "0.05", Spread(pos, market, price).String())

	market.SpreadPolicy = core.SpreadPolicyDynamic
	// ratio 0.82, threshold 0.8
	assert.Equal(t, "0.02", Spread(pos, market, price).String())
	// ratio 0.9 is capped by the max spread
	assert.Equal(t, "0.05", Spread(position("a", 1000, 900), market, price).String())
	// not reached, no bonus
	assert.True(t, Spread(position("a", 1000, 700), market, price).IsZero())
	// no collateral left
	assert.Equal(t, "0.05", Spread(position("a", 0, 10), market, price).String())
}

func TestSeizeCollateral(t *testing.T) {
	cases := []struct {
		repay  int64
		spread string
		price  *core.PriceSnapshot
		seized string
	}{
		{100, "0.05", prices("1", "1"), "105"},
		{100, "0", prices("1", "1"), "100"},
		{100, "0.05", prices("2", "1"), "52"},
		{100, "0.05", prices("1", "1.6"), "168"},
		{1, "0.05", prices("3", "1"), "0"},
	}

	for _, c := range cases {
		seized := SeizeCollateral(decimal.NewFromInt(c.repay), number.Decimal(c.spread), c.price)
		assert.Equal(t, c.seized, seized.String())
	}
}

func TestOriginationFee(t *testing.T) {
	market := testMarket()
	assert.True(t, OriginationFee(decimal.NewFromInt(500), market).IsZero())
	assert.Equal(t, "500", Liability(decimal.NewFromInt(500), market).String())

	market.OriginationFee = number.Decimal("0.01")
	assert.Equal(t, "5", OriginationFee(decimal.NewFromInt(500), market).String())
	// rounds up in favor of the market
	assert.Equal(t, "1", OriginationFee(decimal.NewFromInt(1), market).String())
	assert.Equal(t, "102", Liability(decimal.NewFromInt(101), market).String())
}
