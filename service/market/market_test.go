package market

import (
	"context"
	"errors"
	"testing"

	"lending/core"
	marketstore "lending/store/market"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() core.MarketSpec {
	return core.MarketSpec{
		CollateralAssetID:    "c6d0c728-2624-429b-8e0d-d9d19b6592fa",
		BorrowAssetID:        "4d8c508b-91c5-375b-92b0-ee702ed2dac5",
		CollateralFactor:     decimal.RequireFromString("0.5"),
		LiquidationThreshold: decimal.RequireFromString("0.8"),
		MaxLiquidatorSpread:  decimal.RequireFromString("0.05"),
	}
}

func TestConfigurationBeforeInit(t *testing.T) {
	s := New(marketstore.NewMemory(), testSpec())

	_, err := s.Configuration(context.Background())
	assert.True(t, errors.Is(err, core.ErrMarketNotInitialized))
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	s := New(marketstore.NewMemory(), testSpec())

	market, err := s.Init(ctx, []string{"vip"})
	require.NoError(t, err)
	assert.Equal(t, core.SpreadPolicyFixed, market.SpreadPolicy)
	assert.True(t, market.WarningThreshold.Equal(market.CollateralFactor))
	assert.True(t, market.IsLowerCollateralAccount("vip"))

	got, err := s.Configuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, market.CollateralAssetID, got.CollateralAssetID)

	_, err = s.Init(ctx, nil)
	assert.True(t, errors.Is(err, core.ErrMarketInitialized))
}

func TestInitInvalid(t *testing.T) {
	for name, mutate := range map[string]func(*core.MarketSpec){
		"threshold below factor": func(s *core.MarketSpec) { s.LiquidationThreshold = decimal.RequireFromString("0.4") },
		"factor above one":       func(s *core.MarketSpec) { s.CollateralFactor = decimal.RequireFromString("1.2") },
		"same asset":             func(s *core.MarketSpec) { s.BorrowAssetID = s.CollateralAssetID },
		"spread":                 func(s *core.MarketSpec) { s.MaxLiquidatorSpread = decimal.NewFromInt(1) },
		"policy":                 func(s *core.MarketSpec) { s.SpreadPolicy = "random" },
	} {
		t.Run(name, func(t *testing.T) {
			spec := testSpec()
			mutate(&spec)

			s := New(marketstore.NewMemory(), spec)
			_, err := s.Init(context.Background(), nil)
			assert.True(t, errors.Is(err, core.ErrInvalidConfiguration))

			_, err = s.Configuration(context.Background())
			assert.True(t, errors.Is(err, core.ErrMarketNotInitialized))
		})
	}
}
