package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  session_capacity: 64
main_wallet:
  client_secret: secret
  pin: "123456"
price_oracle:
  end_point: https://oracle.example.com
market:
  collateral_asset_id: c6d0c728-2624-429b-8e0d-d9d19b6592fa
  borrow_asset_id: 4d8c508b-91c5-375b-92b0-ee702ed2dac5
  spread_policy: dynamic
admins:
  - admin
`

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o600))

	var cfg core.Config
	require.NoError(t, Load(file, &cfg))

	assert.Equal(t, 64, cfg.App.SessionCapacity)
	assert.Equal(t, time.Minute, cfg.App.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.PriceOracle.FreshnessWindow)
	assert.Equal(t, "https://oracle.example.com", cfg.PriceOracle.EndPoint)
	assert.Equal(t, "123456", cfg.MainWallet.Pin)
	assert.Equal(t, "secret", cfg.MainWallet.ClientSecret)
	assert.Equal(t, "c6d0c728-2624-429b-8e0d-d9d19b6592fa", cfg.Market.CollateralAssetID)
	assert.Equal(t, core.SpreadPolicyDynamic, cfg.Market.SpreadPolicy)
	assert.True(t, cfg.IsAdmin("admin"))
	assert.False(t, cfg.IsAdmin("alice"))
}
