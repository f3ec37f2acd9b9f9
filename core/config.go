package core

import (
	"time"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lending config
type Config struct {
	App         App               `json:"app"`
	DB          db.Config         `json:"db"`
	MainWallet  MainWallet        `json:"main_wallet"`
	Market      MarketSpec        `json:"market"`
	PriceOracle PriceOracleConfig `json:"price_oracle"`
	Admins      []string          `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// token cache capacity of the login session
	SessionCapacity int `json:"session_capacity"`
	// market configuration cache ttl
	CacheTTL time.Duration `json:"cache_ttl"`
	// claimed traces and sent transfers older than this are pruned, 0 keeps them
	Retention time.Duration `json:"retention"`
}

// MainWallet mixin dapp config, holds the market's assets
type MainWallet struct {
	mixin.Keystore
	ClientSecret string `json:"client_secret"`
	Pin          string `json:"pin"`
}

// MarketSpec static market parameters, applied once by market initialization
type MarketSpec struct {
	CollateralAssetID     string          `json:"collateral_asset_id"`
	BorrowAssetID         string          `json:"borrow_asset_id"`
	CollateralFactor      decimal.Decimal `json:"collateral_factor"`
	LowerCollateralFactor decimal.Decimal `json:"lower_collateral_factor"`
	WarningThreshold      decimal.Decimal `json:"warning_threshold"`
	LiquidationThreshold  decimal.Decimal `json:"liquidation_threshold"`
	MaxLiquidatorSpread   decimal.Decimal `json:"max_liquidator_spread"`
	SpreadPolicy          SpreadPolicy    `json:"spread_policy"`
	MinimumBorrowAmount   decimal.Decimal `json:"minimum_borrow_amount"`
	MaximumBorrowAmount   decimal.Decimal `json:"maximum_borrow_amount"`
	OriginationFee        decimal.Decimal `json:"origination_fee"`
	AnnualMaintenanceFee  decimal.Decimal `json:"annual_maintenance_fee"`
	MaximumBorrowDuration int64           `json:"maximum_borrow_duration_ms"`
}

// Build market configuration for the lower collateral accounts
func (s MarketSpec) Build(lowerCollateralAccounts []string) *Market {
	m := &Market{
		CollateralAssetID:     s.CollateralAssetID,
		BorrowAssetID:         s.BorrowAssetID,
		CollateralFactor:      s.CollateralFactor,
		LowerCollateralFactor: s.LowerCollateralFactor,
		WarningThreshold:      s.WarningThreshold,
		LiquidationThreshold:  s.LiquidationThreshold,
		MaxLiquidatorSpread:   s.MaxLiquidatorSpread,
		SpreadPolicy:          s.SpreadPolicy,
		MinimumBorrowAmount:   s.MinimumBorrowAmount,
		MaximumBorrowAmount:   s.MaximumBorrowAmount,
		OriginationFee:        s.OriginationFee,
		AnnualMaintenanceFee:  s.AnnualMaintenanceFee,
		MaximumBorrowDuration: s.MaximumBorrowDuration,
	}

	if m.LowerCollateralFactor.IsZero() {
		m.LowerCollateralFactor = m.CollateralFactor
	}

	if m.WarningThreshold.IsZero() {
		m.WarningThreshold = m.CollateralFactor
	}

	if m.SpreadPolicy == "" {
		m.SpreadPolicy = SpreadPolicyFixed
	}

	if m.MinimumBorrowAmount.IsZero() {
		m.MinimumBorrowAmount = decimal.NewFromInt(1)
	}

	m.SetLowerAccounts(lowerCollateralAccounts)
	return m
}

// PriceOracleConfig price oracle config
type PriceOracleConfig struct {
	EndPoint string `json:"end_point"`
	// snapshots older than this are stale, 0 disables the check
	FreshnessWindow time.Duration `json:"freshness_window"`
	// base64 blst public key, prices must be signed by it when set
	VerifyKey string `json:"verify_key"`
}
