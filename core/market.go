package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// SpreadPolicy how the liquidator spread is chosen
type SpreadPolicy string

const (
	// SpreadPolicyFixed always pay max_liquidator_spread
	SpreadPolicyFixed SpreadPolicy = "fixed"
	// SpreadPolicyDynamic pay how far the ratio exceeds the liquidation threshold, capped by max_liquidator_spread
	SpreadPolicyDynamic SpreadPolicy = "dynamic"
)

// Market market configuration, shared read-only by all positions
type Market struct {
	ID                uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	CollateralAssetID string `sql:"size:36" json:"collateral_asset_id"`
	BorrowAssetID     string `sql:"size:36" json:"borrow_asset_id"`
	// 抵押因子 = 可借贷价值 / 抵押资产价值
	CollateralFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"collateral_factor"`
	// applied to LowerCollateralAccounts instead of CollateralFactor
	LowerCollateralFactor   decimal.Decimal `sql:"type:decimal(20,8)" json:"lower_collateral_factor"`
	LowerCollateralAccounts types.JSONText  `sql:"type:TEXT" json:"lower_collateral_accounts"`
	// debt/collateral ratio from which the status becomes Warning
	WarningThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"warning_threshold"`
	// debt/collateral ratio from which the status becomes Liquidation
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_threshold"`
	MaxLiquidatorSpread  decimal.Decimal `sql:"type:decimal(20,8)" json:"max_liquidator_spread"`
	SpreadPolicy         SpreadPolicy    `sql:"size:16" json:"spread_policy"`
	MinimumBorrowAmount  decimal.Decimal `sql:"type:decimal(64,0)" json:"minimum_borrow_amount"`
	// 0 means unlimited
	MaximumBorrowAmount decimal.Decimal `sql:"type:decimal(64,0)" json:"maximum_borrow_amount"`
	// one-time fee added to the debt on borrow, proportional to the borrowed amount
	OriginationFee decimal.Decimal `sql:"type:decimal(20,8)" json:"origination_fee"`
	// yearly fee accrued on the debt
	AnnualMaintenanceFee decimal.Decimal `sql:"type:decimal(20,8)" json:"annual_maintenance_fee"`
	// borrows older than this become liquidatable, 0 means forever
	MaximumBorrowDuration int64     `json:"maximum_borrow_duration_ms"`
	Version               int64     `sql:"default:0" json:"version"`
	CreatedAt             time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BorrowDuration maximum borrow duration, 0 means forever
func (m *Market) BorrowDuration() time.Duration {
	return time.Duration(m.MaximumBorrowDuration) * time.Millisecond
}

// LowerAccounts decode lower collateral accounts
func (m *Market) LowerAccounts() []string {
	var accounts []string
	if len(m.LowerCollateralAccounts) == 0 {
		return accounts
	}

	_ = json.Unmarshal(m.LowerCollateralAccounts, &accounts)
	return accounts
}

// SetLowerAccounts encode lower collateral accounts
func (m *Market) SetLowerAccounts(accounts []string) {
	if accounts == nil {
		accounts = []string{}
	}

	data, _ := json.Marshal(accounts)
	m.LowerCollateralAccounts = data
}

// IsLowerCollateralAccount the account is granted the lower collateral factor
func (m *Market) IsLowerCollateralAccount(accountID string) bool {
	for _, a := range m.LowerAccounts() {
		if a == accountID {
			return true
		}
	}

	return false
}

// EffectiveCollateralFactor collateral factor applied to the account
func (m *Market) EffectiveCollateralFactor(accountID string) decimal.Decimal {
	if m.IsLowerCollateralAccount(accountID) {
		return m.LowerCollateralFactor
	}

	return m.CollateralFactor
}

// Validate reject configurations the health engine can not work with
func (m *Market) Validate() error {
	one := decimal.NewFromInt(1)
	invalid := func(reason string) error {
		return NewError(ErrInvalidConfiguration, "", decimal.Zero, reason)
	}

	switch {
	case m.CollateralAssetID == "" || m.BorrowAssetID == "":
		return invalid("asset ids required")
	case m.CollateralAssetID == m.BorrowAssetID:
		return invalid("collateral and borrow asset must differ")
	case !m.CollateralFactor.IsPositive() || m.CollateralFactor.GreaterThan(one):
		return invalid("collateral_factor must be in (0, 1]")
	case !m.LowerCollateralFactor.IsPositive() || m.LowerCollateralFactor.GreaterThan(m.CollateralFactor):
		return invalid("lower_collateral_factor must be in (0, collateral_factor]")
	case m.LiquidationThreshold.LessThanOrEqual(m.CollateralFactor):
		return invalid("liquidation_threshold must be greater than collateral_factor")
	case m.WarningThreshold.LessThan(m.CollateralFactor) || m.WarningThreshold.GreaterThan(m.LiquidationThreshold):
		return invalid("warning_threshold must be in [collateral_factor, liquidation_threshold]")
	case m.MaxLiquidatorSpread.IsNegative() || m.MaxLiquidatorSpread.GreaterThanOrEqual(one):
		return invalid("max_liquidator_spread must be in [0, 1)")
	case m.SpreadPolicy != SpreadPolicyFixed && m.SpreadPolicy != SpreadPolicyDynamic:
		return invalid("unknown spread_policy")
	case m.OriginationFee.IsNegative() || m.OriginationFee.GreaterThanOrEqual(one):
		return invalid("origination_fee must be in [0, 1)")
	case m.AnnualMaintenanceFee.IsNegative():
		return invalid("annual_maintenance_fee must not be negative")
	case m.MaximumBorrowDuration < 0:
		return invalid("maximum_borrow_duration_ms must not be negative")
	case m.MinimumBorrowAmount.LessThan(one) || !m.MinimumBorrowAmount.Equal(m.MinimumBorrowAmount.Truncate(0)):
		return invalid("minimum_borrow_amount must be a positive integer")
	case m.MaximumBorrowAmount.IsNegative() ||
		(m.MaximumBorrowAmount.IsPositive() && m.MaximumBorrowAmount.LessThan(m.MinimumBorrowAmount)):
		return invalid("maximum_borrow_amount must be 0 or not less than minimum_borrow_amount")
	}

	return nil
}

// MarketStore persists the single market configuration
type MarketStore interface {
	Create(ctx context.Context, market *Market) error
	Find(ctx context.Context) (*Market, error)
}

// MarketService market configuration access
type MarketService interface {
	// Init one-time initialization, new(lower_collateral_accounts)
	Init(ctx context.Context, lowerCollateralAccounts []string) (*Market, error)
	// Configuration the active configuration, ErrMarketNotInitialized before Init
	Configuration(ctx context.Context) (*Market, error)
}
