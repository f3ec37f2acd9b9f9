package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// HealthStatus derived solvency classification, never stored
type HealthStatus int

const (
	// HealthStatusHealthy ratio below the warning threshold
	HealthStatusHealthy HealthStatus = iota
	// HealthStatusWarning ratio in [warning_threshold, liquidation_threshold)
	HealthStatusWarning
	// HealthStatusLiquidation ratio reached the liquidation threshold
	HealthStatusLiquidation
	// HealthStatusClosed no collateral and no debt
	HealthStatusClosed
)

var healthStatusNames = [...]string{"Healthy", "Warning", "Liquidation", "Closed"}

func (s HealthStatus) String() string {
	if s < 0 || int(s) >= len(healthStatusNames) {
		return fmt.Sprintf("HealthStatus(%d)", int(s))
	}

	return healthStatusNames[s]
}

// MarshalJSON as name
func (s HealthStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON from name
func (s *HealthStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}

	for idx, n := range healthStatusNames {
		if strings.EqualFold(n, name) {
			*s = HealthStatus(idx)
			return nil
		}
	}

	return fmt.Errorf("unknown health status %q", name)
}

// Loan position with its valuation under one price snapshot
type Loan struct {
	AccountID          string          `json:"account_id"`
	Collateral         decimal.Decimal `json:"collateral"`
	Debt               decimal.Decimal `json:"debt"`
	CollateralValue    decimal.Decimal `json:"collateral_value"`
	DebtValue          decimal.Decimal `json:"debt_value"`
	MaxBorrowableValue decimal.Decimal `json:"max_borrowable_value"`
	CollateralFactor   decimal.Decimal `json:"collateral_factor"`
	Status             HealthStatus    `json:"status"`
	// the borrow outlived the maximum borrow duration
	Expired bool `json:"expired"`
}

// AccountService read-only account queries
type AccountService interface {
	// ListBorrows accounts with an open position
	ListBorrows(ctx context.Context, offset, limit int) ([]string, error)
	// BorrowStatus health status with the latest price, or with price when not nil
	BorrowStatus(ctx context.Context, accountID string, price *PriceSnapshot) (HealthStatus, error)
	// Loan valuation of one position
	Loan(ctx context.Context, accountID string, price *PriceSnapshot) (*Loan, error)
	// AllLoans valuation of every position
	AllLoans(ctx context.Context, price *PriceSnapshot) ([]*Loan, error)
}
