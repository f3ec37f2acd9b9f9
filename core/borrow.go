package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// RepayResult applied and refunded parts of a repayment
type RepayResult struct {
	Applied  decimal.Decimal `json:"applied"`
	Refund   decimal.Decimal `json:"refund"`
	Position *Position       `json:"position"`
}

// BorrowService deposit, borrow, repay and close against the ledger
//
// Every mutation is claimed by its trace id and commits together with the
// outbound transfers it pays, a reused trace fails with ErrTraceApplied.
type BorrowService interface {
	// DepositCollateral collect amount of collateral from the account, then credit it
	DepositCollateral(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (*Position, error)
	// Credit credit collateral that has already arrived
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (*Position, error)
	// Borrow pay amount of borrow asset to the account if the position stays within the collateral factor
	Borrow(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (*Position, error)
	// Repay reduce debt by up to amount of arrived borrow asset, the excess is refunded
	Repay(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (*RepayResult, error)
	// Close return all collateral of a debt-free account and remove its position
	Close(ctx context.Context, accountID string, traceID string) (*Position, error)
	// RepayAndClose repay the whole debt with amount and close, all or nothing
	RepayAndClose(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (*RepayResult, error)
}

// Liquidation accepted liquidation
type Liquidation struct {
	AccountID    string          `json:"account_id"`
	LiquidatorID string          `json:"liquidator_id"`
	Repaid       decimal.Decimal `json:"repaid"`
	Seized       decimal.Decimal `json:"seized"`
	Spread       decimal.Decimal `json:"spread"`
	Position     *Position       `json:"position"`
}

// LiquidationService third-party liquidation of unhealthy accounts
type LiquidationService interface {
	// Liquidate repay amount of the account's debt and seize collateral for liquidatorID, all or nothing
	Liquidate(ctx context.Context, liquidatorID, accountID string, amount decimal.Decimal, traceID string) (*Liquidation, error)
}
