package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position collateral and debt of one account, in smallest units
type Position struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	AccountID  string          `sql:"size:64;unique_index:idx_positions_account_id" json:"account_id"`
	Collateral decimal.Decimal `sql:"type:decimal(64,0)" json:"collateral"`
	Debt       decimal.Decimal `sql:"type:decimal(64,0)" json:"debt"`
	// set while the position carries debt
	BorrowedAt *time.Time `json:"borrowed_at,omitempty"`
	// maintenance fees are accrued up to this time
	AccruedAt *time.Time `json:"accrued_at,omitempty"`
	Version   int64      `sql:"default:0" json:"version"`
	CreatedAt time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// NewPosition empty position of the account
func NewPosition(accountID string) *Position {
	return &Position{
		AccountID:  accountID,
		Collateral: decimal.Zero,
		Debt:       decimal.Zero,
	}
}

// IsClosed both balances are zero
func (p *Position) IsClosed() bool {
	return p.Collateral.IsZero() && p.Debt.IsZero()
}

// Exists the position has been saved before
func (p *Position) Exists() bool {
	return p.ID > 0
}

// Clone copy of the position, mutations on it never leak into the original
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// IncreaseDebt add amount to the debt, the borrow starts at now when there was none
func (p *Position) IncreaseDebt(amount decimal.Decimal, now time.Time) {
	if !p.Debt.IsPositive() && amount.IsPositive() {
		p.BorrowedAt = &now
		p.AccruedAt = &now
	}

	p.Debt = p.Debt.Add(amount)
}

// DecreaseDebt subtract amount from the debt, a fully repaid borrow forgets its start
func (p *Position) DecreaseDebt(amount decimal.Decimal) {
	p.Debt = p.Debt.Sub(amount)
	if !p.Debt.IsPositive() {
		p.Debt = decimal.Zero
		p.BorrowedAt = nil
		p.AccruedAt = nil
	}
}

// PositionStore the ledger
//
// Find never fails for a missing account, it returns an empty position.
// Writes go through tx and are guarded by the position version.
type PositionStore interface {
	Find(ctx context.Context, accountID string) (*Position, error)
	// Save create or update the position, a closed position is deleted instead
	Save(ctx context.Context, tx *db.DB, position *Position) error
	// Delete remove a closed position
	Delete(ctx context.Context, tx *db.DB, position *Position) error
	List(ctx context.Context) ([]*Position, error)
	ListPage(ctx context.Context, offset, limit int) ([]*Position, error)
}
