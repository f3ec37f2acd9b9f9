package core

import (
	"context"
	"time"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Wallet the market's mixin wallet
type Wallet struct {
	Client *mixin.Client `json:"client"`
	Pin    string        `json:"pin"`
}

// Snapshot a trace applied to the ledger, an inbound transfer or a direct call
//
// It is claimed in the transaction of the ledger change it caused, so a
// trace is never applied twice and its outcome is never lost.
type Snapshot struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	SnapshotID string          `sql:"size:36" json:"snapshot_id,omitempty"`
	TraceID    string          `sql:"size:36;unique_index:trace_idx" json:"trace_id,omitempty"`
	SenderID   string          `sql:"size:64" json:"sender_id,omitempty"`
	AssetID    string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(64,0)" json:"amount,omitempty"`
	Msg        string          `sql:"size:256" json:"msg,omitempty"`
	Refund     decimal.Decimal `sql:"type:decimal(64,0)" json:"refund,omitempty"`
	// rejection reason, empty when accepted
	Error     string    `sql:"size:256" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SnapshotStore claimed traces
type SnapshotStore interface {
	// Claim record the snapshot in tx, false if its trace has been claimed before
	Claim(ctx context.Context, tx *db.DB, snapshot *Snapshot) (bool, error)
	// Find nil without error if the trace was never claimed
	Find(ctx context.Context, traceID string) (*Snapshot, error)
	DeleteByTime(t time.Time) error
}

// TransferSource inbound transfers of the market wallet
type TransferSource interface {
	// Pull notifications after cursor in ascending order, returns the next cursor
	Pull(ctx context.Context, cursor string, limit int) ([]*TransferNotification, string, error)
}
