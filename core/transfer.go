package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// outbound transfer status
const (
	TransferStatusPending = "pending"
	TransferStatusDone    = "done"
)

// Transfer asset transfer request, queued outbound transfers are stored
type Transfer struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at,omitempty"`
	TraceID    string          `sql:"size:36;unique_index:trace_idx" json:"trace_id,omitempty"`
	OpponentID string          `sql:"size:36" json:"opponent_id,omitempty"`
	AssetID    string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(64,0)" json:"amount,omitempty"`
	Memo       string          `sql:"size:200" json:"memo,omitempty"`
	Status     string          `sql:"size:12;index" json:"status,omitempty"`
}

// TransferStore outbound transfers, queued in the transaction of the ledger change paying them
type TransferStore interface {
	// Create queue the transfer, ErrTraceApplied if its trace was queued before
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	// Find nil without error when the trace was never queued
	Find(ctx context.Context, traceID string) (*Transfer, error)
	// Top oldest pending transfers
	Top(ctx context.Context, limit int) ([]*Transfer, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	// DeleteByTime remove sent transfers created before t
	DeleteByTime(t time.Time) error
}

// TransferNotification inbound transfer reported by the token protocol
type TransferNotification struct {
	SnapshotID string          `json:"snapshot_id,omitempty"`
	TraceID    string          `json:"trace_id,omitempty"`
	SenderID   string          `json:"sender_id,omitempty"`
	AssetID    string          `json:"asset_id,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
	Msg        string          `json:"msg,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

// AssetTransferGateway boundary to the external token transfer protocol
//
// Both calls are synchronous: a nil error means the transfer completed.
type AssetTransferGateway interface {
	// Collect confirm the opponent has paid the transfer into the market
	Collect(ctx context.Context, transfer *Transfer) error
	// Send transfer from the market to the opponent, the same trace never pays twice
	Send(ctx context.Context, transfer *Transfer) error
}

// TransferReceiver handles inbound transfer notifications
//
// A notification is applied once. A rejected one is handed back in full,
// an error means nothing was recorded and the notification must be retried.
type TransferReceiver interface {
	OnTransfer(ctx context.Context, notification *TransferNotification) error
}
