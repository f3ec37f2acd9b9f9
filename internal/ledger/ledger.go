package ledger

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Ledger applies position changes together with the trace claim and the
// outbound transfers they pay, in one database transaction
type Ledger struct {
	db        *db.DB
	positions core.PositionStore
	snapshots core.SnapshotStore
	transfers core.TransferStore
}

// New new ledger
func New(
	db *db.DB,
	positions core.PositionStore,
	snapshots core.SnapshotStore,
	transfers core.TransferStore,
) *Ledger {
	return &Ledger{
		db:        db,
		positions: positions,
		snapshots: snapshots,
		transfers: transfers,
	}
}

// Find current position of the account
func (l *Ledger) Find(ctx context.Context, accountID string) (*core.Position, error) {
	position, err := l.positions.Find(ctx, accountID)
	if err != nil {
		return nil, core.WrapError(core.ErrUnknown, accountID, decimal.Zero, err)
	}

	return position, nil
}

// Check ErrTraceApplied if the trace has been claimed before
func (l *Ledger) Check(ctx context.Context, traceID, accountID string, amount decimal.Decimal) error {
	snapshot, err := l.snapshots.Find(ctx, traceID)
	if err != nil {
		return core.WrapError(core.ErrUnknown, accountID, amount, err)
	}

	if snapshot != nil {
		return applied(snapshot)
	}

	return nil
}

// Commit claim the trace, save the position and queue the transfers
//
// Nothing is written unless all of them succeed. position may be nil when
// only the claim and the transfers are recorded, as for a refund.
func (l *Ledger) Commit(ctx context.Context, claim *core.Snapshot, position *core.Position, transfers ...*core.Transfer) error {
	saved := position
	if position != nil {
		saved = position.Clone()
	}

	err := l.db.Tx(func(tx *db.DB) error {
		claimed, err := l.snapshots.Claim(ctx, tx, claim)
		if err != nil {
			return err
		}

		if !claimed {
			return applied(claim)
		}

		if saved != nil {
			if err := l.positions.Save(ctx, tx, saved); err != nil {
				return err
			}
		}

		for _, transfer := range transfers {
			if err := l.transfers.Create(ctx, tx, transfer); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if _, ok := err.(*core.Error); ok {
			return err
		}

		return core.WrapError(core.ErrUnknown, claim.SenderID, claim.Amount, err)
	}

	// ids and versions are only taken once the transaction is in
	if position != nil {
		*position = *saved
	}

	return nil
}

func applied(snapshot *core.Snapshot) error {
	return core.NewError(core.ErrTraceApplied, snapshot.SenderID, snapshot.Amount, "trace "+snapshot.TraceID+" applied before")
}
