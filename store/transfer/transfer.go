package transfer

import (
	"context"
	"errors"
	"time"

	"lending/core"
	"lending/store/unique"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.TransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	transfer.Status = core.TransferStatusPending
	if err := tx.Update().Create(transfer).Error; err != nil {
		if unique.IsViolation(err) {
			return core.NewError(core.ErrTraceApplied, transfer.OpponentID, transfer.Amount, "transfer "+transfer.TraceID+" queued before")
		}

		return err
	}

	return nil
}

func (s *transferStore) Find(ctx context.Context, traceID string) (*core.Transfer, error) {
	var transfer core.Transfer
	if err := s.db.View().Where("trace_id = ?", traceID).First(&transfer).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return &transfer, nil
}

func (s *transferStore) Top(ctx context.Context, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var transfers []*core.Transfer
	if err := s.db.View().Where("status = ?", core.TransferStatusPending).Order("id ASC").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *transferStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return s.db.Update().Model(core.Transfer{}).Where("id = ?", id).Update("status", status).Error
}

func (s *transferStore) DeleteByTime(t time.Time) error {
	return s.db.Update().Where("status = ? AND created_at < ?", core.TransferStatusDone, t).Delete(core.Transfer{}).Error
}
