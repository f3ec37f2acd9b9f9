package snapshot

import (
	"context"
	"time"

	"lending/core"
	"lending/store/unique"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type snapshotStore struct {
	db *db.DB
}

// New new snapshot store instance
func New(db *db.DB) core.SnapshotStore {
	return &snapshotStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Snapshot{})
		if err := tx.AutoMigrate(core.Snapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *snapshotStore) Claim(ctx context.Context, tx *db.DB, snapshot *core.Snapshot) (bool, error) {
	var count int
	if err := tx.Update().Model(core.Snapshot{}).Where("trace_id = ?", snapshot.TraceID).Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	if err := tx.Update().Create(snapshot).Error; err != nil {
		// claimed by a concurrent transaction
		if unique.IsViolation(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (s *snapshotStore) Find(ctx context.Context, traceID string) (*core.Snapshot, error) {
	var snapshot core.Snapshot
	if err := s.db.View().Where("trace_id = ?", traceID).First(&snapshot).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return &snapshot, nil
}

func (s *snapshotStore) DeleteByTime(t time.Time) error {
	return s.db.Update().Where("created_at < ?", t).Delete(core.Snapshot{}).Error
}
