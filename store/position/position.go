package position

import (
	"context"
	"errors"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

// ErrVersionConflict the position was updated by someone else
var ErrVersionConflict = errors.New("position version conflict")

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, accountID string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("account_id = ?", accountID).First(&position).Error; err != nil {
		if store.IsErrNotFound(err) {
			return core.NewPosition(accountID), nil
		}

		return nil, err
	}

	return &position, nil
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if position.IsClosed() {
		if !position.Exists() {
			return nil
		}

		return s.Delete(ctx, tx, position)
	}

	if !position.Exists() {
		return tx.Update().Create(position).Error
	}

	version := position.Version
	update := tx.Update().Model(position).Where("version = ?", version).Updates(map[string]interface{}{
		"collateral":  position.Collateral,
		"debt":        position.Debt,
		"borrowed_at": position.BorrowedAt,
		"accrued_at":  position.AccruedAt,
		"version":     gorm.Expr("version + 1"),
	})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return ErrVersionConflict
	}

	position.Version = version + 1
	return nil
}

func (s *positionStore) Delete(ctx context.Context, tx *db.DB, position *core.Position) error {
	if !position.IsClosed() {
		return core.NewError(core.ErrOperationForbidden, position.AccountID, position.Collateral, "position is not closed")
	}

	del := tx.Update().Where("id = ? AND version = ?", position.ID, position.Version).Delete(core.Position{})
	if del.Error != nil {
		return del.Error
	}

	if del.RowsAffected == 0 {
		return ErrVersionConflict
	}

	position.ID = 0
	position.Version = 0
	return nil
}

func (s *positionStore) List(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Order("account_id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) ListPage(ctx context.Context, offset, limit int) ([]*core.Position, error) {
	if offset < 0 {
		offset = 0
	}

	var positions []*core.Position
	if err := s.db.View().Order("account_id").Offset(offset).Limit(limit).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}
