package market

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.MarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create insert the market, only one market may ever exist
func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	return s.db.Tx(func(tx *db.DB) error {
		var count int
		if err := tx.Update().Model(core.Market{}).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return core.NewError(core.ErrMarketInitialized, "", decimal.Zero, "market exists")
		}

		return tx.Update().Create(market).Error
	})
}

func (s *marketStore) Find(ctx context.Context) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Order("id").First(&market).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.NewError(core.ErrMarketNotInitialized, "", decimal.Zero, "")
		}

		return nil, err
	}

	return &market, nil
}
