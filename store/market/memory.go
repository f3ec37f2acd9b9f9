package market

import (
	"context"
	"sync"

	"lending/core"

	"github.com/shopspring/decimal"
)

// NewMemory market store kept in memory
func NewMemory() core.MarketStore {
	return &memoryStore{}
}

type memoryStore struct {
	mu     sync.RWMutex
	market *core.Market
}

func (s *memoryStore) Create(ctx context.Context, market *core.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.market != nil {
		return core.NewError(core.ErrMarketInitialized, "", decimal.Zero, "market exists")
	}

	market.ID = 1
	m := *market
	s.market = &m
	return nil
}

func (s *memoryStore) Find(ctx context.Context) (*core.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.market == nil {
		return nil, core.NewError(core.ErrMarketNotInitialized, "", decimal.Zero, "")
	}

	m := *s.market
	return &m, nil
}
