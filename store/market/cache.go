package market

import (
	"context"
	"time"

	"lending/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

const cacheKey = "market"

// Cache the market never changes once created, exp bounds how long a miss by another process is kept
func Cache(store core.MarketStore, exp time.Duration) core.MarketStore {
	return &cacheMarketStore{
		MarketStore: store,
		exp:         exp,
		cache:       gcache.New(1).LRU().Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheMarketStore struct {
	core.MarketStore
	exp   time.Duration
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheMarketStore) Create(ctx context.Context, market *core.Market) error {
	if err := s.MarketStore.Create(ctx, market); err != nil {
		return err
	}

	s.cacheMarket(market)
	return nil
}

func (s *cacheMarketStore) Find(ctx context.Context) (*core.Market, error) {
	if v, err := s.cache.Get(cacheKey); err == nil {
		if market, ok := v.(*core.Market); ok {
			return market, nil
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		market, err := s.MarketStore.Find(ctx)
		if err != nil {
			return nil, err
		}

		s.cacheMarket(market)
		return market, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Market), nil
}

func (s *cacheMarketStore) cacheMarket(market *core.Market) {
	if s.exp > 0 {
		_ = s.cache.SetWithExpire(cacheKey, market, s.exp)
		return
	}

	_ = s.cache.Set(cacheKey, market)
}
