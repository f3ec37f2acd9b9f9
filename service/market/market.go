package market

import (
	"context"
	"errors"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	markets core.MarketStore
	spec    core.MarketSpec
}

// New new market service, spec holds the parameters applied by Init
func New(markets core.MarketStore, spec core.MarketSpec) core.MarketService {
	return &service{
		markets: markets,
		spec:    spec,
	}
}

func (s *service) Init(ctx context.Context, lowerCollateralAccounts []string) (*core.Market, error) {
	log := logger.FromContext(ctx).WithField("lower_collateral_accounts", len(lowerCollateralAccounts))

	if _, err := s.markets.Find(ctx); err == nil {
		return nil, core.NewError(core.ErrMarketInitialized, "", decimal.Zero, "market exists")
	} else if !errors.Is(err, core.ErrMarketNotInitialized) {
		log.WithError(err).Errorln("markets.Find")
		return nil, err
	}

	market := s.spec.Build(lowerCollateralAccounts)
	if err := market.Validate(); err != nil {
		log.WithError(err).Errorln("market.Validate")
		return nil, err
	}

	if err := s.markets.Create(ctx, market); err != nil {
		log.WithError(err).Errorln("markets.Create")
		return nil, err
	}

	log.Infof("market %s/%s initialized", market.CollateralAssetID, market.BorrowAssetID)
	return market, nil
}

func (s *service) Configuration(ctx context.Context) (*core.Market, error) {
	return s.markets.Find(ctx)
}
