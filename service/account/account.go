package account

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/compound"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type accountService struct {
	positions core.PositionStore
	markets   core.MarketService
	oracle    core.PriceOracle
	now       func() time.Time
}

// New new account service
func New(positions core.PositionStore, markets core.MarketService, oracle core.PriceOracle) core.AccountService {
	return &accountService{
		positions: positions,
		markets:   markets,
		oracle:    oracle,
		now:       time.Now,
	}
}

func (s *accountService) ListBorrows(ctx context.Context, offset, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	positions, err := s.positions.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(positions))
	for _, p := range positions {
		accounts = append(accounts, p.AccountID)
	}

	return accounts, nil
}

// prepare the market and a usable price, price overrides the oracle when set
func (s *accountService) prepare(ctx context.Context, price *core.PriceSnapshot) (*core.Market, *core.PriceSnapshot, error) {
	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, nil, err
	}

	if price != nil {
		if !price.Valid() {
			return nil, nil, core.NewError(core.ErrInvalidPrice, "", price.CollateralPrice, "prices must be positive")
		}

		return market, price, nil
	}

	price, err = s.oracle.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}

	return market, price, nil
}

func (s *accountService) BorrowStatus(ctx context.Context, accountID string, price *core.PriceSnapshot) (core.HealthStatus, error) {
	loan, err := s.Loan(ctx, accountID, price)
	if err != nil {
		return core.HealthStatusClosed, err
	}

	return loan.Status, nil
}

func (s *accountService) Loan(ctx context.Context, accountID string, price *core.PriceSnapshot) (*core.Loan, error) {
	market, price, err := s.prepare(ctx, price)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return s.valuate(position, market, price), nil
}

func (s *accountService) AllLoans(ctx context.Context, price *core.PriceSnapshot) ([]*core.Loan, error) {
	market, price, err := s.prepare(ctx, price)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, err
	}

	loans := make([]*core.Loan, 0, len(positions))
	for _, p := range positions {
		loans = append(loans, s.valuate(p, market, price))
	}

	return loans, nil
}

// valuate with the maintenance fee accrued up to now, the stored position is untouched
func (s *accountService) valuate(p *core.Position, market *core.Market, price *core.PriceSnapshot) *core.Loan {
	now := s.now()
	p = p.Clone()
	compound.AccrueMaintenanceFee(p, market, now)
	return compound.Valuate(p, market, price, now)
}
