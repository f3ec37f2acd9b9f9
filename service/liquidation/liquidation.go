package liquidation

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/compound"
	"lending/internal/ledger"
	"lending/pkg/concurrency"
	"lending/pkg/id"
	"lending/pkg/metrics"
	"lending/pkg/number"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type liquidationService struct {
	ledger  *ledger.Ledger
	markets core.MarketService
	oracle  core.PriceOracle
	locker  *concurrency.KeyLocker
	metrics *metrics.LendingMetrics
	now     func() time.Time
}

// New new liquidation service, locker is the one shared with the borrow service
func New(
	ledger *ledger.Ledger,
	markets core.MarketService,
	oracle core.PriceOracle,
	locker *concurrency.KeyLocker,
) core.LiquidationService {
	return &liquidationService{
		ledger:  ledger,
		markets: markets,
		oracle:  oracle,
		locker:  locker,
		metrics: metrics.Lending(),
		now:     time.Now,
	}
}

// Liquidate repay amount of the account's debt in exchange for its collateral
//
// The repayment and the queued seize commit together, or nothing changes
// and the caller must return amount to the liquidator.
func (s *liquidationService) Liquidate(ctx context.Context, liquidatorID, accountID string, amount decimal.Decimal, traceID string) (liquidation *core.Liquidation, err error) {
	defer func() { s.metrics.ObserveOperation("liquidate", err) }()

	if govalidator.IsNull(accountID) || govalidator.IsNull(liquidatorID) {
		return nil, core.NewError(core.ErrOperationForbidden, accountID, amount, "account and liquidator required")
	}

	if !number.IsAmount(amount) {
		return nil, core.NewError(core.ErrInvalidAmount, accountID, amount, "amount must be a positive integer")
	}

	if !govalidator.IsUUID(traceID) {
		return nil, core.NewError(core.ErrOperationForbidden, accountID, amount, "trace_id must be an uuid")
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"account":    accountID,
		"liquidator": liquidatorID,
		"amount":     amount,
		"trace":      traceID,
	})

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, liquidatorID, amount); err != nil {
		return nil, err
	}

	price, err := s.oracle.Latest(ctx)
	if err != nil {
		log.WithError(err).Infoln("oracle.Latest")
		return nil, err
	}

	position, err := s.ledger.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	compound.AccrueMaintenanceFee(position, market, now)

	if status := compound.Status(position, market, price, now); status != core.HealthStatusLiquidation {
		return nil, core.NewError(core.ErrNotLiquidatable, accountID, amount, "status "+status.String())
	}

	if amount.GreaterThan(position.Debt) {
		return nil, core.NewError(core.ErrExcessiveLiquidationAmount, accountID, amount, "repay exceeds debt "+position.Debt.String())
	}

	spread := compound.Spread(position, market, price)
	seized := compound.SeizeCollateral(amount, spread, price)
	if seized.GreaterThan(position.Collateral) {
		// an underwater account can only be settled by repaying all of its debt
		if !amount.Equal(position.Debt) {
			return nil, core.NewError(core.ErrExcessiveLiquidationAmount, accountID, amount, "seize exceeds collateral "+position.Collateral.String())
		}

		seized = position.Collateral
	}

	if !seized.IsPositive() {
		return nil, core.NewError(core.ErrInvalidAmount, accountID, amount, "repay too small to seize collateral")
	}

	position.DecreaseDebt(amount)
	position.Collateral = position.Collateral.Sub(seized)

	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: liquidatorID,
		AssetID:  market.BorrowAssetID,
		Amount:   amount,
		Msg:      core.LiquidateMessage(accountID),
	}
	transfer := &core.Transfer{
		TraceID:    id.Derive(traceID, core.MsgLiquidate),
		OpponentID: liquidatorID,
		AssetID:    market.CollateralAssetID,
		Amount:     seized,
		Memo:       core.LiquidateMessage(accountID),
	}
	if err := s.ledger.Commit(ctx, claim, position, transfer); err != nil {
		log.WithError(err).Errorln("ledger.Commit")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"seized": seized,
		"spread": spread,
		"debt":   position.Debt,
	}).Infoln("liquidated")

	return &core.Liquidation{
		AccountID:    accountID,
		LiquidatorID: liquidatorID,
		Repaid:       amount,
		Seized:       seized,
		Spread:       spread,
		Position:     position,
	}, nil
}
