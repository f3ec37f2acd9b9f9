package borrow

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

type borrowService struct {
	ledger  *ledger.Ledger
	markets core.MarketService
	oracle  core.PriceOracle
	gateway core.AssetTransferGateway
	locker  *concurrency.KeyLocker
	metrics *metrics.LendingMetrics
	now     func() time.Time
}

// New new borrow service
//
// locker must be shared with every other service mutating positions.
func New(
	ledger *ledger.Ledger,
	markets core.MarketService,
	oracle core.PriceOracle,
	gateway core.AssetTransferGateway,
	locker *concurrency.KeyLocker,
) core.BorrowService {
	return &borrowService{
		ledger:  ledger,
		markets: markets,
		oracle:  oracle,
		gateway: gateway,
		locker:  locker,
		metrics: metrics.Lending(),
		now:     time.Now,
	}
}

func validate(accountID string, amount decimal.Decimal, traceID string) error {
	if govalidator.IsNull(accountID) {
		return core.NewError(core.ErrOperationForbidden, accountID, amount, "account required")
	}

	if !number.IsAmount(amount) {
		return core.NewError(core.ErrInvalidAmount, accountID, amount, "amount must be a positive integer")
	}

	if !govalidator.IsUUID(traceID) {
		return core.NewError(core.ErrOperationForbidden, accountID, amount, "trace_id must be an uuid")
	}

	return nil
}

func transferFailed(err error, accountID string, amount decimal.Decimal) error {
	if _, ok := err.(*core.Error); ok {
		return err
	}

	return core.WrapError(core.ErrAssetTransferFailed, accountID, amount, err)
}

// load current position of the account with its maintenance fee accrued, caller holds the lock
func (s *borrowService) load(ctx context.Context, market *core.Market, accountID string) (*core.Position, error) {
	position, err := s.ledger.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if fee := compound.AccrueMaintenanceFee(position, market, s.now()); fee.IsPositive() {
		logger.FromContext(ctx).WithField("fee", fee).Debugln("maintenance fee accrued")
	}

	return position, nil
}

func (s *borrowService) DepositCollateral(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (position *core.Position, err error) {
	defer func() { s.metrics.ObserveOperation("deposit", err) }()

	if err := validate(accountID, amount, traceID); err != nil {
		return nil, err
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"account": accountID,
		"amount":  amount,
		"trace":   traceID,
	})

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, accountID, amount); err != nil {
		return nil, err
	}

	transfer := &core.Transfer{
		TraceID:    traceID,
		OpponentID: accountID,
		AssetID:    market.CollateralAssetID,
		Amount:     amount,
		Memo:       core.MsgCollateralize,
	}
	if err := s.gateway.Collect(ctx, transfer); err != nil {
		s.metrics.ObserveTransferFailure("collect")
		log.WithError(err).Infoln("collect collateral")
		return nil, transferFailed(err, accountID, amount)
	}

	// collecting the same trace again confirms the same payment, a failed
	// credit is completed by retrying the deposit
	position, err = s.credit(ctx, market, accountID, amount, traceID)
	if err != nil {
		log.WithError(err).Errorln("credit collected collateral")
		return nil, err
	}

	return position, nil
}

func (s *borrowService) Credit(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (position *core.Position, err error) {
	defer func() { s.metrics.ObserveOperation("credit", err) }()

	if err := validate(accountID, amount, traceID); err != nil {
		return nil, err
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(accountID)
	defer unlock()

	return s.credit(ctx, market, accountID, amount, traceID)
}

// credit caller holds the account lock
func (s *borrowService) credit(ctx context.Context, market *core.Market, accountID string, amount decimal.Decimal, traceID string) (*core.Position, error) {
	position, err := s.load(ctx, market, accountID)
	if err != nil {
		return nil, err
	}

	position.Collateral = position.Collateral.Add(amount)

	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: accountID,
		AssetID:  market.CollateralAssetID,
		Amount:   amount,
		Msg:      core.MsgCollateralize,
	}
	if err := s.ledger.Commit(ctx, claim, position); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"account":    accountID,
		"collateral": position.Collateral,
	}).Infoln("collateral credited")
	return position, nil
}

func (s *borrowService) Borrow(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (position *core.Position, err error) {
	defer func() { s.metrics.ObserveOperation("borrow", err) }()

	if err := validate(accountID, amount, traceID); err != nil {
		return nil, err
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	if amount.LessThan(market.MinimumBorrowAmount) ||
		(market.MaximumBorrowAmount.IsPositive() && amount.GreaterThan(market.MaximumBorrowAmount)) {
		return nil, core.NewError(core.ErrBorrowOutOfRange, accountID, amount, "")
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"account": accountID,
		"amount":  amount,
		"trace":   traceID,
	})

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, accountID, amount); err != nil {
		return nil, err
	}

	price, err := s.oracle.Latest(ctx)
	if err != nil {
		log.WithError(err).Infoln("oracle.Latest")
		return nil, err
	}

	position, err = s.load(ctx, market, accountID)
	if err != nil {
		return nil, err
	}

	position.IncreaseDebt(compound.Liability(amount, market), s.now())
	if !compound.WithinCollateralFactor(position, market, price) {
		return nil, core.NewError(core.ErrInsufficientCollateral, accountID, amount, "")
	}

	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: accountID,
		AssetID:  market.BorrowAssetID,
		Amount:   amount,
		Msg:      core.MsgBorrow,
	}
	transfer := &core.Transfer{
		TraceID:    id.Derive(traceID, "borrow"),
		OpponentID: accountID,
		AssetID:    market.BorrowAssetID,
		Amount:     amount,
		Memo:       core.MsgBorrow,
	}
	if err := s.ledger.Commit(ctx, claim, position, transfer); err != nil {
		log.WithError(err).Errorln("ledger.Commit")
		return nil, err
	}

	log.WithField("debt", position.Debt).Infoln("borrowed")
	return position, nil
}

func (s *borrowService) Repay(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (result *core.RepayResult, err error) {
	defer func() { s.metrics.ObserveOperation("repay", err) }()

	if err := validate(accountID, amount, traceID); err != nil {
		return nil, err
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, accountID, amount); err != nil {
		return nil, err
	}

	position, err := s.load(ctx, market, accountID)
	if err != nil {
		return nil, err
	}

	if !position.Debt.IsPositive() {
		return nil, core.NewError(core.ErrOverRepayment, accountID, amount, "no outstanding debt")
	}

	applied := decimal.Min(amount, position.Debt)
	position.DecreaseDebt(applied)

	refund := amount.Sub(applied)
	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: accountID,
		AssetID:  market.BorrowAssetID,
		Amount:   amount,
		Msg:      core.MsgRepay,
		Refund:   refund,
	}

	var transfers []*core.Transfer
	if refund.IsPositive() {
		transfers = append(transfers, refundTransfer(traceID, accountID, market.BorrowAssetID, refund))
	}

	if err := s.ledger.Commit(ctx, claim, position, transfers...); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"account": accountID,
		"applied": applied,
		"refund":  refund,
		"debt":    position.Debt,
	}).Infoln("repaid")

	return &core.RepayResult{
		Applied:  applied,
		Refund:   refund,
		Position: position,
	}, nil
}

func (s *borrowService) Close(ctx context.Context, accountID string, traceID string) (position *core.Position, err error) {
	defer func() { s.metrics.ObserveOperation("close", err) }()

	if govalidator.IsNull(accountID) {
		return nil, core.NewError(core.ErrOperationForbidden, accountID, decimal.Zero, "account required")
	}

	if !govalidator.IsUUID(traceID) {
		return nil, core.NewError(core.ErrOperationForbidden, accountID, decimal.Zero, "trace_id must be an uuid")
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, accountID, decimal.Zero); err != nil {
		return nil, err
	}

	position, err = s.load(ctx, market, accountID)
	if err != nil {
		return nil, err
	}

	if position.Debt.IsPositive() {
		return nil, core.NewError(core.ErrOutstandingDebt, accountID, position.Debt, "")
	}

	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: accountID,
		AssetID:  market.CollateralAssetID,
		Amount:   position.Collateral,
		Msg:      core.MsgClose,
	}
	return s.close(ctx, market, position, claim)
}

func (s *borrowService) RepayAndClose(ctx context.Context, accountID string, amount decimal.Decimal, traceID string) (result *core.RepayResult, err error) {
	defer func() { s.metrics.ObserveOperation("repay_close", err) }()

	if err := validate(accountID, amount, traceID); err != nil {
		return nil, err
	}

	market, err := s.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(accountID)
	defer unlock()

	if err := s.ledger.Check(ctx, traceID, accountID, amount); err != nil {
		return nil, err
	}

	position, err := s.load(ctx, market, accountID)
	if err != nil {
		return nil, err
	}

	if amount.LessThan(position.Debt) {
		return nil, core.NewError(core.ErrOutstandingDebt, accountID, position.Debt.Sub(amount), "attached amount does not cover the debt")
	}

	applied := position.Debt
	refund := amount.Sub(applied)
	position.DecreaseDebt(applied)

	claim := &core.Snapshot{
		TraceID:  traceID,
		SenderID: accountID,
		AssetID:  market.BorrowAssetID,
		Amount:   amount,
		Msg:      core.MsgClose,
		Refund:   refund,
	}

	var transfers []*core.Transfer
	if refund.IsPositive() {
		transfers = append(transfers, refundTransfer(traceID, accountID, market.BorrowAssetID, refund))
	}

	closed, err := s.close(ctx, market, position, claim, transfers...)
	if err != nil {
		return nil, err
	}

	return &core.RepayResult{
		Applied:  applied,
		Refund:   refund,
		Position: closed,
	}, nil
}

// close queue the collateral of a debt-free position back to its owner and remove it
func (s *borrowService) close(ctx context.Context, market *core.Market, position *core.Position, claim *core.Snapshot, transfers ...*core.Transfer) (*core.Position, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"account":    position.AccountID,
		"collateral": position.Collateral,
		"trace":      claim.TraceID,
	})

	if collateral := position.Collateral; collateral.IsPositive() {
		transfers = append(transfers, &core.Transfer{
			TraceID:    id.Derive(claim.TraceID, "close"),
			OpponentID: position.AccountID,
			AssetID:    market.CollateralAssetID,
			Amount:     collateral,
			Memo:       core.MsgClose,
		})
	}

	position.Collateral = decimal.Zero
	position.DecreaseDebt(position.Debt)
	if err := s.ledger.Commit(ctx, claim, position, transfers...); err != nil {
		log.WithError(err).Errorln("ledger.Commit")
		return nil, err
	}

	log.Infoln("position closed")
	return position, nil
}

func refundTransfer(traceID, accountID, assetID string, amount decimal.Decimal) *core.Transfer {
	return &core.Transfer{
		TraceID:    id.Derive(traceID, "refund"),
		OpponentID: accountID,
		AssetID:    assetID,
		Amount:     amount,
		Memo:       core.MsgRefund,
	}
}
