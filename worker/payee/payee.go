package payee

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"lending/core"
	"lending/internal/ledger"
	"lending/pkg/id"
	"lending/pkg/metrics"

	"github.com/cenkalti/backoff/v5"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/yiplee/structs"
)

const (
	checkpointKey = "payee_snapshots_checkpoint"
	limit         = 500
)

// Payee applies inbound transfers of the market wallet
type Payee struct {
	source       core.TransferSource
	ledger       *ledger.Ledger
	snapshots    core.SnapshotStore
	property     property.Store
	markets      core.MarketService
	borrows      core.BorrowService
	liquidations core.LiquidationService
	metrics      *metrics.LendingMetrics
}

var _ core.TransferReceiver = (*Payee)(nil)

// New new payee worker
func New(
	source core.TransferSource,
	ledger *ledger.Ledger,
	snapshots core.SnapshotStore,
	propertyStore property.Store,
	markets core.MarketService,
	borrows core.BorrowService,
	liquidations core.LiquidationService,
) *Payee {
	return &Payee{
		source:       source,
		ledger:       ledger,
		snapshots:    snapshots,
		property:     propertyStore,
		markets:      markets,
		borrows:      borrows,
		liquidations: liquidations,
		metrics:      metrics.Lending(),
	}
}

// Run poll the wallet until ctx is done
func (w *Payee) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "payee")
	ctx = logger.WithContext(ctx, log)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err != nil {
				if !errors.Is(err, errNoMoreTransfers) {
					log.WithError(err).Warnln("run")
				}
				dur = b.NextBackOff()
			} else {
				b.Reset()
				dur = 100 * time.Millisecond
			}
		}
	}
}

var errNoMoreTransfers = errors.New("no more transfers")

func (w *Payee) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	v, err := w.property.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get")
		return err
	}

	cursor := v.String()
	transfers, next, err := w.source.Pull(ctx, cursor, limit)
	if err != nil {
		log.WithError(err).Errorln("source.Pull")
		return err
	}

	for _, n := range transfers {
		if err := w.handleTransfer(ctx, n); err != nil {
			return err
		}
	}

	if next != cursor {
		if err := w.property.Save(ctx, checkpointKey, next); err != nil {
			log.WithError(err).Errorln("property.Save:", next)
			return err
		}
	}

	if len(transfers) == 0 {
		return errNoMoreTransfers
	}

	return nil
}

type transferFields struct {
	Snapshot string `json:"snapshot"`
	Trace    string `json:"trace"`
	Sender   string `json:"sender"`
	Asset    string `json:"asset"`
	Amount   string `json:"amount"`
	Msg      string `json:"msg"`
}

// handleTransfer apply n once, or queue it back to the sender when rejected
//
// The change n causes, or its refund, commits with the claim of its trace.
// Any other failure leaves the trace unclaimed and n is retried.
func (w *Payee) handleTransfer(ctx context.Context, n *core.TransferNotification) error {
	log := logger.FromContext(ctx).WithFields(structs.Map(transferFields{
		Snapshot: n.SnapshotID,
		Trace:    n.TraceID,
		Sender:   n.SenderID,
		Asset:    n.AssetID,
		Amount:   n.Amount.String(),
		Msg:      n.Msg,
	}))
	ctx = logger.WithContext(ctx, log)

	snapshot, err := w.snapshots.Find(ctx, n.TraceID)
	if err != nil {
		log.WithError(err).Errorln("snapshots.Find")
		return err
	}

	if snapshot != nil {
		return nil
	}

	err = w.OnTransfer(ctx, n)
	switch {
	case err == nil, errors.Is(err, core.ErrTraceApplied):
		return nil
	case core.IsRejection(err):
		log.WithError(err).Infoln("transfer rejected")
		return w.refund(ctx, n, err)
	default:
		log.WithError(err).Errorln("apply transfer")
		return err
	}
}

// refund claim the trace of a rejected n and queue the whole amount back
func (w *Payee) refund(ctx context.Context, n *core.TransferNotification, reason error) error {
	claim := &core.Snapshot{
		SnapshotID: n.SnapshotID,
		TraceID:    n.TraceID,
		SenderID:   n.SenderID,
		AssetID:    n.AssetID,
		Amount:     n.Amount,
		Msg:        truncate(n.Msg, 255),
		Error:      truncate(reason.Error(), 255),
		CreatedAt:  n.CreatedAt,
	}

	var transfers []*core.Transfer
	if n.Amount.IsPositive() {
		claim.Refund = n.Amount
		transfers = append(transfers, &core.Transfer{
			TraceID:    id.Derive(n.TraceID, core.MsgRefund),
			OpponentID: n.SenderID,
			AssetID:    n.AssetID,
			Amount:     n.Amount,
			Memo:       core.MsgRefund,
		})
	}

	if err := w.ledger.Commit(ctx, claim, nil, transfers...); err != nil {
		if errors.Is(err, core.ErrTraceApplied) {
			return nil
		}

		logger.FromContext(ctx).WithError(err).Errorln("ledger.Commit refund")
		return err
	}

	logger.FromContext(ctx).WithField("refund", claim.Refund).Infoln("refund queued")
	return nil
}

// OnTransfer apply the msg of an inbound transfer under its trace
//
// Excess repayments are queued back by the borrow service, rejections are
// returned as errors for the caller to refund.
func (w *Payee) OnTransfer(ctx context.Context, n *core.TransferNotification) (err error) {
	var msgType core.MessageType
	defer func() { w.metrics.ObserveInbound(msgType.String(), err) }()

	if !n.Amount.IsPositive() {
		return core.NewError(core.ErrInvalidAmount, n.SenderID, n.Amount, "")
	}

	market, err := w.markets.Configuration(ctx)
	if err != nil {
		return err
	}

	msg, err := core.ParseTransferMessage(n.Msg)
	if err != nil {
		return err
	}
	msgType = msg.Type

	asset := market.BorrowAssetID
	if msg.Type == core.MessageTypeCollateralize {
		asset = market.CollateralAssetID
	}

	if n.AssetID != asset {
		return core.NewError(core.ErrUnsupportedAsset, n.SenderID, n.Amount, "asset "+n.AssetID+" for "+msg.Type.String())
	}

	switch msg.Type {
	case core.MessageTypeCollateralize:
		_, err = w.borrows.Credit(ctx, n.SenderID, n.Amount, n.TraceID)
	case core.MessageTypeRepay:
		_, err = w.borrows.Repay(ctx, n.SenderID, n.Amount, n.TraceID)
	case core.MessageTypeClose:
		_, err = w.borrows.RepayAndClose(ctx, n.SenderID, n.Amount, n.TraceID)
	case core.MessageTypeLiquidate:
		_, err = w.liquidations.Liquidate(ctx, n.SenderID, msg.AccountID, n.Amount, n.TraceID)
	default:
		err = core.NewError(core.ErrUnparseableMessage, n.SenderID, n.Amount, "")
	}

	return err
}

// truncate s to at most n bytes without splitting a character
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
