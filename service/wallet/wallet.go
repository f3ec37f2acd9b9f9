package wallet

import (
	"context"
	"time"

	"lending/core"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Precision mixin amounts carry 8 decimal places, ledger amounts are in 1e-8 units
const Precision int32 = 8

// Units ledger amount of a mixin amount, sub-unit dust is dropped
func Units(amount decimal.Decimal) decimal.Decimal {
	return amount.Shift(Precision).Truncate(0)
}

// Amount mixin amount of ledger units
func Amount(units decimal.Decimal) decimal.Decimal {
	return units.Shift(-Precision)
}

// New new wallet service, it is the market's transfer gateway and inbound transfer source
func New(wallet *core.Wallet) *Service {
	return &Service{wallet: wallet}
}

// Service mixin wallet service
type Service struct {
	wallet *core.Wallet
}

var (
	_ core.AssetTransferGateway = (*Service)(nil)
	_ core.TransferSource       = (*Service)(nil)
)

func (s *Service) input(transfer *core.Transfer) mixin.TransferInput {
	return mixin.TransferInput{
		AssetID:    transfer.AssetID,
		OpponentID: transfer.OpponentID,
		Amount:     Amount(transfer.Amount),
		TraceID:    transfer.TraceID,
		Memo:       transfer.Memo,
	}
}

// Collect the payment with transfer.TraceID must have been paid to the market
func (s *Service) Collect(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"trace":  transfer.TraceID,
		"asset":  transfer.AssetID,
		"amount": transfer.Amount,
	})

	input := s.input(transfer)
	// payments are addressed to the market
	input.OpponentID = s.wallet.Client.ClientID

	payment, err := s.wallet.Client.VerifyPayment(ctx, input)
	if err != nil {
		log.WithError(err).Errorln("VerifyPayment")
		return core.WrapError(core.ErrAssetTransferFailed, transfer.OpponentID, transfer.Amount, err)
	}

	if payment.Status != "paid" {
		log.Infoln("payment status", payment.Status)
		return core.NewError(core.ErrAssetTransferFailed, transfer.OpponentID, transfer.Amount, "payment "+payment.Status)
	}

	return nil
}

// Send transfer from the market, retries with the same trace id never pay twice
func (s *Service) Send(ctx context.Context, transfer *core.Transfer) error {
	input := s.input(transfer)
	if _, err := s.wallet.Client.Transfer(ctx, &input, s.wallet.Pin); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("trace", transfer.TraceID).Errorln("Transfer")
		return core.WrapError(core.ErrAssetTransferFailed, transfer.OpponentID, transfer.Amount, err)
	}

	return nil
}

// Pull inbound transfers of the market, cursor is a RFC3339Nano time
func (s *Service) Pull(ctx context.Context, cursor string, limit int) ([]*core.TransferNotification, string, error) {
	offset, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		offset = time.Now().UTC()
	}

	snapshots, err := s.wallet.Client.ReadNetworkSnapshots(ctx, "", offset, "ASC", limit)
	if err != nil {
		return nil, cursor, err
	}

	out := make([]*core.TransferNotification, 0, len(snapshots))
	for _, snapshot := range snapshots {
		offset = snapshot.CreatedAt
		if n, ok := convertSnapshot(snapshot, s.wallet.Client.ClientID); ok {
			out = append(out, n)
		}
	}

	return out, offset.Format(time.RFC3339Nano), nil
}

// PaySchemaURL mixin pay url of a transfer to the market
func (s *Service) PaySchemaURL(ctx context.Context, transfer *core.Transfer) (string, error) {
	input := s.input(transfer)
	input.OpponentID = s.wallet.Client.ClientID

	payment, err := s.wallet.Client.VerifyPayment(ctx, input)
	if err != nil {
		return "", err
	}

	return mixin.URL.Codes(payment.CodeID), nil
}

func convertSnapshot(snapshot *mixin.Snapshot, clientID string) (*core.TransferNotification, bool) {
	// incoming transfers of the market only
	if snapshot.UserID != clientID || !snapshot.Amount.IsPositive() {
		return nil, false
	}

	return &core.TransferNotification{
		SnapshotID: snapshot.SnapshotID,
		TraceID:    snapshot.TraceID,
		SenderID:   snapshot.OpponentID,
		AssetID:    snapshot.AssetID,
		Amount:     Units(snapshot.Amount),
		Msg:        snapshot.Memo,
		CreatedAt:  snapshot.CreatedAt,
	}, true
}
