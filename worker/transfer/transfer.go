package transfer

import (
	"context"
	"errors"
	"time"

	"lending/core"
	"lending/pkg/metrics"

	"github.com/cenkalti/backoff/v5"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

const limit = 100

// Worker sends queued outbound transfers
//
// Transfers are queued with the ledger change paying them. Sending the same
// trace twice never pays twice, so a transfer sent but not marked done is
// simply sent again.
type Worker struct {
	transfers core.TransferStore
	gateway   core.AssetTransferGateway
	metrics   *metrics.LendingMetrics
}

// New new transfer worker
func New(transfers core.TransferStore, gateway core.AssetTransferGateway) *Worker {
	return &Worker{
		transfers: transfers,
		gateway:   gateway,
		metrics:   metrics.Lending(),
	}
}

// Run send pending transfers until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "transfer")
	ctx = logger.WithContext(ctx, log)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = time.Minute

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err != nil {
				if !errors.Is(err, errNoPendingTransfers) {
					log.WithError(err).Warnln("run")
				}
				dur = b.NextBackOff()
			} else {
				b.Reset()
				dur = time.Second
			}
		}
	}
}

var errNoPendingTransfers = errors.New("no pending transfers")

func (w *Worker) run(ctx context.Context) error {
	transfers, err := w.transfers.Top(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfers.Top")
		return err
	}

	if len(transfers) == 0 {
		return errNoPendingTransfers
	}

	var failed error
	for _, transfer := range transfers {
		if err := w.handleTransfer(ctx, transfer); err != nil {
			failed = err
		}
	}

	return failed
}

// handleTransfer send one transfer, a failed one stays pending
func (w *Worker) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"trace":    transfer.TraceID,
		"opponent": transfer.OpponentID,
		"asset":    transfer.AssetID,
		"amount":   transfer.Amount,
	})

	if err := w.gateway.Send(ctx, transfer); err != nil {
		w.metrics.ObserveTransferFailure("send")
		log.WithError(err).Errorln("gateway.Send")
		return err
	}

	if err := w.transfers.UpdateStatus(ctx, transfer.ID, core.TransferStatusDone); err != nil {
		log.WithError(err).Errorln("transfers.UpdateStatus")
		return err
	}

	log.Infoln("transfer sent")
	return nil
}
