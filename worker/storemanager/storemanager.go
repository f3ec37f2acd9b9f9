package storemanager

import (
	"context"
	"time"

	"lending/core"

	"github.com/fox-one/pkg/logger"
)

const interval = 10 * time.Minute

// Worker prunes sent transfers and claimed traces past the retention
type Worker struct {
	transfers core.TransferStore
	snapshots core.SnapshotStore
	retention time.Duration
}

// New new store manager worker, retention 0 keeps everything
func New(transfers core.TransferStore, snapshots core.SnapshotStore, retention time.Duration) *Worker {
	return &Worker{
		transfers: transfers,
		snapshots: snapshots,
		retention: retention,
	}
}

// Run prune every interval until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "storemanager")
	ctx = logger.WithContext(ctx, log)

	if w.retention <= 0 {
		log.Infoln("retention disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			_ = w.run(ctx, time.Now())
			dur = interval
		}
	}
}

// run delete records created before now - retention
//
// A trace pruned here could be applied again, so the retention must
// outlast any redelivery of the same trace.
func (w *Worker) run(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)
	checkpoint := now.Add(-w.retention)

	if err := w.transfers.DeleteByTime(checkpoint); err != nil {
		log.WithError(err).Errorln("transfers.DeleteByTime")
		return err
	}

	if err := w.snapshots.DeleteByTime(checkpoint); err != nil {
		log.WithError(err).Errorln("snapshots.DeleteByTime")
		return err
	}

	return nil
}
