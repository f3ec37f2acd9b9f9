package transfer

import (
	"context"
	"errors"
	"testing"

	"lending/core"
	"lending/pkg/id"
	"lending/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferStore(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	s := New(database)

	var traces []string
	for i := 0; i < 3; i++ {
		transfer := &core.Transfer{
			TraceID:    id.GenTraceID(),
			OpponentID: "alice",
			AssetID:    "usdt",
			Amount:     decimal.NewFromInt(int64(i + 1)),
		}
		require.NoError(t, s.Create(ctx, database, transfer))
		assert.Equal(t, core.TransferStatusPending, transfer.Status)
		traces = append(traces, transfer.TraceID)
	}

	err := s.Create(ctx, database, &core.Transfer{TraceID: traces[0], Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, core.ErrTraceApplied))

	top, err := s.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, traces[0], top[0].TraceID)
	assert.Equal(t, traces[1], top[1].TraceID)

	require.NoError(t, s.UpdateStatus(ctx, top[0].ID, core.TransferStatusDone))
	top, _ = s.Top(ctx, 10)
	require.Len(t, top, 2)
	assert.Equal(t, traces[1], top[0].TraceID)

	_, err = s.Top(ctx, 0)
	assert.Error(t, err)

	found, err := s.Find(ctx, traces[0])
	require.NoError(t, err)
	assert.Equal(t, core.TransferStatusDone, found.Status)
	assert.Equal(t, "1", found.Amount.String())
}
