package transfer

import (
	"context"
	"errors"
	"testing"

	"lending/core"
	"lending/pkg/id"
	"lending/store/storetest"
	transferstore "lending/store/transfer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Collect(ctx context.Context, transfer *core.Transfer) error {
	return m.Called(transfer).Error(0)
}

func (m *mockGateway) Send(ctx context.Context, transfer *core.Transfer) error {
	return m.Called(transfer).Error(0)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	transfers := transferstore.New(database)

	var queued []*core.Transfer
	for _, opponent := range []string{"alice", "bob"} {
		transfer := &core.Transfer{
			TraceID:    id.GenTraceID(),
			OpponentID: opponent,
			AssetID:    "usdt",
			Amount:     decimal.NewFromInt(100),
			Memo:       "borrow",
		}
		require.NoError(t, transfers.Create(ctx, database, transfer))
		queued = append(queued, transfer)
	}

	gateway := &mockGateway{}
	gateway.On("Send", mock.MatchedBy(func(transfer *core.Transfer) bool {
		return transfer.OpponentID == "alice"
	})).Return(errors.New("network")).Once()
	gateway.On("Send", mock.Anything).Return(nil)

	w := New(transfers, gateway)

	// alice fails, bob is still sent
	assert.EqualError(t, w.run(ctx), "network")

	pending, err := transfers.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, queued[0].TraceID, pending[0].TraceID)

	// the retry sends the same trace again
	require.NoError(t, w.run(ctx))
	assert.ErrorIs(t, w.run(ctx), errNoPendingTransfers)

	gateway.AssertNumberOfCalls(t, "Send", 3)
	gateway.AssertCalled(t, "Send", mock.MatchedBy(func(transfer *core.Transfer) bool {
		return transfer.TraceID == queued[0].TraceID && transfer.Amount.Equal(decimal.NewFromInt(100))
	}))

	sent, err := transfers.Find(ctx, queued[1].TraceID)
	require.NoError(t, err)
	assert.Equal(t, core.TransferStatusDone, sent.Status)
}
