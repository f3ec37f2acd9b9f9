package snapshot

import (
	"context"
	"errors"
	"testing"

	"lending/core"
	"lending/pkg/id"
	"lending/store/storetest"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	s := New(database)

	trace := id.GenTraceID()
	snapshot := &core.Snapshot{
		TraceID:  trace,
		SenderID: "alice",
		Amount:   decimal.NewFromInt(100),
		Msg:      core.MsgRepay,
	}

	claimed, err := s.Claim(ctx, database, snapshot)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = s.Claim(ctx, database, &core.Snapshot{TraceID: trace})
	require.NoError(t, err)
	assert.False(t, claimed)

	found, err := s.Find(ctx, trace)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.SenderID)
	assert.Equal(t, "100", found.Amount.String())

	missing, err := s.Find(ctx, id.GenTraceID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClaimRolledBack(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	s := New(database)

	trace := id.GenTraceID()
	err := database.Tx(func(tx *db.DB) error {
		claimed, err := s.Claim(ctx, tx, &core.Snapshot{TraceID: trace})
		require.NoError(t, err)
		require.True(t, claimed)
		return errors.New("abort")
	})
	assert.Error(t, err)

	found, _ := s.Find(ctx, trace)
	assert.Nil(t, found)

	claimed, err := s.Claim(ctx, database, &core.Snapshot{TraceID: trace})
	require.NoError(t, err)
	assert.True(t, claimed)
}
