package position

import (
	"context"
	"errors"
	"testing"
	"time"

	"lending/core"
	"lending/store/storetest"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionStore(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	s := New(database)

	t.Run("find missing", func(t *testing.T) {
		p, err := s.Find(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, p.Exists())
		assert.True(t, p.IsClosed())
	})

	t.Run("create and update", func(t *testing.T) {
		p, _ := s.Find(ctx, "alice")
		p.Collateral = decimal.NewFromInt(1000)
		require.NoError(t, s.Save(ctx, database, p))
		assert.True(t, p.Exists())

		now := time.Now()
		p.IncreaseDebt(decimal.NewFromInt(500), now)
		require.NoError(t, s.Save(ctx, database, p))
		assert.Equal(t, int64(1), p.Version)

		stored, err := s.Find(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "1000", stored.Collateral.String())
		assert.Equal(t, "500", stored.Debt.String())
		assert.Equal(t, int64(1), stored.Version)
		require.NotNil(t, stored.BorrowedAt)
		assert.Equal(t, now.Unix(), stored.BorrowedAt.Unix())
	})

	t.Run("stale version", func(t *testing.T) {
		first, _ := s.Find(ctx, "alice")
		second, _ := s.Find(ctx, "alice")

		first.Collateral = decimal.NewFromInt(1100)
		require.NoError(t, s.Save(ctx, database, first))

		second.Collateral = decimal.NewFromInt(900)
		err := s.Save(ctx, database, second)
		assert.True(t, errors.Is(err, ErrVersionConflict))

		stored, _ := s.Find(ctx, "alice")
		assert.Equal(t, "1100", stored.Collateral.String())
	})

	t.Run("rolled back", func(t *testing.T) {
		p, _ := s.Find(ctx, "alice")
		err := database.Tx(func(tx *db.DB) error {
			p.Collateral = decimal.NewFromInt(1)
			if err := s.Save(ctx, tx, p); err != nil {
				return err
			}

			return errors.New("abort")
		})
		assert.EqualError(t, err, "abort")

		stored, _ := s.Find(ctx, "alice")
		assert.Equal(t, "1100", stored.Collateral.String())
	})

	t.Run("delete guard", func(t *testing.T) {
		p, _ := s.Find(ctx, "alice")
		err := s.Delete(ctx, database, p)
		assert.True(t, errors.Is(err, core.ErrOperationForbidden))

		stale := p.Clone()
		stale.Version--
		stale.Collateral = decimal.Zero
		stale.DecreaseDebt(stale.Debt)
		assert.True(t, errors.Is(s.Delete(ctx, database, stale), ErrVersionConflict))

		positions, _ := s.List(ctx)
		assert.Len(t, positions, 1)
	})

	t.Run("closed position is deleted", func(t *testing.T) {
		p, _ := s.Find(ctx, "alice")
		p.Collateral = decimal.Zero
		p.DecreaseDebt(p.Debt)
		assert.Nil(t, p.BorrowedAt)
		require.NoError(t, s.Save(ctx, database, p))
		assert.False(t, p.Exists())

		positions, _ := s.List(ctx)
		assert.Empty(t, positions)

		// nothing to delete for a position never saved
		require.NoError(t, s.Save(ctx, database, core.NewPosition("bob")))
	})
}

func TestPositionStoreListPage(t *testing.T) {
	ctx := context.Background()
	database := storetest.Open(t)
	s := New(database)

	for _, account := range []string{"carol", "alice", "bob"} {
		p := core.NewPosition(account)
		p.Collateral = decimal.NewFromInt(1)
		require.NoError(t, s.Save(ctx, database, p))
	}

	positions, err := s.ListPage(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "bob", positions[0].AccountID)

	positions, err = s.ListPage(ctx, -1, 10)
	require.NoError(t, err)
	assert.Len(t, positions, 3)
}
