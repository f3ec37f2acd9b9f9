// Package storetest opens throwaway databases migrated with every registered store
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/require"
)

// Open sqlite database in a temporary directory, closed when t ends
func Open(t testing.TB) *db.DB {
	t.Helper()

	database, err := db.Open(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "lending.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, db.Migrate(database))
	return database
}
