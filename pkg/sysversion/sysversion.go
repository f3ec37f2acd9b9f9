package sysversion

import (
	"context"
	"fmt"

	"github.com/fox-one/pkg/property"
)

const (
	SysVersionKey = "sysversion"

	// Current schema version written by migrate
	Current int64 = 1
)

func ReadSysVersion(ctx context.Context, property property.Store) (int64, error) {
	v, err := property.Get(ctx, SysVersionKey)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// WriteSysVersion mark the database as migrated to Current
func WriteSysVersion(ctx context.Context, property property.Store) error {
	return property.Save(ctx, SysVersionKey, Current)
}

// Check the database has been migrated to Current
func Check(ctx context.Context, property property.Store) error {
	ver, err := ReadSysVersion(ctx, property)
	if err != nil {
		return err
	}

	if ver < Current {
		return fmt.Errorf("database at version %d, run migrate to upgrade to %d", ver, Current)
	}

	return nil
}
