package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := NewError(ErrInsufficientCollateral, "alice", decimal.NewFromInt(600), "max 500")
	assert.Equal(t, "InsufficientCollateral(100104): account=alice amount=600 max 500", err.Error())

	wrapped := fmt.Errorf("borrow: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInsufficientCollateral))
	assert.False(t, errors.Is(wrapped, ErrStalePrice))

	var e *Error
	assert.True(t, errors.As(wrapped, &e))
	assert.Equal(t, "alice", e.AccountID)

	cause := errors.New("timeout")
	err = WrapError(ErrAssetTransferFailed, "bob", decimal.NewFromInt(1), cause)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrAssetTransferFailed))

	assert.Equal(t, "Unknown", ErrorCode(1).Name())
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(NewError(ErrNotLiquidatable, "alice", decimal.NewFromInt(10), "")))
	assert.True(t, IsRejection(fmt.Errorf("payee: %w", NewError(ErrTraceApplied, "alice", decimal.Zero, ""))))

	assert.False(t, IsRejection(WrapError(ErrUnknown, "alice", decimal.Zero, errors.New("version conflict"))))
	assert.False(t, IsRejection(WrapError(ErrAssetTransferFailed, "alice", decimal.Zero, errors.New("timeout"))))
	assert.False(t, IsRejection(errors.New("db closed")))
}
