package metrics

import (
	"errors"
	"fmt"
	"testing"

	"lending/core"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "StalePrice", Result(core.NewError(core.ErrStalePrice, "", decimal.Zero, "")))
	assert.Equal(t, "NotLiquidatable", Result(fmt.Errorf("wrap: %w", core.NewError(core.ErrNotLiquidatable, "a", decimal.Zero, ""))))
	assert.Equal(t, "Unknown", Result(errors.New("boom")))
}

func TestObserveOperation(t *testing.T) {
	m := Lending()
	before := testutil.ToFloat64(m.operations.WithLabelValues("borrow", "ok"))
	m.ObserveOperation("borrow", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(m.operations.WithLabelValues("borrow", "ok")))

	var nilMetrics *LendingMetrics
	nilMetrics.ObserveOperation("borrow", nil)
}
