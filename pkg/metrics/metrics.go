package metrics

import (
	"errors"
	"sync"

	"lending/core"

	"github.com/prometheus/client_golang/prometheus"
)

// LendingMetrics counters of the market operations
type LendingMetrics struct {
	operations *prometheus.CounterVec
	transfers  *prometheus.CounterVec
	inbound    *prometheus.CounterVec
}

var (
	lendingOnce     sync.Once
	lendingRegistry *LendingMetrics
)

// Lending metrics registered on the default registry
func Lending() *LendingMetrics {
	lendingOnce.Do(func() {
		lendingRegistry = &LendingMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_operations_total",
				Help: "Count of market operations by operation and result kind.",
			}, []string{"operation", "result"}),
			transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_transfer_failures_total",
				Help: "Count of failed external transfers by direction.",
			}, []string{"direction"}),
			inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_inbound_transfers_total",
				Help: "Count of inbound transfer notifications by msg type and result kind.",
			}, []string{"msg", "result"}),
		}
		prometheus.MustRegister(
			lendingRegistry.operations,
			lendingRegistry.transfers,
			lendingRegistry.inbound,
		)
	})
	return lendingRegistry
}

// Result label of err, ok for nil
func Result(err error) string {
	if err == nil {
		return "ok"
	}

	var e *core.Error
	if errors.As(err, &e) {
		return e.Code.Name()
	}

	return core.ErrUnknown.Name()
}

// ObserveOperation count one operation outcome
func (m *LendingMetrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveTransferFailure count a failed collect or send
func (m *LendingMetrics) ObserveTransferFailure(direction string) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(direction).Inc()
}

// ObserveInbound count one handled inbound notification
func (m *LendingMetrics) ObserveInbound(msg string, err error) {
	if m == nil {
		return
	}
	if msg == "" {
		msg = "unknown"
	}
	m.inbound.WithLabelValues(msg, Result(err)).Inc()
}
