package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts ledger operations by kind.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger counters on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Ledger operations committed, by operation kind.",
	}, []string{"operation"})
	reg.MustRegister(operations)
	return &LedgerMetrics{operations: operations}
}

// IncOperation increments the counter for the named operation.
func (m *LedgerMetrics) IncOperation(operation string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
