package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeNoop    = "noop"
)

// Metrics records cart operation outcomes and inventory latency.
type Metrics struct {
	operations *prometheus.CounterVec
	inventory  *prometheus.HistogramVec
}

// New registers the cart metrics on the provided registerer. A nil
// registerer yields a Metrics that records nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by operation and outcome.",
	}, []string{"op", "outcome"})
	inventory := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_inventory_request_duration_seconds",
		Help:    "Duration of inventory service requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(operations, inventory)
	return &Metrics{
		operations: operations,
		inventory:  inventory,
	}
}

// ObserveOperation counts one cart operation. outcome is OutcomeSuccess,
// OutcomeNoop or an error kind.
func (m *Metrics) ObserveOperation(op, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func (m *Metrics) ObserveInventoryRequest(endpoint string, d time.Duration) {
	if m == nil || m.inventory == nil {
		return
	}
	m.inventory.WithLabelValues(normalizeLabel(endpoint)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
