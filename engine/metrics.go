package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	operations  *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	feesCharged *prometheus.CounterVec
}

// NewMetrics creates and registers the engine's collectors against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sendswap",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Pool operations by kind and result.",
			},
			[]string{"op", "result"},
		),
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sendswap",
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Wall time spent executing pool operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		feesCharged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sendswap",
				Subsystem: "engine",
				Name:      "swap_fees_total",
				Help:      "Cumulative swap fees routed to fee recipients, by pool.",
			},
			[]string{"pool"},
		),
	}
	reg.MustRegister(m.operations, m.opDuration, m.feesCharged)
	return m
}

func (m *Metrics) observe(op OperationKind, err error, seconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(string(op), result).Inc()
	m.opDuration.WithLabelValues(string(op)).Observe(seconds)
}
