package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/monitor/pkg/metrics"
)

// Outcome labels recorded per call.
const (
	statusOK        = "ok"
	statusEmpty     = "empty"
	statusTransport = "transport_error"
)

// Metrics records classifier call latency and outcomes.
// A nil *Metrics records nothing.
type Metrics struct {
	calls   *prometheus.CounterVec
	latency prometheus.Histogram
}

// NewMetrics registers classifier collectors through factory.
func NewMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "classifier",
			Name:      "calls_total",
			Help:      "Classifier calls by outcome.",
		}, []string{"status"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "classifier",
			Name:      "call_duration_seconds",
			Help:      "Classifier call latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) observe(status string, seconds float64) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(status).Inc()
	m.latency.Observe(seconds)
}
