package analyses

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/monitor/pkg/metrics"
)

// Metrics counts cache lookups and skipped or failed writes.
// A nil *Metrics records nothing.
type Metrics struct {
	lookups *prometheus.CounterVec
	skipped *prometheus.CounterVec
}

// NewMetrics registers analysis collectors through factory.
func NewMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "analyses",
			Name:      "lookups_total",
			Help:      "Stored-answer lookups by result (hit or miss).",
		}, []string{"result"}),
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "analyses",
			Name:      "unpersisted_total",
			Help:      "Fresh classifications that were not stored, by reason.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) lookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) unpersisted(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}
