// Package metrics owns the Prometheus registry the service exposes on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/monitor/pkg/middleware"
)

// Namespace prefixes every collector registered through a System.
const Namespace = "monitor"

// System holds a private registry plus the HTTP request collectors.
// Domain packages register their own collectors through Factory.
type System interface {
	// Factory returns a promauto factory bound to the registry.
	Factory() promauto.Factory
	// Handler serves the registry in the Prometheus exposition format.
	Handler() http.Handler
	// Middleware records request counts and latency by method and status.
	Middleware() func(http.Handler) http.Handler
}

type system struct {
	registry *prometheus.Registry
	factory  promauto.Factory
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New creates a System with Go runtime and process collectors registered.
func New() System {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &system{
		registry: reg,
		factory:  factory,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method and status code.",
		}, []string{"method", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (s *system) Factory() promauto.Factory {
	return s.factory
}

func (s *system) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func (s *system) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			s.requests.WithLabelValues(r.Method, strconv.Itoa(rec.Status)).Inc()
			s.latency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
