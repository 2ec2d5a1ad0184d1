package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the dashboard's collectors on a private Prometheus registry.
type Registry struct {
	reg             *prometheus.Registry
	backendDuration *prometheus.HistogramVec
	backendFailures *prometheus.CounterVec
	backendRetries  *prometheus.CounterVec
	staleResponses  *prometheus.CounterVec
	sessions        prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_backend_request_duration_seconds",
		Help:    "Duration of calls to the e-commerce backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_backend_failures_total",
		Help: "Backend calls that ended in an error after retries.",
	}, []string{"endpoint", "code"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_backend_retries_total",
		Help: "Backend calls that were retried once.",
	}, []string{"endpoint"})
	stale := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_stale_responses_total",
		Help: "Responses discarded because a newer request superseded them.",
	}, []string{"view"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_active_workspaces",
		Help: "Per-session view models currently held in memory.",
	})

	r.MustRegister(duration, failures, retries, stale, sessions)
	return &Registry{
		reg:             r,
		backendDuration: duration,
		backendFailures: failures,
		backendRetries:  retries,
		staleResponses:  stale,
		sessions:        sessions,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// The recorders below are nil-safe so callers may run without metrics.

func (r *Registry) ObserveBackend(endpoint string, d time.Duration) {
	if r == nil {
		return
	}
	r.backendDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(d.Seconds())
}

func (r *Registry) IncBackendFailure(endpoint, code string) {
	if r == nil {
		return
	}
	r.backendFailures.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(code)).Inc()
}

func (r *Registry) IncBackendRetry(endpoint string) {
	if r == nil {
		return
	}
	r.backendRetries.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

func (r *Registry) IncStale(view string) {
	if r == nil {
		return
	}
	r.staleResponses.WithLabelValues(normalizeLabel(view)).Inc()
}

func (r *Registry) SetWorkspaces(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
