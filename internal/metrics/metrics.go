package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects pipeline metrics. A nil *Recorder is valid and records
// nothing, so callers never need to guard.
type Recorder struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	cleanupFailures prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accent_requests_total",
			Help: "Accent detection requests by source kind and outcome.",
		}, []string{"source", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accent_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accent_cleanup_failures_total",
			Help: "Temporary files that could not be removed.",
		}),
	}
	reg.MustRegister(
		r.requests,
		r.stageDuration,
		r.cleanupFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveRequest(source, outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(source, outcome).Inc()
}

func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *Recorder) CleanupFailed() {
	if r == nil {
		return
	}
	r.cleanupFailures.Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
