// Package metrics exposes Prometheus collectors for simulation runs and
// the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "powersim"

// Recorder implements simulation.Recorder on top of Prometheus collectors.
type Recorder struct {
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	paths        prometheus.Counter
	floorHits    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registry.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Simulation runs by outcome",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed simulation runs",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		paths: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paths_generated_total",
			Help:      "Replications generated across all runs",
		}),
		floorHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variance_floor_hits_total",
			Help:      "Times the variance floor was applied",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route", "method"}),
	}
}

func (r *Recorder) ObserveRun(status string, elapsed time.Duration) {
	r.runs.WithLabelValues(status).Inc()
	if elapsed > 0 {
		r.runDuration.Observe(elapsed.Seconds())
	}
}

func (r *Recorder) AddPaths(n int) {
	if n > 0 {
		r.paths.Add(float64(n))
	}
}

func (r *Recorder) AddFloorHits(n int) {
	if n > 0 {
		r.floorHits.Add(float64(n))
	}
}

// ObserveRequest records one HTTP request. route should be the templated
// path (e.g. /api/v1/simulations/:id) to keep cardinality low.
func (r *Recorder) ObserveRequest(route, method, status string, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, status).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
