// Package metrics holds the prometheus collectors of reformulation runs
// and of the web server. They register themselves with the default
// registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

import (
	"github.com/timtadh/gref/reformulate"
)

var (
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gref_runs_total",
			Help: "Reformulation runs by strategy and outcome",
		},
		[]string{"algorithm", "status"},
	)

	Expansions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gref_expansions_total",
			Help: "Lattice nodes expanded",
		},
		[]string{"algorithm"},
	)

	LatticeSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gref_lattice_nodes",
			Help: "Lattice size at the end of the last run",
		},
		[]string{"algorithm"},
	)

	Coverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gref_coverage_ratio",
			Help: "Coverage of the last run's reformulations",
		},
		[]string{"algorithm"},
	)

	Duration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gref_run_duration_seconds",
			Help:    "Time spent choosing reformulations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60, 300},
		},
		[]string{"algorithm"},
	)

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gref_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gref_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)
)

// Observe records a successful run.
func Observe(r *reformulate.Result) {
	Runs.WithLabelValues(r.Algorithm, "ok").Inc()
	Expansions.WithLabelValues(r.Algorithm).Add(float64(r.Expansions))
	LatticeSize.WithLabelValues(r.Algorithm).Set(float64(r.Size))
	Coverage.WithLabelValues(r.Algorithm).Set(r.Coverage)
	Duration.WithLabelValues(r.Algorithm).Observe(r.Time.Seconds())
}

func Failed(algorithm string) {
	Runs.WithLabelValues(algorithm, "error").Inc()
}
