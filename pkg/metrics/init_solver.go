package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolverMetrics() {
	r.SolverRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_solver_runs_total",
			Help: "Total number of solver runs",
		},
		[]string{"solver", "status"},
	)

	r.SolverDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqubo_solver_duration_seconds",
			Help:    "Solver wall time in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"solver"},
	)

	r.SolverReadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_solver_reads_total",
			Help: "Total number of samples requested from solvers",
		},
		[]string{"solver"},
	)

	r.SolverRunsInFlight = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphqubo_solver_runs_in_flight",
			Help: "Current number of solver runs",
		},
		[]string{"solver"},
	)
}
