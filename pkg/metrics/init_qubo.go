package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQUBOMetrics() {
	r.QUBOBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_qubo_builds_total",
			Help: "Total number of QUBO problems built",
		},
		[]string{"problem"},
	)

	r.QUBOBuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqubo_qubo_build_duration_seconds",
			Help:    "Time to build and label a QUBO in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"problem"},
	)

	r.QUBOVariables = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqubo_qubo_variables",
			Help:    "Number of binary variables per QUBO",
			Buckets: prometheus.ExponentialBuckets(4, 2, 10),
		},
		[]string{"problem"},
	)

	r.QUBOInteractions = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqubo_qubo_interactions",
			Help:    "Number of non-zero quadratic coefficients per QUBO",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"problem"},
	)

	r.GraphStructureErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_graph_structure_errors_total",
			Help: "Total number of inputs rejected as an error in graph structure",
		},
		[]string{"problem"},
	)
}
