package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initVerifyMetrics() {
	r.VerdictsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_verdicts_total",
			Help: "Total number of verification outcomes",
		},
		[]string{"problem", "verdict"},
	)

	r.CommunityGap = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphqubo_community_modularity_gap",
			Help:    "Absolute modularity gap between the solver and the classical reference",
			Buckets: []float64{0, .001, .01, .05, .1, .2, .5, 1},
		},
	)

	r.InfeasibleBestTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqubo_infeasible_best_samples_total",
			Help: "Total number of runs whose best sample violated the constraints",
		},
		[]string{"problem"},
	)
}
