package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// QUBO Metrics
	QUBOBuildsTotal      *prometheus.CounterVec
	QUBOBuildDuration    *prometheus.HistogramVec
	QUBOVariables        *prometheus.HistogramVec
	QUBOInteractions     *prometheus.HistogramVec
	GraphStructureErrors *prometheus.CounterVec

	// Solver Metrics
	SolverRunsTotal    *prometheus.CounterVec
	SolverDuration     *prometheus.HistogramVec
	SolverReadsTotal   *prometheus.CounterVec
	SolverRunsInFlight *prometheus.GaugeVec

	// Verification Metrics
	VerdictsTotal       *prometheus.CounterVec
	CommunityGap        prometheus.Histogram
	InfeasibleBestTotal *prometheus.CounterVec

	// System Metrics
	BuildInfo        *prometheus.GaugeVec
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}
