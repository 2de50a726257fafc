package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initQUBOMetrics()
	r.initSolverMetrics()
	r.initVerifyMetrics()
	r.initSystemMetrics()

	return r
}

// RegisterRuntimeCollectors adds the Go runtime and process collectors.
// Call it once on a registry that is served over HTTP.
func (r *Registry) RegisterRuntimeCollectors() error {
	if err := r.registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	return r.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordQUBOBuild records the construction and labelling of one problem
func (r *Registry) RecordQUBOBuild(problem string, variables, interactions int, duration time.Duration) {
	r.QUBOBuildsTotal.WithLabelValues(problem).Inc()
	r.QUBOBuildDuration.WithLabelValues(problem).Observe(duration.Seconds())
	r.QUBOVariables.WithLabelValues(problem).Observe(float64(variables))
	r.QUBOInteractions.WithLabelValues(problem).Observe(float64(interactions))
}

// RecordGraphStructureError counts an input rejected as unusable for problem
func (r *Registry) RecordGraphStructureError(problem string) {
	r.GraphStructureErrors.WithLabelValues(problem).Inc()
}

// TrackSolverRun marks a solver run as started and returns a function that
// records its outcome. status is "success" or "error".
func (r *Registry) TrackSolverRun(solver string) func(status string, reads int) {
	start := time.Now()
	r.SolverRunsInFlight.WithLabelValues(solver).Inc()
	return func(status string, reads int) {
		r.SolverRunsInFlight.WithLabelValues(solver).Dec()
		r.SolverRunsTotal.WithLabelValues(solver, status).Inc()
		r.SolverDuration.WithLabelValues(solver).Observe(time.Since(start).Seconds())
		if reads > 0 {
			r.SolverReadsTotal.WithLabelValues(solver).Add(float64(reads))
		}
	}
}

// RecordVerdict records the verification outcome of a run
func (r *Registry) RecordVerdict(problem, verdict string) {
	r.VerdictsTotal.WithLabelValues(problem, verdict).Inc()
}

// RecordCommunityGap records the modularity gap of a community detection run
func (r *Registry) RecordCommunityGap(gap float64) {
	r.CommunityGap.Observe(gap)
}

// RecordInfeasible counts a best sample that violates the problem constraints
func (r *Registry) RecordInfeasible(problem string) {
	r.InfeasibleBestTotal.WithLabelValues(problem).Inc()
}

// SetBuildInfo publishes the running version
func (r *Registry) SetBuildInfo(version string) {
	r.BuildInfo.Reset()
	r.BuildInfo.WithLabelValues(version).Set(1)
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics(started time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UptimeSeconds.Set(time.Since(started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
