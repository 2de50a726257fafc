// Package api serves community detection and graph isomorphism runs over
// HTTP, together with health and Prometheus endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/graphqubo/pkg/api/middleware"
	"github.com/dd0wney/graphqubo/pkg/health"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/metrics"
	"github.com/dd0wney/graphqubo/pkg/pipeline"
)

// Routes
const (
	CommunityPath   = "/api/v1/community-detection"
	IsomorphismPath = "/api/v1/isomorphism"
)

const (
	pingTimeout             = 2 * time.Second
	rateLimitCleanup        = 5 * time.Minute
	rateLimitClientLifetime = 10 * time.Minute
	rateLimitMaxClients     = 10000
)

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger; the default discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records HTTP metrics in m and serves it on /metrics.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Server) { s.metricsRegistry = m }
}

// WithVersion sets the version reported by the service
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates an API server around runner. Network settings are read
// from the runner's configuration once; later reloads change limits and
// solvers but not CORS, proxies, rate limits or the body cap.
func NewServer(runner *pipeline.Runner, opts ...Option) (*Server, error) {
	s := &Server{
		runner:    runner,
		logger:    logging.NewNopLogger(),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthChecker = health.NewChecker(s.version)
	s.logger = s.logger.With(logging.Component("api"))

	cfg := runner.Config().Server
	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	s.trustedProxies = proxies
	s.corsConfig = middleware.WithOrigins(cfg.CORSOrigins)
	s.maxBodyBytes = cfg.MaxBodyBytes

	if cfg.RateLimit.Enabled {
		s.rateLimiter = middleware.NewRateLimiter(&middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.Burst,
			CleanupInterval:   rateLimitCleanup,
			ClientExpiration:  rateLimitClientLifetime,
			MaxClients:        rateLimitMaxClients,
		}, s.logger)
	}

	s.registerHealthChecks()
	return s, nil
}

func (s *Server) registerHealthChecks() {
	solvers := health.SolverRegistryCheck(
		func() string { return s.runner.Config().Solvers.Default },
		s.runner.Solvers,
	)

	s.healthChecker.Register("process", func() health.Check {
		return health.SimpleCheck("process")
	}, health.ScopeLiveness)
	s.healthChecker.Register("solvers", solvers, health.ScopeOverall, health.ScopeReadiness)
	s.healthChecker.Register("remote_solvers", health.RemoteSolversCheck(func() map[string]func() error {
		return s.runner.Pings(pingTimeout)
	}))
	s.healthChecker.Register("capacity", health.CapacityCheck(s.runner.Capacity))
	s.healthChecker.Register("memory", health.MemoryCheck(health.RuntimeMemory))
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthChecker.Handler(health.ScopeOverall))
	mux.HandleFunc("GET /health/live", s.healthChecker.Handler(health.ScopeLiveness))
	mux.HandleFunc("GET /health/ready", s.healthChecker.Handler(health.ScopeReadiness))
	if s.metricsRegistry != nil {
		reg := s.metricsRegistry.GetPrometheusRegistry()
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	mux.HandleFunc("GET "+CommunityPath, s.handleCommunityForm)
	mux.Handle("POST "+CommunityPath, s.throttle(http.HandlerFunc(s.handleCommunityRun)))
	mux.HandleFunc("GET "+IsomorphismPath, s.handleIsomorphismForm)
	mux.Handle("POST "+IsomorphismPath, s.throttle(http.HandlerFunc(s.handleIsomorphismRun)))

	var handler http.Handler = mux
	handler = middleware.BodySizeLimit(s.maxBodyBytes)(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	if s.metricsRegistry != nil {
		handler = middleware.Metrics(s.metricsRegistry)(handler)
	}
	handler = middleware.Logging(s.logger, middleware.GetRequestID)(handler)
	handler = middleware.CORS(s.corsConfig)(handler)
	handler = middleware.RequestID()(handler)
	return handler
}

// throttle applies the per-client rate limit to solver runs
func (s *Server) throttle(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return middleware.RateLimit(s.rateLimiter, middleware.ClientIP(s.trustedProxies), nil)(next)
}

// RunSystemMetrics refreshes the uptime, goroutine and memory gauges every
// interval until ctx is done.
func (s *Server) RunSystemMetrics(ctx context.Context, interval time.Duration) {
	if s.metricsRegistry == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.metricsRegistry.UpdateSystemMetrics(s.startTime)
	for {
		select {
		case <-ticker.C:
			s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		case <-ctx.Done():
			return
		}
	}
}

// Close releases background resources
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
