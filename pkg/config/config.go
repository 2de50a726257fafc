// Package config loads the service configuration from YAML with defaults
// and environment overrides.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/solver"
	"github.com/dd0wney/graphqubo/pkg/validation"
	"github.com/dd0wney/graphqubo/pkg/verify"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Config is the complete service configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Community   CommunityConfig   `yaml:"community_detection"`
	Isomorphism IsomorphismConfig `yaml:"isomorphism"`
	Solvers     SolversConfig     `yaml:"solvers"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int             `yaml:"port"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	WriteTimeout    time.Duration   `yaml:"write_timeout"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64           `yaml:"max_body_bytes"`
	CORSOrigins     []string        `yaml:"cors_allowed_origins"`
	TrustedProxies  []string        `yaml:"trusted_proxies"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles run requests per client address
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LoggingConfig holds the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CommunityConfig bounds community detection requests
type CommunityConfig struct {
	MinVertices        int     `yaml:"min_vertices"`
	MaxVertices        int     `yaml:"max_vertices"`
	MinCommunities     int     `yaml:"min_communities"`
	MaxCommunities     int     `yaml:"max_communities"`
	DefaultVertices    int     `yaml:"default_vertices"`
	DefaultCommunities int     `yaml:"default_communities"`
	Penalty            float64 `yaml:"penalty"`
	Reference          string  `yaml:"reference"`
}

// IsomorphismConfig bounds isomorphism requests
type IsomorphismConfig struct {
	MinVertices     int `yaml:"min_vertices"`
	MaxVertices     int `yaml:"max_vertices"`
	DefaultVertices int `yaml:"default_vertices"`
}

// SolversConfig selects and configures the samplers
type SolversConfig struct {
	Default           string         `yaml:"default"`
	DefaultNumReads   int            `yaml:"default_num_reads"`
	MaxNumReads       int            `yaml:"max_num_reads"`
	MaxConcurrentRuns int            `yaml:"max_concurrent_runs"`
	Annealer          AnnealerConfig `yaml:"annealer"`
	Exact             ExactConfig    `yaml:"exact"`
	Remote            []RemoteConfig `yaml:"remote"`
}

// AnnealerConfig configures the local simulated annealer
type AnnealerConfig struct {
	Sweeps  int    `yaml:"sweeps"`
	Workers int    `yaml:"workers"`
	Seed    uint64 `yaml:"seed"`
}

// ExactConfig configures the brute-force solver
type ExactConfig struct {
	Enabled      bool `yaml:"enabled"`
	MaxVariables int  `yaml:"max_variables"`
}

// RemoteConfig registers one remote sampling service under Name
type RemoteConfig struct {
	Name     string        `yaml:"name"`
	Endpoint string        `yaml:"endpoint"`
	Device   string        `yaml:"device"`
	Token    string        `yaml:"token"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    10 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			RateLimit:       RateLimitConfig{Enabled: true, RequestsPerSecond: 2, Burst: 10},
		},
		Logging: LoggingConfig{Level: "info"},
		Community: CommunityConfig{
			MinVertices:        5,
			MaxVertices:        60,
			MinCommunities:     1,
			MaxCommunities:     10,
			DefaultVertices:    7,
			DefaultCommunities: 4,
			Penalty:            qubo.DefaultCommunityPenalty,
			Reference:          string(verify.ReferenceGreedy),
		},
		Isomorphism: IsomorphismConfig{
			MinVertices:     5,
			MaxVertices:     20,
			DefaultVertices: 7,
		},
		Solvers: SolversConfig{
			Default:           solver.LocalSimulator,
			DefaultNumReads:   2000,
			MaxNumReads:       10000,
			MaxConcurrentRuns: 4,
			Annealer:          AnnealerConfig{Sweeps: solver.DefaultSweeps},
			Exact:             ExactConfig{Enabled: true, MaxVariables: solver.MaxExactVariables},
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config").
		RangeInt("server.port", c.Server.Port, 1, 65535).
		MinDuration("server.read_timeout", c.Server.ReadTimeout, time.Second).
		MinDuration("server.write_timeout", c.Server.WriteTimeout, time.Second).
		MinDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, 0).
		Custom("server.max_body_bytes", positive64(c.Server.MaxBodyBytes)).
		When(c.Server.RateLimit.Enabled, func(cv *validation.ConfigValidator) {
			cv.PositiveFloat("server.rate_limit.requests_per_second", c.Server.RateLimit.RequestsPerSecond).
				Positive("server.rate_limit.burst", c.Server.RateLimit.Burst)
		}).
		OneOf("logging.level", strings.ToLower(c.Logging.Level), logLevels).
		Positive("community_detection.min_vertices", c.Community.MinVertices).
		RangeInt("community_detection.max_vertices", c.Community.MaxVertices, c.Community.MinVertices, 1<<12).
		Positive("community_detection.min_communities", c.Community.MinCommunities).
		RangeInt("community_detection.max_communities", c.Community.MaxCommunities, c.Community.MinCommunities, c.Community.MaxVertices).
		RangeInt("community_detection.default_vertices", c.Community.DefaultVertices, c.Community.MinVertices, c.Community.MaxVertices).
		RangeInt("community_detection.default_communities", c.Community.DefaultCommunities, c.Community.MinCommunities, c.Community.MaxCommunities).
		PositiveFloat("community_detection.penalty", c.Community.Penalty).
		OneOf("community_detection.reference", c.Community.Reference, References()).
		Positive("isomorphism.min_vertices", c.Isomorphism.MinVertices).
		RangeInt("isomorphism.max_vertices", c.Isomorphism.MaxVertices, c.Isomorphism.MinVertices, 1<<8).
		RangeInt("isomorphism.default_vertices", c.Isomorphism.DefaultVertices, c.Isomorphism.MinVertices, c.Isomorphism.MaxVertices).
		Positive("solvers.max_num_reads", c.Solvers.MaxNumReads).
		RangeInt("solvers.default_num_reads", c.Solvers.DefaultNumReads, 1, c.Solvers.MaxNumReads).
		Positive("solvers.max_concurrent_runs", c.Solvers.MaxConcurrentRuns).
		Positive("solvers.annealer.sweeps", c.Solvers.Annealer.Sweeps).
		RangeInt("solvers.annealer.workers", c.Solvers.Annealer.Workers, 0, 1<<10).
		When(c.Solvers.Exact.Enabled, func(cv *validation.ConfigValidator) {
			cv.RangeInt("solvers.exact.max_variables", c.Solvers.Exact.MaxVariables, 1, solver.MaxExactVariables)
		}).
		OneOf("solvers.default", c.Solvers.Default, c.SolverNames())

	for i, p := range c.Server.TrustedProxies {
		cv.Custom("server.trusted_proxies["+strconv.Itoa(i)+"]", func() error { return checkProxy(p) })
	}

	seen := make(map[string]bool)
	for i, r := range c.Solvers.Remote {
		field := "solvers.remote[" + strconv.Itoa(i) + "]"
		cv.Required(field+".name", r.Name).
			URL(field+".endpoint", r.Endpoint).
			MinDuration(field+".timeout", r.Timeout, 0).
			Custom(field+".name", func() error {
				if seen[r.Name] || r.Name == solver.LocalSimulator || r.Name == solver.ExactSolver {
					return errDuplicateSolver(r.Name)
				}
				seen[r.Name] = true
				return nil
			})
	}
	return cv.Validate()
}

// SolverNames lists the configured samplers in registration order.
func (c *Config) SolverNames() []string {
	names := []string{solver.LocalSimulator}
	if c.Solvers.Exact.Enabled {
		names = append(names, solver.ExactSolver)
	}
	for _, r := range c.Solvers.Remote {
		names = append(names, r.Name)
	}
	return names
}

// CommunityLimits returns the bounds community detection requests are
// validated against.
func (c *Config) CommunityLimits() validation.Limits {
	return validation.Limits{
		MinVertices:    c.Community.MinVertices,
		MaxVertices:    c.Community.MaxVertices,
		MinCommunities: c.Community.MinCommunities,
		MaxCommunities: c.Community.MaxCommunities,
		MaxNumReads:    c.Solvers.MaxNumReads,
		Solvers:        c.SolverNames(),
	}
}

// IsomorphismLimits returns the bounds isomorphism requests are validated
// against.
func (c *Config) IsomorphismLimits() validation.Limits {
	return validation.Limits{
		MinVertices: c.Isomorphism.MinVertices,
		MaxVertices: c.Isomorphism.MaxVertices,
		MaxNumReads: c.Solvers.MaxNumReads,
		Solvers:     c.SolverNames(),
	}
}

// References lists the classical algorithms community results can be graded
// against.
func References() []string {
	return []string{string(verify.ReferenceGreedy), string(verify.ReferenceLouvain), string(verify.ReferenceLabelPropagation)}
}

// FillCommunity sets the zero fields of req to the configured defaults
func (c *Config) FillCommunity(req *validation.CommunityRequest) {
	req.Vertices = validation.DefaultOr(req.Vertices, c.Community.DefaultVertices)
	req.Communities = validation.DefaultOr(req.Communities, c.Community.DefaultCommunities)
	req.NumReads = validation.DefaultOr(req.NumReads, c.Solvers.DefaultNumReads)
	req.Solver = validation.DefaultOr(req.Solver, c.Solvers.Default)
	req.Reference = validation.DefaultOr(req.Reference, c.Community.Reference)
}

// FillIsomorphism sets the zero fields of req to the configured defaults
func (c *Config) FillIsomorphism(req *validation.IsomorphismRequest) {
	req.Vertices = validation.DefaultOr(req.Vertices, c.Isomorphism.DefaultVertices)
	req.NumReads = validation.DefaultOr(req.NumReads, c.Solvers.DefaultNumReads)
	req.Solver = validation.DefaultOr(req.Solver, c.Solvers.Default)
}
