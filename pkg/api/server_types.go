package api

import (
	"net"
	"time"

	"github.com/dd0wney/graphqubo/pkg/api/middleware"
	"github.com/dd0wney/graphqubo/pkg/health"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/metrics"
	"github.com/dd0wney/graphqubo/pkg/pipeline"
)

// Server represents the HTTP API server
type Server struct {
	runner          *pipeline.Runner
	metricsRegistry *metrics.Registry
	healthChecker   *health.Checker
	logger          logging.Logger
	corsConfig      *middleware.CORSConfig
	rateLimiter     *middleware.RateLimiter // nil when run requests are not throttled
	trustedProxies  []*net.IPNet
	maxBodyBytes    int64
	startTime       time.Time
	version         string
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   int    `json:"code"`
}

// Bounds is an inclusive integer range
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FormResponse describes the parameters a problem accepts: the values used
// for omitted fields, the accepted ranges and the solver choices.
type FormResponse struct {
	Problem     string            `json:"problem"`
	Defaults    any               `json:"defaults"`
	Limits      map[string]Bounds `json:"limits"`
	Solvers     []string          `json:"solvers"`
	References  []string          `json:"references,omitempty"`
	Correctness string            `json:"correctness"`
}
