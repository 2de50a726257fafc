package health

import (
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// worse reports whether s outranks other: unhealthy > degraded > healthy
func (s Status) worse(other Status) bool {
	return s.rank() > other.rank()
}

func (s Status) rank() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	}
	return 0
}

// Scope selects which endpoint a check contributes to. Scopes combine with |.
type Scope uint8

const (
	// ScopeOverall checks appear on /health
	ScopeOverall Scope = 1 << iota
	// ScopeReadiness checks gate /health/ready
	ScopeReadiness
	// ScopeLiveness checks gate /health/live
	ScopeLiveness
)

// Check is the result of probing one component
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ms"`
}

// CheckFunc probes a component. It may block on I/O; checks of one scope
// run concurrently.
type CheckFunc func() Check

type registration struct {
	check  CheckFunc
	scopes Scope
}

// Checker runs the registered checks of the service
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]registration
	version string
	started time.Time
}

// Response is the aggregate answer of one scope
type Response struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    float64          `json:"uptime_seconds"`
}
