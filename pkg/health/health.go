package health

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// maxParallelChecks bounds how many checks of one scope run at once
const maxParallelChecks = 8

// NewChecker creates a Checker reporting version in every response
func NewChecker(version string) *Checker {
	return &Checker{
		checks:  make(map[string]registration),
		version: version,
		started: time.Now(),
	}
}

// Register adds check under name for the given scopes, ScopeOverall when
// none are given. Registering a name again replaces the earlier check.
func (c *Checker) Register(name string, check CheckFunc, scopes ...Scope) {
	var s Scope
	for _, scope := range scopes {
		s |= scope
	}
	if s == 0 {
		s = ScopeOverall
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = registration{check: check, scopes: s}
}

// Run executes every check registered for scope and folds their statuses;
// the worst one wins. A scope with no checks is healthy.
func (c *Checker) Run(scope Scope) Response {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	funcs := make([]CheckFunc, 0, len(c.checks))
	for name, reg := range c.checks {
		if reg.scopes&scope != 0 {
			names = append(names, name)
			funcs = append(funcs, reg.check)
		}
	}
	c.mu.RUnlock()

	results := make([]Check, len(funcs))
	var g errgroup.Group
	g.SetLimit(maxParallelChecks)
	for i, fn := range funcs {
		g.Go(func() error {
			start := time.Now()
			check := fn()
			check.Duration = time.Since(start)
			check.LastChecked = start
			if check.Name == "" {
				check.Name = names[i]
			}
			results[i] = check
			return nil
		})
	}
	_ = g.Wait()

	response := Response{
		Status:    StatusHealthy,
		Version:   c.version,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(results)),
		Uptime:    time.Since(c.started).Seconds(),
	}
	for i, check := range results {
		response.Checks[names[i]] = check
		if check.Status.worse(response.Status) {
			response.Status = check.Status
		}
	}
	return response
}
