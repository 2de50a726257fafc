package solver

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Registry resolves solver names. Names keep registration order.
type Registry struct {
	mu      sync.RWMutex
	solvers map[string]Solver
	order   []string
}

// NewRegistry creates a registry holding solvers
func NewRegistry(solvers ...Solver) *Registry {
	r := &Registry{solvers: make(map[string]Solver)}
	for _, s := range solvers {
		r.Register(s)
	}
	return r
}

// DefaultRegistry holds the local simulator and the exact solver
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewAnnealer(LocalSimulator, AnnealerConfig{}),
		NewExact(ExactSolver, 0),
	)
}

// Register adds s, replacing any solver with the same name
func (r *Registry) Register(s Solver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.solvers[s.Name()]; !ok {
		r.order = append(r.order, s.Name())
	}
	r.solvers[s.Name()] = s
}

// Get returns the solver registered under name
func (r *Registry) Get(name string) (Solver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
	return s, nil
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered solvers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Pings returns a ping function for every registered Pinger, keyed by name.
// Each ping is bounded by timeout.
func (r *Registry) Pings(timeout time.Duration) map[string]func() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]func() error)
	for name, s := range r.solvers {
		p, ok := s.(Pinger)
		if !ok {
			continue
		}
		out[name] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return p.Ping(ctx)
		}
	}
	return out
}
