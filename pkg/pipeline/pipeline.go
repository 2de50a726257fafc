// Package pipeline runs one community detection or graph isomorphism
// request end to end: parse the graph, build and label the QUBO, sample it
// and grade the best sample.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dd0wney/graphqubo/pkg/config"
	"github.com/dd0wney/graphqubo/pkg/logging"
	"github.com/dd0wney/graphqubo/pkg/metrics"
	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/solver"
)

// Problem names used in logs, metrics and results
const (
	ProblemCommunityDetection = "community-detection"
	ProblemIsomorphism        = "isomorphism"
)

// Runner executes pipeline runs against the current configuration
type Runner struct {
	mu       sync.RWMutex
	cfg      *config.Config
	registry *solver.Registry
	pinned   bool // registry injected with WithRegistry

	metrics *metrics.Registry
	logger  logging.Logger

	slots    *semaphore.Weighted
	limit    int
	inFlight atomic.Int64
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger; the default discards output.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics records builds, solver runs and verdicts in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRegistry replaces the solvers built from the configuration. The
// registry survives Reconfigure.
func WithRegistry(reg *solver.Registry) Option {
	return func(r *Runner) {
		r.registry = reg
		r.pinned = true
	}
}

// New creates a Runner for cfg
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewNopLogger(),
		limit:  cfg.Solvers.MaxConcurrentRuns,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = cfg.Registry()
	}
	if r.limit < 1 {
		r.limit = 1
	}
	r.slots = semaphore.NewWeighted(int64(r.limit))
	r.logger = r.logger.With(logging.Component("pipeline"))
	return r
}

// Reconfigure swaps in a new configuration. Runs already in flight keep the
// configuration they started with. The concurrency limit is fixed at New.
func (r *Runner) Reconfigure(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	if !r.pinned {
		r.registry = cfg.Registry()
	}
	r.logger.Info("configuration applied", logging.Int("solvers", r.registry.Len()))
}

// Config returns the current configuration
func (r *Runner) Config() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Solvers lists the registered solver names
func (r *Runner) Solvers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registry.Names()
}

// Pings returns ping functions for the out-of-process solvers
func (r *Runner) Pings(timeout time.Duration) map[string]func() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registry.Pings(timeout)
}

// Capacity reports the runs in flight and the concurrency limit
func (r *Runner) Capacity() (running, limit int) {
	return int(r.inFlight.Load()), r.limit
}

func (r *Runner) snapshot() (*config.Config, *solver.Registry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, r.registry
}

func (r *Runner) acquire(ctx context.Context) (func(), error) {
	if err := r.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	r.inFlight.Add(1)
	return func() {
		r.inFlight.Add(-1)
		r.slots.Release(1)
	}, nil
}

// solve samples model with the named solver and records the outcome.
func (r *Runner) solve(ctx context.Context, logger logging.Logger, reg *solver.Registry, model *qubo.Model, name string, p solver.Params) (*qubo.SampleSet, time.Duration, error) {
	s, err := reg.Get(name)
	if err != nil {
		return nil, 0, err
	}

	done := func(string, int) {}
	if r.metrics != nil {
		done = r.metrics.TrackSolverRun(name)
	}

	timer := logging.StartTimer(logger, "solve",
		logging.Solver(name),
		logging.Reads(p.NumReads),
		logging.Variables(model.NumVariables()),
	)
	set, err := s.Sample(ctx, model, p)
	if err == nil && set.Len() == 0 {
		err = &solver.Error{Solver: name, Cause: solver.ErrNoSamples}
	}
	if err != nil {
		timer.EndError(err)
		done("error", 0)
		return nil, timer.Elapsed(), err
	}

	elapsed := timer.End(logging.Int("samples", set.Len()))
	done("success", p.NumReads)
	return set, elapsed, nil
}

func (r *Runner) recordBuild(problem string, model *qubo.Model, d time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordQUBOBuild(problem, model.NumVariables(), model.NumInteractions(), d)
	}
}

// structureError counts err when it is a graph structure problem and passes
// it through.
func (r *Runner) structureError(problem string, err error) error {
	if r.metrics != nil && errors.Is(err, qubo.ErrGraphStructure) {
		r.metrics.RecordGraphStructureError(problem)
	}
	return err
}
