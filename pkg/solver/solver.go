// Package solver samples low-energy assignments of labelled QUBO models.
//
// Three implementations are provided: a multi-read simulated annealer, an
// exhaustive solver for small models and a client for a remote sampling
// service. Solver failures are returned as *Error and are never retried
// here.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// Solver names understood by the default registry
const (
	LocalSimulator = "local simulator"
	ExactSolver    = "exact"
)

// Params are the per-run solver settings
type Params struct {
	// NumReads is the number of samples to draw. The exact solver returns
	// this many of the lowest-energy states.
	NumReads int
	// Seed makes annealing reproducible; 0 picks a random seed.
	Seed uint64
	// Token authenticates against a remote solver, overriding the
	// configured one when set.
	Token string
}

// Solver draws samples from a labelled QUBO
type Solver interface {
	Name() string
	Sample(ctx context.Context, m *qubo.Model, p Params) (*qubo.SampleSet, error)
}

// Pinger is implemented by solvers that run out of process
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sentinel errors
var (
	ErrUnknownSolver = errors.New("unknown solver")
	ErrTooLarge      = errors.New("model too large for solver")
	ErrNoSamples     = errors.New("solver returned no samples")
	ErrBadResponse   = errors.New("malformed solver response")
)

// Error wraps a failure of a named solver
type Error struct {
	Solver string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("solver %q: %v", e.Solver, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Solver: name, Cause: err}
}

// couplings is a model in adjacency form, indexed like Model.Variables
type couplings struct {
	n         int
	linear    []float64
	neighbors [][]int
	weights   [][]float64
}

func newCouplings(m *qubo.Model) *couplings {
	n := m.NumVariables()
	c := &couplings{
		n:         n,
		linear:    make([]float64, n),
		neighbors: make([][]int, n),
		weights:   make([][]float64, n),
	}
	for _, t := range m.Terms() {
		if t.I == t.J {
			c.linear[t.I] += t.Value
			continue
		}
		c.neighbors[t.I] = append(c.neighbors[t.I], t.J)
		c.weights[t.I] = append(c.weights[t.I], t.Value)
		c.neighbors[t.J] = append(c.neighbors[t.J], t.I)
		c.weights[t.J] = append(c.weights[t.J], t.Value)
	}
	return c
}

// fields returns h_i + Σ_j J_ij x_j for every i.
func (c *couplings) fields(x []int8) []float64 {
	f := make([]float64, c.n)
	for i := 0; i < c.n; i++ {
		f[i] = c.linear[i]
		for k, j := range c.neighbors[i] {
			if x[j] == 1 {
				f[i] += c.weights[i][k]
			}
		}
	}
	return f
}

// flip toggles x[i], returning the energy change and updating fields.
func (c *couplings) flip(x []int8, f []float64, i int) float64 {
	var delta float64
	var step float64
	if x[i] == 0 {
		delta, step = f[i], 1
		x[i] = 1
	} else {
		delta, step = -f[i], -1
		x[i] = 0
	}
	for k, j := range c.neighbors[i] {
		f[j] += step * c.weights[i][k]
	}
	return delta
}

// aggregate merges identical assignments, keeping first-seen order, and
// returns them as a sample set ordered by energy.
func aggregate(m *qubo.Model, states [][]int8, energies []float64) *qubo.SampleSet {
	index := make(map[string]int, len(states))
	samples := make([]qubo.Sample, 0, len(states))
	for r, x := range states {
		key := string(int8Bytes(x))
		if i, ok := index[key]; ok {
			samples[i].Occurrences++
			continue
		}
		index[key] = len(samples)
		samples = append(samples, qubo.Sample{
			Assignment:  m.Assignment(x),
			Energy:      energies[r],
			Occurrences: 1,
		})
	}
	return qubo.NewSampleSet(samples)
}

func int8Bytes(x []int8) []byte {
	b := make([]byte, len(x))
	for i, v := range x {
		b[i] = byte(v)
	}
	return b
}
