package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// Annealer defaults
const (
	DefaultSweeps   = 1000
	DefaultNumReads = 10
)

// AnnealerConfig tunes the simulated annealer
type AnnealerConfig struct {
	// Sweeps is the number of full passes over the variables per read
	Sweeps int
	// Workers bounds the reads run in parallel; 0 means GOMAXPROCS
	Workers int
	// BetaRange overrides the inverse temperature schedule [hot, cold]
	BetaRange [2]float64
}

// Annealer is a simulated annealing sampler. Each read starts from a random
// state and cools along a geometric inverse-temperature schedule.
type Annealer struct {
	name string
	cfg  AnnealerConfig
}

// NewAnnealer creates an annealer registered under name
func NewAnnealer(name string, cfg AnnealerConfig) *Annealer {
	if cfg.Sweeps <= 0 {
		cfg.Sweeps = DefaultSweeps
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Annealer{name: name, cfg: cfg}
}

// Name returns the registered name
func (a *Annealer) Name() string { return a.name }

// Sample runs p.NumReads independent anneals. Read r uses a PCG stream seeded
// with (seed, r), so a fixed seed gives the same samples regardless of how
// reads are scheduled.
func (a *Annealer) Sample(ctx context.Context, m *qubo.Model, p Params) (*qubo.SampleSet, error) {
	reads := p.NumReads
	if reads <= 0 {
		reads = DefaultNumReads
	}
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	c := newCouplings(m)
	betas := schedule(c, a.cfg.Sweeps, a.cfg.BetaRange)

	states := make([][]int8, reads)
	energies := make([]float64, reads)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for r := 0; r < reads; r++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(r)))
			x, err := anneal(gctx, c, betas, rng)
			if err != nil {
				return err
			}
			states[r] = x
			energies[r] = m.EnergyOf(x)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrap(a.name, err)
	}

	return aggregate(m, states, energies), nil
}

// anneal performs one read
func anneal(ctx context.Context, c *couplings, betas []float64, rng *rand.Rand) ([]int8, error) {
	x := make([]int8, c.n)
	for i := range x {
		x[i] = int8(rng.IntN(2))
	}
	f := c.fields(x)

	for s, beta := range betas {
		if s&63 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i := 0; i < c.n; i++ {
			// Energy change of flipping x[i]
			delta := f[i]
			if x[i] == 1 {
				delta = -delta
			}
			if delta <= 0 || rng.Float64() < math.Exp(-beta*delta) {
				c.flip(x, f, i)
			}
		}
	}

	// Finish with a greedy descent so every read ends in a local minimum
	for improved := true; improved; {
		improved = false
		for i := 0; i < c.n; i++ {
			delta := f[i]
			if x[i] == 1 {
				delta = -delta
			}
			if delta < 0 {
				c.flip(x, f, i)
				improved = true
			}
		}
	}
	return x, nil
}

// schedule returns one inverse temperature per sweep, geometric from hot to
// cold. Without an override, hot makes the largest single-flip change
// accepted with probability 1/2 and cold makes the smallest one accepted
// with probability 1/100.
func schedule(c *couplings, sweeps int, override [2]float64) []float64 {
	hot, cold := override[0], override[1]
	if hot <= 0 || cold <= 0 {
		maxDelta, minDelta := 0.0, math.Inf(1)
		for i := 0; i < c.n; i++ {
			d := math.Abs(c.linear[i])
			if d > 0 && d < minDelta {
				minDelta = d
			}
			for _, w := range c.weights[i] {
				d += math.Abs(w)
				if aw := math.Abs(w); aw > 0 && aw < minDelta {
					minDelta = aw
				}
			}
			maxDelta = math.Max(maxDelta, d)
		}
		if maxDelta == 0 {
			maxDelta, minDelta = 1, 1
		}
		hot = math.Ln2 / maxDelta
		cold = math.Log(100) / minDelta
	}
	if cold < hot {
		hot, cold = cold, hot
	}

	betas := make([]float64, sweeps)
	if sweeps == 1 {
		betas[0] = cold
		return betas
	}
	ratio := math.Pow(cold/hot, 1/float64(sweeps-1))
	b := hot
	for s := range betas {
		betas[s] = b
		b *= ratio
	}
	return betas
}

// String describes the annealer configuration
func (a *Annealer) String() string {
	return fmt.Sprintf("%s (simulated annealing, %d sweeps)", a.name, a.cfg.Sweeps)
}
