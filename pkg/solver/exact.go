package solver

import (
	"container/heap"
	"context"
	"fmt"
	"math/bits"

	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// MaxExactVariables bounds the models the exact solver accepts
const MaxExactVariables = 24

// Exact enumerates every assignment in Gray-code order and keeps the
// lowest-energy states.
type Exact struct {
	name string
	max  int
}

// NewExact creates an exact solver registered under name. maxVariables is
// capped at MaxExactVariables; 0 selects the cap.
func NewExact(name string, maxVariables int) *Exact {
	if maxVariables <= 0 || maxVariables > MaxExactVariables {
		maxVariables = MaxExactVariables
	}
	return &Exact{name: name, max: maxVariables}
}

// Name returns the registered name
func (e *Exact) Name() string { return e.name }

// Sample returns the p.NumReads lowest-energy states, each with one
// occurrence. Ties keep enumeration order.
func (e *Exact) Sample(ctx context.Context, m *qubo.Model, p Params) (*qubo.SampleSet, error) {
	n := m.NumVariables()
	if n > e.max {
		return nil, wrap(e.name, fmt.Errorf("%w: %d variables, limit %d", ErrTooLarge, n, e.max))
	}
	keep := p.NumReads
	if keep <= 0 {
		keep = 1
	}

	c := newCouplings(m)
	x := make([]int8, n)
	f := c.fields(x)
	energy := m.Offset

	best := &stateHeap{}
	push := func(seq uint64) {
		if best.Len() < keep {
			heap.Push(best, state{x: append([]int8(nil), x...), energy: energy, seq: seq})
			return
		}
		if worst := (*best)[0]; energy < worst.energy {
			(*best)[0] = state{x: append([]int8(nil), x...), energy: energy, seq: seq}
			heap.Fix(best, 0)
		}
	}

	push(0)
	total := uint64(1) << uint(n)
	for k := uint64(1); k < total; k++ {
		if k&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, wrap(e.name, err)
			}
		}
		// Gray code: step k flips the lowest set bit of k
		energy += c.flip(x, f, bits.TrailingZeros64(k))
		push(k)
	}

	samples := make([]qubo.Sample, best.Len())
	for i := len(samples) - 1; i >= 0; i-- {
		s := heap.Pop(best).(state)
		samples[i] = qubo.Sample{
			Assignment:  m.Assignment(s.x),
			Energy:      m.EnergyOf(s.x),
			Occurrences: 1,
		}
	}
	return qubo.NewSampleSet(samples), nil
}

type state struct {
	x      []int8
	energy float64
	seq    uint64
}

// stateHeap is a max-heap on (energy, seq) so the worst kept state is on top
type stateHeap []state

func (h stateHeap) Len() int { return len(h) }
func (h stateHeap) Less(i, j int) bool {
	if h[i].energy != h[j].energy {
		return h[i].energy > h[j].energy
	}
	return h[i].seq > h[j].seq
}
func (h stateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *stateHeap) Push(v any)   { *h = append(*h, v.(state)) }
func (h *stateHeap) Pop() any {
	old := *h
	v := old[len(old)-1]
	*h = old[:len(old)-1]
	return v
}
