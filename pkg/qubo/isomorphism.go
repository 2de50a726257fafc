package qubo

import (
	"fmt"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// BuildIsomorphism encodes finding a bijection between the vertices of g1 and
// g2 that maps edges onto edges.
//
// Variable v1*n+v2 is 1 iff vertex v1 of g1 maps to vertex v2 of g2. Two
// one-hot passes (every row and every column of the n×n assignment grid)
// enforce bijectivity with penalty n. Each pair of edges (v1,v2) ∈ E(g1),
// (w1,w2) ∈ E(g2) contributes −1 for both orientations of the mapping, so a
// perfect isomorphism reaches −|E(g1)|. The returned matrix is upper
// triangular.
func BuildIsomorphism(g1, g2 *graph.Graph, opts ...Option) (*Matrix, error) {
	const op = "build isomorphism"

	if g1 == nil || g2 == nil {
		return nil, invalidArgument(op, "graph is nil")
	}
	n := g1.Order()
	if g2.Order() != n {
		return nil, GraphStructureError(op, fmt.Errorf("vertex counts differ: %d and %d", n, g2.Order()))
	}
	if n < 1 {
		return nil, invalidArgument(op, "graphs have no vertices")
	}
	o := applyOptions(float64(n), opts)
	if o.penalty <= 0 {
		return nil, invalidArgument(op, "penalty must be positive, got %g", o.penalty)
	}
	p := o.penalty

	q := newMatrix(n * n)

	// Each vertex of g1 maps to exactly one vertex of g2
	for v1 := 0; v1 < n; v1++ {
		for v2 := 0; v2 < n; v2++ {
			idx := v1*n + v2
			q.add(idx, idx, -p)
			for k := v2 + 1; k < n; k++ {
				q.add(idx, v1*n+k, 2*p)
			}
		}
	}
	q.Offset += float64(n) * p

	// Each vertex of g2 is the image of exactly one vertex of g1
	for v2 := 0; v2 < n; v2++ {
		for v1 := 0; v1 < n; v1++ {
			idx := v1*n + v2
			q.add(idx, idx, -p)
			for k := v1 + 1; k < n; k++ {
				q.add(idx, k*n+v2, 2*p)
			}
		}
	}
	q.Offset += float64(n) * p

	// Mapping respects edges
	e2 := g2.Edges()
	for _, a := range g1.Edges() {
		for _, b := range e2 {
			q.add(a.U*n+b.U, a.V*n+b.V, -1)
			q.add(a.U*n+b.V, a.V*n+b.U, -1)
		}
	}

	q.FoldUpper()
	return q, nil
}

// ExpectedIsomorphismEnergy is the objective value of a perfect isomorphism
// onto a graph with the same number of edges as g.
func ExpectedIsomorphismEnergy(g *graph.Graph) float64 {
	return -float64(g.Size())
}
