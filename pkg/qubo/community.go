package qubo

import (
	"errors"
	"math"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// BuildCommunityDetection encodes partitioning g into the given number of
// communities so that minimising the objective maximises modularity.
//
// Variable v*communities+k is 1 iff vertex v belongs to community k. A
// one-hot penalty forces each vertex into exactly one community, and on any
// feasible assignment the objective equals the negated modularity of the
// partition. The returned matrix is upper triangular.
func BuildCommunityDetection(g *graph.Graph, communities int, opts ...Option) (*Matrix, error) {
	const op = "build community detection"

	if g == nil {
		return nil, invalidArgument(op, "graph is nil")
	}
	if communities < 1 {
		return nil, invalidArgument(op, "communities must be at least 1, got %d", communities)
	}
	o := applyOptions(DefaultCommunityPenalty, opts)
	if o.penalty <= 0 {
		return nil, invalidArgument(op, "penalty must be positive, got %g", o.penalty)
	}

	n := g.Order()
	if n == 0 {
		return nil, GraphStructureError(op, errors.New("graph has no vertices"))
	}
	m := g.TotalWeight()
	if m <= 0 {
		return nil, GraphStructureError(op, errors.New("graph has no edges"))
	}
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return nil, GraphStructureError(op, errors.New("total edge weight is not finite"))
	}

	q := newMatrix(n * communities)
	addOneHot(q, n, communities, o.penalty)

	// Negative modularity, same-community pairs only
	twoM := 2 * m
	for k := 0; k < communities; k++ {
		for i := 0; i < n; i++ {
			ki := g.Degree(i)
			for j := 0; j < n; j++ {
				coef := (ki*g.Degree(j)/twoM - g.Weight(i, j)) / twoM
				if math.IsInf(coef, 0) || math.IsNaN(coef) {
					return nil, GraphStructureError(op, errors.New("edge weights out of range"))
				}
				if coef != 0 {
					q.add(i*communities+k, j*communities+k, coef)
				}
			}
		}
	}

	q.FoldUpper()
	return q, nil
}

// addOneHot adds p·(1 − Σ_k x[v,k])² for every vertex v, expanded as a
// diagonal −p, a +2p cross term per pair of communities and a constant p.
func addOneHot(q *Matrix, vertices, communities int, p float64) {
	for v := 0; v < vertices; v++ {
		for k := 0; k < communities; k++ {
			idx := v*communities + k
			q.add(idx, idx, -p)
			for k2 := k + 1; k2 < communities; k2++ {
				q.add(idx, v*communities+k2, 2*p)
			}
		}
	}
	q.Offset += float64(vertices) * p
}
