// Package graph holds the immutable undirected graphs that the QUBO builders
// consume. Vertices are always the dense range 0..n-1; storage is a gonum
// weighted undirected graph so that gonum's community tooling can score
// partitions directly.
package graph

import (
	"math"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// DefaultWeight is the weight of an edge in an unweighted graph
const DefaultWeight = 1.0

// Edge is an undirected edge between two vertices
type Edge struct {
	U      int     `json:"source"`
	V      int     `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is an undirected graph over vertices 0..n-1.
// It is never modified after New returns.
type Graph struct {
	g        *simple.WeightedUndirectedGraph
	order    int
	edges    []Edge
	degree   []float64
	total    float64
	weighted bool
}

// New builds a graph with n vertices from the given edges. When weighted is
// false every edge weight is replaced by DefaultWeight.
func New(n int, edges []Edge, weighted bool) (*Graph, error) {
	if n < 0 {
		return nil, ErrInvalidOrder
	}

	g := &Graph{
		g:        simple.NewWeightedUndirectedGraph(0, 0),
		order:    n,
		edges:    make([]Edge, 0, len(edges)),
		degree:   make([]float64, n),
		weighted: weighted,
	}
	for v := 0; v < n; v++ {
		g.g.AddNode(simple.Node(v))
	}

	for i, e := range edges {
		if !weighted {
			e.Weight = DefaultWeight
		}
		if err := g.addEdge(e); err != nil {
			return nil, &EdgeError{Index: i, Cause: err}
		}
	}

	return g, nil
}

func (g *Graph) addEdge(e Edge) error {
	if e.U < 0 || e.U >= g.order || e.V < 0 || e.V >= g.order {
		return ErrVertexRange
	}
	if e.U == e.V {
		return ErrSelfLoop
	}
	if !(e.Weight > 0) || math.IsInf(e.Weight, 0) || math.IsInf(g.total+e.Weight, 0) {
		return ErrInvalidWeight
	}
	if g.g.HasEdgeBetween(int64(e.U), int64(e.V)) {
		return ErrDuplicateEdge
	}

	g.g.SetWeightedEdge(g.g.NewWeightedEdge(simple.Node(e.U), simple.Node(e.V), e.Weight))
	g.edges = append(g.edges, e)
	g.degree[e.U] += e.Weight
	g.degree[e.V] += e.Weight
	g.total += e.Weight
	return nil
}

// Order returns the number of vertices
func (g *Graph) Order() int { return g.order }

// Size returns the number of edges
func (g *Graph) Size() int { return len(g.edges) }

// Weighted reports whether edge weights came from the input
func (g *Graph) Weighted() bool { return g.weighted }

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Weight returns the weight of the edge between u and v, or 0 if there is none.
func (g *Graph) Weight(u, v int) float64 {
	if u == v {
		return 0
	}
	w, ok := g.g.Weight(int64(u), int64(v))
	if !ok {
		return 0
	}
	return w
}

// HasEdge reports whether u and v are adjacent
func (g *Graph) HasEdge(u, v int) bool {
	return g.g.HasEdgeBetween(int64(u), int64(v))
}

// Degree returns the weighted degree of v
func (g *Graph) Degree(v int) float64 {
	return g.degree[v]
}

// TotalWeight returns the sum of all edge weights (m in the modularity formula)
func (g *Graph) TotalWeight() float64 {
	return g.total
}

// Neighbors returns the vertices adjacent to v in ascending order.
func (g *Graph) Neighbors(v int) []int {
	out := make([]int, 0)
	for u := 0; u < g.order; u++ {
		if u != v && g.HasEdge(u, v) {
			out = append(out, u)
		}
	}
	return out
}

// Undirected exposes the backing gonum graph for read-only use.
func (g *Graph) Undirected() gonum.WeightedUndirected {
	return g.g
}
