package graph

import (
	"fmt"
	"math/rand/v2"
)

// Permute returns a copy of g with its vertices relabelled by perm, where
// perm[v] is the new label of vertex v. The copy is isomorphic to g by
// construction.
func Permute(g *Graph, perm []int) (*Graph, error) {
	if len(perm) != g.order {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrPermutation, len(perm), g.order)
	}
	seen := make([]bool, g.order)
	for v, p := range perm {
		if p < 0 || p >= g.order || seen[p] {
			return nil, fmt.Errorf("%w: vertex %d maps to %d", ErrPermutation, v, p)
		}
		seen[p] = true
	}

	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = Edge{U: perm[e.U], V: perm[e.V], Weight: e.Weight}
	}
	return New(g.order, edges, g.weighted)
}

// RandomPermutation draws a uniformly random permutation of g's vertices and
// applies it. The permutation is returned alongside the new graph.
func RandomPermutation(g *Graph, rng *rand.Rand) (*Graph, []int, error) {
	perm := rng.Perm(g.order)
	permuted, err := Permute(g, perm)
	if err != nil {
		return nil, nil, err
	}
	return permuted, perm, nil
}
