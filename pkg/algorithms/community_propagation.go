package algorithms

import (
	"sort"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// LabelPropagation performs label propagation for community detection.
// Vertices are visited in index order and adopt the label with the largest
// incident weight, ties going to the smaller label, so the result is
// deterministic.
func LabelPropagation(g *graph.Graph, maxIterations int) *CommunityDetectionResult {
	n := g.Order()

	// Initialize: each vertex in its own community
	labels := make([]int, n)
	for v := range labels {
		labels[v] = v
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		for v := 0; v < n; v++ {
			neighbors := g.Neighbors(v)
			if len(neighbors) == 0 {
				continue
			}

			labelWeight := make(map[int]float64)
			for _, w := range neighbors {
				labelWeight[labels[w]] += g.Weight(v, w)
			}

			best := labels[v]
			bestWeight := labelWeight[best]
			for label, weight := range labelWeight {
				if weight > bestWeight || (weight == bestWeight && label < best) {
					best, bestWeight = label, weight
				}
			}

			if best != labels[v] {
				labels[v] = best
				changed = true
			}
		}

		if !changed {
			break // Converged
		}
	}

	// Build communities from labels
	communityNodes := make(map[int][]int)
	for v, label := range labels {
		communityNodes[label] = append(communityNodes[label], v)
	}
	groups := make([][]int, 0, len(communityNodes))
	for _, nodes := range communityNodes {
		groups = append(groups, nodes)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	return fromPartition(g, groups)
}
