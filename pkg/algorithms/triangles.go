package algorithms

import "github.com/dd0wney/graphqubo/pkg/graph"

// TriangleCountResult holds per-vertex and global triangle counts
type TriangleCountResult struct {
	PerVertex   []int
	GlobalCount int
	// Transitivity is 3·triangles / connected triples, 0 without triples
	Transitivity float64
}

// CountTriangles counts triangles in g. For each vertex u it checks every
// pair (v,w) of u's neighbours; if v and w are adjacent that is a triangle.
// Each triangle is counted once per participating vertex, so
// GlobalCount = sum(PerVertex) / 3.
func CountTriangles(g *graph.Graph) *TriangleCountResult {
	perVertex := make([]int, g.Order())
	triples := 0
	total := 0

	for u := range perVertex {
		neighbors := g.Neighbors(u)
		k := len(neighbors)
		triples += k * (k - 1) / 2

		count := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					count++
				}
			}
		}
		perVertex[u] = count
		total += count
	}

	result := &TriangleCountResult{
		PerVertex:   perVertex,
		GlobalCount: total / 3,
	}
	if triples > 0 {
		result.Transitivity = float64(total) / float64(triples)
	}
	return result
}
