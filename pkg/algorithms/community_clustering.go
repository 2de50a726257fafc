package algorithms

import "github.com/dd0wney/graphqubo/pkg/graph"

// ClusteringCoefficient computes local clustering coefficient for all vertices
// Measures how close a vertex's neighbors are to being a complete graph
func ClusteringCoefficient(g *graph.Graph) []float64 {
	coefficients := make([]float64, g.Order())

	for v := range coefficients {
		neighbors := g.Neighbors(v)
		k := len(neighbors)
		if k < 2 {
			continue
		}

		triangles := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					triangles++
				}
			}
		}

		// Clustering coefficient = actual triangles / possible triangles
		coefficients[v] = float64(triangles) / float64(k*(k-1)/2)
	}

	return coefficients
}

// AverageClusteringCoefficient computes the average clustering coefficient
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, coef := range coefficients {
		sum += coef
	}

	return sum / float64(len(coefficients))
}
