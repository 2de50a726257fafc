package pipeline

import (
	"github.com/dd0wney/graphqubo/pkg/algorithms"
	"github.com/dd0wney/graphqubo/pkg/graph"
	"github.com/dd0wney/graphqubo/pkg/qubo"
	"github.com/dd0wney/graphqubo/pkg/verify"
)

// Explanations of how each problem's result is graded
const (
	CommunityCorrectness = "The accuracy is measured by the difference between the modularity of the " +
		"lowest-energy sample and the modularity of a classical greedy partition of the same graph. " +
		"0.000 means the solver matched the classical result; larger values mean poorer modularity."
	IsomorphismCorrectness = "The graph is tested against a copy of itself with randomly permuted vertices, " +
		"so a working solver reports the graphs as isomorphic. The accuracy is how far the lowest energy " +
		"is above the expected energy -|E|: 0 for a correct outcome, larger values are further away."
)

// MatrixData is the non-zero part of a QUBO matrix
type MatrixData struct {
	Size  int         `json:"size"`
	Cells []qubo.Cell `json:"data"`
}

// Stats summarises a run
type Stats struct {
	graph.Stats
	Components        int     `json:"components"`
	AverageClustering float64 `json:"average_clustering"`
	Triangles         int     `json:"triangles"`
	Transitivity      float64 `json:"transitivity"`
	Diameter          int     `json:"diameter"`
	Variables         int     `json:"variables"`
	Interactions      int     `json:"interactions"`
	Solver            string  `json:"solver"`
	NumReads          int     `json:"num_reads"`
	Samples           int     `json:"samples"`
	BuildTimeMs       float64 `json:"build_time_ms"`
	SolveTimeMs       float64 `json:"solve_time_ms"`
}

// CommunityResult is the outcome of a community detection run
type CommunityResult struct {
	RunID       string                  `json:"run_id"`
	Problem     string                  `json:"problem"`
	Communities int                     `json:"communities"`
	Penalty     float64                 `json:"penalty"`
	Graph       graph.NodeLink          `json:"graph"`
	Matrix      MatrixData              `json:"qubo"`
	Offset      float64                 `json:"offset"`
	Stats       Stats                   `json:"basic_stats"`
	Best        qubo.Sample             `json:"best"`
	Report      *verify.CommunityReport `json:"report"`
	// Success is the report's gap, the figure shown to users
	Success string `json:"success"`
}

// IsomorphismResult is the outcome of a graph isomorphism run
type IsomorphismResult struct {
	RunID   string         `json:"run_id"`
	Problem string         `json:"problem"`
	Graph1  graph.NodeLink `json:"graph1"`
	Graph2  graph.NodeLink `json:"graph2"`
	// Permutation is set when Graph2 was generated from Graph1; it maps
	// each vertex of Graph1 to its label in Graph2.
	Permutation     []int          `json:"permutation,omitempty"`
	PermutationSeed uint64         `json:"permutation_seed,omitempty"`
	Penalty         float64        `json:"penalty"`
	Matrix          MatrixData     `json:"qubo"`
	Offset          float64        `json:"offset"`
	Stats           Stats          `json:"basic_stats"`
	Best            qubo.Sample    `json:"best"`
	ExpectedEnergy  float64        `json:"exp_energy"`
	Success         float64        `json:"success"`
	Verdict         verify.Verdict `json:"result"`
	// Mapping[v1] = v2 when the best sample is a bijection
	Mapping []int `json:"mapping,omitempty"`
}

// basicStats collects the graph and problem size figures of a run
func basicStats(g *graph.Graph, model *qubo.Model) Stats {
	triangles := algorithms.CountTriangles(g)
	return Stats{
		Stats:             graph.Statistics(g),
		Components:        len(algorithms.ConnectedComponents(g).Communities),
		AverageClustering: algorithms.AverageClusteringCoefficient(g),
		Triangles:         triangles.GlobalCount,
		Transitivity:      triangles.Transitivity,
		Diameter:          algorithms.Diameter(g),
		Variables:         model.NumVariables(),
		Interactions:      model.NumInteractions(),
	}
}

func matrixData(m *qubo.Matrix) MatrixData {
	return MatrixData{Size: m.Size(), Cells: m.Cells()}
}
