package qubo

import "github.com/dd0wney/graphqubo/pkg/graph"

// CommunityLabels returns the label of every variable of a community
// detection problem: index v*communities+k is (v, k).
func CommunityLabels(vertices, communities int) []Label {
	labels := make([]Label, 0, vertices*communities)
	for v := 0; v < vertices; v++ {
		for k := 0; k < communities; k++ {
			labels = append(labels, Label{I: v, J: k})
		}
	}
	return labels
}

// IsomorphismLabels returns the label of every variable of an isomorphism
// problem: index v1*vertices+v2 is (v1, v2).
func IsomorphismLabels(vertices int) []Label {
	return CommunityLabels(vertices, vertices)
}

// LabelCommunityDetection labels a matrix built by BuildCommunityDetection.
func LabelCommunityDetection(m *Matrix, g *graph.Graph, communities int) (*Model, error) {
	const op = "label community detection"

	if m == nil || g == nil {
		return nil, invalidArgument(op, "matrix and graph are required")
	}
	if communities < 1 {
		return nil, invalidArgument(op, "communities must be at least 1, got %d", communities)
	}
	if want := g.Order() * communities; m.Size() != want {
		return nil, invalidArgument(op, "matrix has %d variables, want %d", m.Size(), want)
	}
	return NewModel(m, CommunityLabels(g.Order(), communities))
}

// LabelIsomorphism labels a matrix built by BuildIsomorphism. g is the first
// graph of the pair.
func LabelIsomorphism(m *Matrix, g *graph.Graph) (*Model, error) {
	const op = "label isomorphism"

	if m == nil || g == nil {
		return nil, invalidArgument(op, "matrix and graph are required")
	}
	n := g.Order()
	if m.Size() != n*n {
		return nil, invalidArgument(op, "matrix has %d variables, want %d", m.Size(), n*n)
	}
	return NewModel(m, IsomorphismLabels(n))
}
