package graph

// Node is a vertex in the node-link export
type Node struct {
	ID     int     `json:"id"`
	Degree float64 `json:"degree"`
}

// NodeLink is the node-link JSON form used by the front end to draw a graph
type NodeLink struct {
	Directed bool   `json:"directed"`
	Weighted bool   `json:"weighted"`
	Nodes    []Node `json:"nodes"`
	Links    []Edge `json:"links"`
}

// Stats summarises a graph for result pages
type Stats struct {
	Vertices    int     `json:"vertices"`
	Edges       int     `json:"edges"`
	Density     float64 `json:"density"`
	TotalWeight float64 `json:"total_weight"`
	MaxDegree   float64 `json:"max_degree"`
}

// ToNodeLink exports g in node-link form
func ToNodeLink(g *Graph) NodeLink {
	nodes := make([]Node, g.order)
	for v := 0; v < g.order; v++ {
		nodes[v] = Node{ID: v, Degree: g.degree[v]}
	}
	return NodeLink{
		Weighted: g.weighted,
		Nodes:    nodes,
		Links:    g.Edges(),
	}
}

// Statistics computes basic statistics for g
func Statistics(g *Graph) Stats {
	s := Stats{
		Vertices:    g.order,
		Edges:       len(g.edges),
		TotalWeight: g.total,
	}
	if g.order > 1 {
		s.Density = 2 * float64(len(g.edges)) / float64(g.order*(g.order-1))
	}
	for _, d := range g.degree {
		if d > s.MaxDegree {
			s.MaxDegree = d
		}
	}
	return s
}
