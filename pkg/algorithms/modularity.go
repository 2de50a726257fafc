package algorithms

import (
	"fmt"
	"sort"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// Modularity scores a partition of g with resolution 1. Vertices missing
// from the partition are ignored. A graph without edges scores 0.
func Modularity(g *graph.Graph, partition [][]int) float64 {
	if g.TotalWeight() == 0 {
		return 0
	}
	communities := make([][]gonum.Node, len(partition))
	for i, nodes := range partition {
		communities[i] = make([]gonum.Node, len(nodes))
		for j, v := range nodes {
			communities[i][j] = simple.Node(v)
		}
	}
	return community.Q(g.Undirected(), communities, 1)
}

// GreedyModularity partitions g by Clauset-Newman-Moore agglomeration.
// Starting from singletons it repeatedly merges the pair of adjacent
// communities with the largest modularity gain
//
//	ΔQ = W_ab/m − K_a·K_b/(2m²)
//
// where W_ab is the edge weight between the communities, K the summed
// weighted degrees and m the total edge weight. Merging continues while the
// gain is non-negative or more than bestN communities remain. If no adjacent
// pair is left while more than bestN communities remain, the two largest
// communities are merged until bestN remain. Ties go to the lowest indices.
func GreedyModularity(g *graph.Graph, bestN int) (*CommunityDetectionResult, error) {
	n := g.Order()
	if bestN < 1 || bestN > n {
		return nil, fmt.Errorf("greedy modularity: best_n %d outside 1..%d", bestN, n)
	}

	members := make([][]int, n)
	alive := make([]bool, n)
	k := make([]float64, n)
	w := make([][]float64, n)
	for v := 0; v < n; v++ {
		members[v] = []int{v}
		alive[v] = true
		k[v] = g.Degree(v)
		w[v] = make([]float64, n)
	}
	for _, e := range g.Edges() {
		w[e.U][e.V] += e.Weight
		w[e.V][e.U] += e.Weight
	}

	m := g.TotalWeight()
	count := n
	exhausted := m == 0

	for count > 1 && !exhausted {
		a, b, found := -1, -1, false
		best := 0.0
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !alive[j] || w[i][j] <= 0 {
					continue
				}
				dq := w[i][j]/m - k[i]*k[j]/(2*m*m)
				if !found || dq > best {
					a, b, best, found = i, j, dq, true
				}
			}
		}
		if !found {
			exhausted = true
			break
		}
		if best < 0 && count <= bestN {
			break
		}

		// Merge b into a
		members[a] = append(members[a], members[b]...)
		members[b] = nil
		alive[b] = false
		k[a] += k[b]
		for c := 0; c < n; c++ {
			if c == a || c == b {
				continue
			}
			w[a][c] += w[b][c]
			w[c][a] = w[a][c]
		}
		count--
	}

	groups := make([][]int, 0, count)
	for i := 0; i < n; i++ {
		if alive[i] {
			nodes := append([]int(nil), members[i]...)
			sort.Ints(nodes)
			groups = append(groups, nodes)
		}
	}
	sortBySize(groups)

	if exhausted {
		for len(groups) > bestN {
			merged := append(append([]int(nil), groups[0]...), groups[1]...)
			sort.Ints(merged)
			groups = append([][]int{merged}, groups[2:]...)
			sortBySize(groups)
		}
	}

	return fromPartition(g, groups), nil
}

// Louvain partitions g with gonum's multi-level modularity optimisation.
// The number of communities is chosen by the algorithm, and the result may
// differ between runs.
func Louvain(g *graph.Graph) *CommunityDetectionResult {
	if g.TotalWeight() == 0 {
		return ConnectedComponents(g)
	}

	reduced := community.Modularize(g.Undirected(), 1, nil)
	groups := make([][]int, 0)
	for _, c := range reduced.Communities() {
		if len(c) == 0 {
			continue
		}
		nodes := make([]int, len(c))
		for i, node := range c {
			nodes[i] = int(node.ID())
		}
		sort.Ints(nodes)
		groups = append(groups, nodes)
	}
	sortBySize(groups)

	return fromPartition(g, groups)
}

// sortBySize orders groups largest first, ties by lowest vertex. Every group
// must be non-empty and sorted.
func sortBySize(groups [][]int) {
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})
}

func fromPartition(g *graph.Graph, groups [][]int) *CommunityDetectionResult {
	communities := make([]*Community, 0, len(groups))
	nodeCommunity := make(map[int]int, g.Order())
	for id, nodes := range groups {
		sorted := append([]int(nil), nodes...)
		sort.Ints(sorted)
		for _, v := range sorted {
			nodeCommunity[v] = id
		}
		communities = append(communities, &Community{
			ID:      id,
			Nodes:   sorted,
			Size:    len(sorted),
			Density: density(g, sorted),
		})
	}
	return newResult(g, communities, nodeCommunity)
}

func newResult(g *graph.Graph, communities []*Community, nodeCommunity map[int]int) *CommunityDetectionResult {
	r := &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
	}
	r.Modularity = Modularity(g, r.Partition())
	return r
}

// density is the fraction of vertex pairs inside nodes that are joined.
func density(g *graph.Graph, nodes []int) float64 {
	s := len(nodes)
	if s < 2 {
		return 0
	}
	edges := 0
	for i := 0; i < s; i++ {
		for j := i + 1; j < s; j++ {
			if g.HasEdge(nodes[i], nodes[j]) {
				edges++
			}
		}
	}
	return float64(edges) / float64(s*(s-1)/2)
}
