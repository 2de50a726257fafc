package algorithms

import (
	"container/list"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph. Components
// are numbered in order of their lowest vertex.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	n := g.Order()
	visited := make([]bool, n)
	nodeCommunity := make(map[int]int, n)
	communities := make([]*Community, 0)
	communityID := 0

	// BFS to find each component
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := &Community{
			ID:    communityID,
			Nodes: make([]int, 0),
		}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			v := queue.Remove(queue.Front()).(int)
			component.Nodes = append(component.Nodes, v)
			nodeCommunity[v] = communityID

			for _, w := range g.Neighbors(v) {
				if !visited[w] {
					visited[w] = true
					queue.PushBack(w)
				}
			}
		}

		component.Size = len(component.Nodes)
		component.Density = density(g, component.Nodes)
		communities = append(communities, component)
		communityID++
	}

	return newResult(g, communities, nodeCommunity)
}
