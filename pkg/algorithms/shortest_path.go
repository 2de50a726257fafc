package algorithms

import (
	"container/list"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

// Unreachable marks a vertex with no path from the BFS source
const Unreachable = -1

// HopDistances returns the number of edges on a shortest path from source to
// every vertex, or Unreachable. Edge weights are ignored.
func HopDistances(g *graph.Graph, source int) []int {
	dist := make([]int, g.Order())
	for i := range dist {
		dist[i] = Unreachable
	}
	if source < 0 || source >= g.Order() {
		return dist
	}

	queue := list.New()
	queue.PushBack(source)
	dist[source] = 0

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(int)
		for _, next := range g.Neighbors(current) {
			if dist[next] == Unreachable {
				dist[next] = dist[current] + 1
				queue.PushBack(next)
			}
		}
	}

	return dist
}

// ShortestPath returns one shortest path from start to end, both included,
// or nil when end is unreachable.
func ShortestPath(g *graph.Graph, start, end int) []int {
	n := g.Order()
	if start < 0 || start >= n || end < 0 || end >= n {
		return nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = Unreachable
	}
	parent[start] = start

	queue := list.New()
	queue.PushBack(start)
	for queue.Len() > 0 && parent[end] == Unreachable {
		current := queue.Remove(queue.Front()).(int)
		for _, next := range g.Neighbors(current) {
			if parent[next] == Unreachable {
				parent[next] = current
				queue.PushBack(next)
			}
		}
	}
	if parent[end] == Unreachable {
		return nil
	}

	return reconstructPath(parent, start, end)
}

// reconstructPath walks parent links back from end
func reconstructPath(parent []int, start, end int) []int {
	path := []int{end}
	for v := end; v != start; v = parent[v] {
		path = append(path, parent[v])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Diameter is the longest shortest path, in hops, between two vertices of
// the same component. Disconnected graphs report the largest component
// diameter; a graph without edges has diameter 0.
func Diameter(g *graph.Graph) int {
	diameter := 0
	for v := 0; v < g.Order(); v++ {
		for _, d := range HopDistances(g, v) {
			if d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}
