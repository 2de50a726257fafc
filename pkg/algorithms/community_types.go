package algorithms

// Community represents a detected community
type Community struct {
	ID      int
	Nodes   []int
	Size    int
	Density float64 // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64     // Quality measure of the partitioning
	NodeCommunity map[int]int // Vertex -> Community ID
}

// Partition returns the vertex sets of the result, one per community.
func (r *CommunityDetectionResult) Partition() [][]int {
	out := make([][]int, len(r.Communities))
	for i, c := range r.Communities {
		out[i] = append([]int(nil), c.Nodes...)
	}
	return out
}
