package algorithms

import (
	"reflect"
	"testing"
)

// TestShortestPath_SameVertex tests the path from a vertex to itself
func TestShortestPath_SameVertex(t *testing.T) {
	g := setupCommunityTestGraph(t, 3, "0-1")

	path := ShortestPath(g, 1, 1)
	if !reflect.DeepEqual(path, []int{1}) {
		t.Errorf("Expected path [1], got %v", path)
	}
}

// TestShortestPath_Chain tests a path through every vertex
func TestShortestPath_Chain(t *testing.T) {
	g := setupCommunityTestGraph(t, 4, "0-1,1-2,2-3")

	path := ShortestPath(g, 0, 3)
	if !reflect.DeepEqual(path, []int{0, 1, 2, 3}) {
		t.Errorf("Expected path [0 1 2 3], got %v", path)
	}
}

// TestShortestPath_Shortcut tests that the shorter of two routes is taken
func TestShortestPath_Shortcut(t *testing.T) {
	g := setupCommunityTestGraph(t, 5, "0-1,1-2,2-3,3-4,0-4")

	path := ShortestPath(g, 0, 3)
	if !reflect.DeepEqual(path, []int{0, 4, 3}) {
		t.Errorf("Expected path [0 4 3], got %v", path)
	}
}

// TestShortestPath_NoPath tests disconnected and out-of-range vertices
func TestShortestPath_NoPath(t *testing.T) {
	g := setupCommunityTestGraph(t, 4, "0-1,2-3")

	if path := ShortestPath(g, 0, 3); path != nil {
		t.Errorf("Expected no path, got %v", path)
	}
	if path := ShortestPath(g, 0, 9); path != nil {
		t.Errorf("Expected no path to a missing vertex, got %v", path)
	}
}

func TestHopDistances(t *testing.T) {
	g := setupCommunityTestGraph(t, 5, "0-1,1-2,2-3")

	got := HopDistances(g, 0)
	want := []int{0, 1, 2, 3, Unreachable}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected distances %v, got %v", want, got)
	}
}

func TestDiameter(t *testing.T) {
	tests := []struct {
		name      string
		vertices  int
		structure string
		expected  int
	}{
		{name: "no edges", vertices: 3, structure: "", expected: 0},
		{name: "barbell", vertices: 6, structure: barbell, expected: 3},
		{name: "two components", vertices: 7, structure: "0-1,1-2,3-4", expected: 2},
		{name: "cycle", vertices: 6, structure: "0-1,1-2,2-3,3-4,4-5,5-0", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setupCommunityTestGraph(t, tt.vertices, tt.structure)
			if got := Diameter(g); got != tt.expected {
				t.Errorf("Diameter() = %d, want %d", got, tt.expected)
			}
		})
	}
}
