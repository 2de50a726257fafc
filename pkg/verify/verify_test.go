package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/graphqubo/pkg/graph"
	"github.com/dd0wney/graphqubo/pkg/qubo"
)

func mustParse(t *testing.T, vertices int, structure string) *graph.Graph {
	t.Helper()
	g, err := graph.Parse(vertices, structure, false)
	require.NoError(t, err)
	return g
}

// permutationSample selects (v, perm[v]) for every v.
func permutationSample(perm []int, energy float64) qubo.Sample {
	n := len(perm)
	s := qubo.Sample{Assignment: make(map[qubo.Label]int8, n*n), Energy: energy}
	for v := 0; v < n; v++ {
		for w := 0; w < n; w++ {
			s.Assignment[qubo.Label{I: v, J: w}] = 0
		}
		s.Assignment[qubo.Label{I: v, J: perm[v]}] = 1
	}
	return s
}

func communitySample(assign []int, communities int, energy float64) qubo.Sample {
	s := qubo.Sample{Assignment: make(map[qubo.Label]int8), Energy: energy}
	for v, k := range assign {
		for c := 0; c < communities; c++ {
			s.Assignment[qubo.Label{I: v, J: c}] = 0
		}
		if k >= 0 {
			s.Assignment[qubo.Label{I: v, J: k}] = 1
		}
	}
	return s
}

func TestIsomorphism_Identity(t *testing.T) {
	g := mustParse(t, 5, "0-1,1-2,2-3,3-4")
	e := qubo.ExpectedIsomorphismEnergy(g)

	got := Isomorphism(permutationSample([]int{0, 1, 2, 3, 4}, e), e, 5)
	assert.Equal(t, Isomorphic, got)
}

func TestIsomorphism_CycleScenario(t *testing.T) {
	cycle := mustParse(t, 4, "0-1,1-2,2-3,3-0")
	perm := []int{1, 2, 3, 0}
	permuted, err := graph.Permute(cycle, perm)
	require.NoError(t, err)

	m, err := qubo.BuildIsomorphism(cycle, permuted)
	require.NoError(t, err)
	model, err := qubo.LabelIsomorphism(m, cycle)
	require.NoError(t, err)

	x := make([]int8, 16)
	for v, w := range perm {
		x[v*4+w] = 1
	}
	sample := qubo.Sample{Assignment: model.Assignment(x), Energy: model.EnergyOf(x)}
	require.Equal(t, -4.0, sample.Energy)

	assert.Equal(t, Isomorphic, Isomorphism(sample, -4, 4))
}

func TestIsomorphism_TwoImagesForOneVertex(t *testing.T) {
	s := permutationSample([]int{0, 1, 2, 3}, -4)
	s.Assignment[qubo.Label{I: 2, J: 2}] = 0
	s.Assignment[qubo.Label{I: 1, J: 2}] = 1 // 1 now maps to 1 and 2

	assert.Equal(t, BijectionError, Isomorphism(s, -4, 4))
}

func TestIsomorphism_BijectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		sample qubo.Sample
	}{
		{
			name:   "too few ones",
			sample: qubo.Sample{Assignment: map[qubo.Label]int8{{I: 0, J: 0}: 1, {I: 1, J: 1}: 1}},
		},
		{
			name: "repeated second coordinate",
			sample: qubo.Sample{Assignment: map[qubo.Label]int8{
				{I: 0, J: 0}: 1, {I: 1, J: 0}: 1, {I: 2, J: 2}: 1,
			}},
		},
		{
			name: "repeated first coordinate",
			sample: qubo.Sample{Assignment: map[qubo.Label]int8{
				{I: 0, J: 0}: 1, {I: 0, J: 1}: 1, {I: 2, J: 2}: 1,
			}},
		},
		{
			name: "coordinate out of range",
			sample: qubo.Sample{Assignment: map[qubo.Label]int8{
				{I: 0, J: 0}: 1, {I: 1, J: 1}: 1, {I: 2, J: 3}: 1,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, BijectionError, Isomorphism(tt.sample, -2, 3))
		})
	}
}

func TestIsomorphism_NonIsomorphic(t *testing.T) {
	assert.Equal(t, NonIsomorphic, Isomorphism(permutationSample([]int{0, 1, 2, 3}, -2), -3, 4))
}

func TestIsomorphism_EnergyNoise(t *testing.T) {
	assert.Equal(t, Isomorphic, Isomorphism(permutationSample([]int{0, 1, 2}, -2.9999999999999), -3, 3))
	assert.Equal(t, NonIsomorphic, Isomorphism(permutationSample([]int{0, 1, 2}, -2.5), -3, 3))
}

func TestIsomorphism_DoesNotMutate(t *testing.T) {
	s := permutationSample([]int{1, 0}, -1)
	before := len(s.Assignment)
	Isomorphism(s, -1, 2)
	assert.Len(t, s.Assignment, before)
	assert.Equal(t, int8(1), s.Assignment[qubo.Label{I: 0, J: 1}])
}

func TestMapping(t *testing.T) {
	mapping, ok := Mapping(permutationSample([]int{2, 0, 1}, 0), 3)
	require.True(t, ok)
	assert.Equal(t, []int{2, 0, 1}, mapping)
}

func TestCommunity_MatchesReference(t *testing.T) {
	g := mustParse(t, 6, "0-1,1-2,2-0,3-4,4-5,5-3")

	// Perfect split has modularity 0.5 and QUBO energy −0.5
	report, err := Community(g, communitySample([]int{0, 0, 0, 1, 1, 1}, 2, -0.5), 2)
	require.NoError(t, err)

	assert.Equal(t, "0.000", report.Gap)
	assert.Equal(t, ReferenceGreedy, report.Reference)
	assert.InDelta(t, 0.5, report.ReferenceModularity, 1e-9)
	assert.True(t, report.Feasible)
	assert.InDelta(t, 0.5, report.SampleModularity, 1e-9)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, report.Assignment)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, report.ReferencePartition)
}

func TestCommunity_WorseThanReference(t *testing.T) {
	g := mustParse(t, 6, "0-1,1-2,2-0,3-4,4-5,5-3")

	report, err := Community(g, communitySample([]int{0, 0, 0, 0, 0, 0}, 2, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, "0.500", report.Gap)
	assert.Equal(t, 0.5, report.GapValue)
}

func TestCommunity_InfeasibleSample(t *testing.T) {
	g := mustParse(t, 6, "0-1,1-2,2-0,3-4,4-5,5-3")

	report, err := Community(g, communitySample([]int{0, 0, -1, 1, 1, 1}, 2, -0.2), 2)
	require.NoError(t, err)
	assert.False(t, report.Feasible)
	assert.Equal(t, -1, report.Assignment[2])
	assert.Equal(t, "0.300", report.Gap)
}

func TestCommunity_References(t *testing.T) {
	g := mustParse(t, 6, "0-1,1-2,2-0,3-4,4-5,5-3")
	sample := communitySample([]int{0, 0, 0, 1, 1, 1}, 2, -0.5)

	for _, ref := range []Reference{ReferenceLouvain, ReferenceLabelPropagation} {
		report, err := Community(g, sample, 2, WithReference(ref))
		require.NoError(t, err, ref)
		assert.Equal(t, "0.000", report.Gap, ref)
	}

	_, err := Community(g, sample, 2, WithReference("spectral"))
	assert.ErrorIs(t, err, qubo.ErrInvalidArgument)
}

func TestCommunity_InvalidCommunities(t *testing.T) {
	g := mustParse(t, 3, "0-1")

	_, err := Community(g, qubo.Sample{}, 0)
	assert.ErrorIs(t, err, qubo.ErrInvalidArgument)

	_, err = Community(g, qubo.Sample{}, 4)
	assert.ErrorIs(t, err, qubo.ErrInvalidArgument)

	_, err = Community(nil, qubo.Sample{}, 1)
	assert.ErrorIs(t, err, qubo.ErrInvalidArgument)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.123, Round3(0.12345))
	assert.Equal(t, 0.0, Round3(-0.0001))
	assert.Equal(t, -1.5, Round3(-1.5))
}
