package qubo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/graphqubo/pkg/graph"
)

func mustParse(t *testing.T, vertices int, structure string, weighted bool) *graph.Graph {
	t.Helper()
	g, err := graph.Parse(vertices, structure, weighted)
	require.NoError(t, err)
	return g
}

// permutationVector sets x[v*n+perm[v]] = 1 for every v.
func permutationVector(perm []int) []int8 {
	n := len(perm)
	x := make([]int8, n*n)
	for v, w := range perm {
		x[v*n+w] = 1
	}
	return x
}

// oneHotVector assigns vertex v to community[v].
func oneHotVector(community []int, communities int) []int8 {
	x := make([]int8, len(community)*communities)
	for v, k := range community {
		x[v*communities+k] = 1
	}
	return x
}

func TestBuildCommunityDetection_Dimensions(t *testing.T) {
	g := mustParse(t, 5, "0-1,1-2,2-3,3-4", false)

	m, err := BuildCommunityDetection(g, 3)
	require.NoError(t, err)

	r, c := m.Q.Dims()
	assert.Equal(t, 15, r)
	assert.Equal(t, 15, c)
	assert.InDelta(t, 0.5, m.Offset, 1e-12)
	assert.True(t, m.IsUpperTriangular())
}

func TestBuildCommunityDetection_TwoTriangles(t *testing.T) {
	g := mustParse(t, 6, "0-1,1-2,2-0,3-4,4-5,5-3", false)

	m, err := BuildCommunityDetection(g, 2)
	require.NoError(t, err)

	// Each triangle is its own community: Q = 2·(3/6 − (6/12)²) = 0.5
	e, err := m.Energy(oneHotVector([]int{0, 0, 0, 1, 1, 1}, 2))
	require.NoError(t, err)
	assert.InDelta(t, -0.5, e, 1e-12)

	// Everything in one community has modularity 0
	e, err = m.Energy(oneHotVector([]int{1, 1, 1, 1, 1, 1}, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, e, 1e-12)
}

func TestOneHotConstraint_TwoTriangles(t *testing.T) {
	q := newMatrix(12)
	addOneHot(q, 6, 2, 0.1)

	zero, err := q.Energy(make([]int8, 12))
	require.NoError(t, err)
	assert.InDelta(t, 0.6, zero, 1e-12)

	feasible, err := q.Energy(oneHotVector([]int{0, 1, 0, 1, 0, 1}, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, feasible, 1e-12)

	both := oneHotVector([]int{0, 1, 0, 1, 0, 1}, 2)
	both[1] = 1 // vertex 0 in both communities
	violated, err := q.Energy(both)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, violated, 1e-12)
}

func TestBuildCommunityDetection_Errors(t *testing.T) {
	g := mustParse(t, 5, "0-1", false)

	_, err := BuildCommunityDetection(g, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = BuildCommunityDetection(g, 2, WithPenalty(0))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BuildCommunityDetection(nil, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	empty := mustParse(t, 5, "", false)
	_, err = BuildCommunityDetection(empty, 2)
	assert.ErrorIs(t, err, ErrGraphStructure)
	assert.Equal(t, KindGraphStructure, KindOf(err))

	// Finite total weight whose degree products overflow
	huge := mustParse(t, 3, "0-1:1e200,1-2:1e200", true)
	_, err = BuildCommunityDetection(huge, 2)
	assert.ErrorIs(t, err, ErrGraphStructure)
}

func TestBuildCommunityDetection_Penalty(t *testing.T) {
	g := mustParse(t, 3, "0-1,1-2", false)

	m, err := BuildCommunityDetection(g, 2, WithPenalty(1.5))
	require.NoError(t, err)
	assert.InDelta(t, 4.5, m.Offset, 1e-12)
	// Cross term between the two communities of vertex 0
	assert.InDelta(t, 3.0, m.Q.At(0, 1), 1e-12)
}

func TestBuildIsomorphism_Cycle(t *testing.T) {
	cycle := mustParse(t, 4, "0-1,1-2,2-3,3-0", false)
	perm := []int{1, 2, 3, 0}
	permuted, err := graph.Permute(cycle, perm)
	require.NoError(t, err)

	m, err := BuildIsomorphism(cycle, permuted)
	require.NoError(t, err)

	assert.Equal(t, 16, m.Size())
	assert.Equal(t, 32.0, m.Offset, "offset is 2·n·p with p = n")
	assert.True(t, m.IsUpperTriangular())

	e, err := m.Energy(permutationVector(perm))
	require.NoError(t, err)
	assert.Equal(t, -4.0, e)
	assert.Equal(t, ExpectedIsomorphismEnergy(cycle), e)

	model, err := LabelIsomorphism(m, cycle)
	require.NoError(t, err)
	assert.Equal(t, -4.0, model.EnergyOf(permutationVector(perm)))
	assert.Equal(t, -4.0, model.Energy(model.Assignment(permutationVector(perm))))
}

func TestBuildIsomorphism_NonIsomorphicPair(t *testing.T) {
	path := mustParse(t, 4, "0-1,1-2,2-3", false)
	star := mustParse(t, 4, "0-1,0-2,0-3", false)

	m, err := BuildIsomorphism(path, star)
	require.NoError(t, err)

	// No bijection maps a path onto a star, so every permutation stays above −3
	for _, perm := range [][]int{{0, 1, 2, 3}, {1, 0, 2, 3}, {2, 0, 1, 3}, {3, 0, 1, 2}} {
		e, err := m.Energy(permutationVector(perm))
		require.NoError(t, err)
		assert.Greater(t, e, -3.0)
	}
}

func TestBuildIsomorphism_Errors(t *testing.T) {
	a := mustParse(t, 4, "0-1", false)
	b := mustParse(t, 5, "0-1", false)

	_, err := BuildIsomorphism(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGraphStructure))
	assert.Equal(t, "build isomorphism: graph structure: vertex counts differ: 4 and 5", err.Error())

	_, err = BuildIsomorphism(a, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BuildIsomorphism(a, a, WithPenalty(-1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFoldUpper(t *testing.T) {
	m := newMatrix(3)
	m.add(0, 1, 1)
	m.add(1, 0, 2)
	m.add(2, 0, -4)
	m.add(1, 1, 5)

	before, err := m.Energy([]int8{1, 1, 1})
	require.NoError(t, err)

	m.FoldUpper()
	assert.True(t, m.IsUpperTriangular())
	assert.Equal(t, 3.0, m.Q.At(0, 1))
	assert.Equal(t, -4.0, m.Q.At(0, 2))
	assert.Equal(t, 5.0, m.Q.At(1, 1))

	after, err := m.Energy([]int8{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMatrixEnergy_Errors(t *testing.T) {
	m := newMatrix(2)

	_, err := m.Energy([]int8{1})
	assert.Error(t, err)

	_, err = m.Energy([]int8{1, 2})
	assert.Error(t, err)
}

func TestMatrixCells(t *testing.T) {
	m := newMatrix(2)
	m.add(0, 0, -1)
	m.add(0, 1, 2)

	assert.Equal(t, []Cell{{Row: 0, Col: 0, Value: -1}, {Row: 0, Col: 1, Value: 2}}, m.Cells())
}

func TestLabelCommunityDetection(t *testing.T) {
	g := mustParse(t, 3, "0-1,1-2", false)
	m, err := BuildCommunityDetection(g, 2)
	require.NoError(t, err)

	model, err := LabelCommunityDetection(m, g, 2)
	require.NoError(t, err)

	require.Len(t, model.Variables, 6)
	assert.Equal(t, Label{I: 2, J: 1}, model.Variables[5])

	for i := 0; i < 6; i++ {
		l := model.Variables[i]
		assert.Equal(t, m.Q.At(i, i), model.Linear[l], "linear %s", l)
		idx, ok := model.Index(l)
		assert.True(t, ok)
		assert.Equal(t, i, idx)
		for j := i + 1; j < 6; j++ {
			want := m.Q.At(i, j)
			got := model.Quadratic[Pair{U: l, V: model.Variables[j]}]
			assert.Equal(t, want, got, "quadratic %s %s", l, model.Variables[j])
		}
	}
	assert.Equal(t, m.Offset, model.Offset)

	_, err = LabelCommunityDetection(m, g, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLabel_Idempotent(t *testing.T) {
	g := mustParse(t, 4, "0-1,1-2,2-3,3-0", false)
	m, err := BuildIsomorphism(g, g)
	require.NoError(t, err)

	first, err := LabelIsomorphism(m, g)
	require.NoError(t, err)
	second, err := LabelIsomorphism(m, g)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Model{})); diff != "" {
		t.Errorf("labeling is not deterministic (-first +second):\n%s", diff)
	}
	assert.True(t, m.IsUpperTriangular(), "labeling must not touch the matrix")
}

func TestNewModel_DuplicateLabel(t *testing.T) {
	m := newMatrix(2)
	_, err := NewModel(m, []Label{{0, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLabel_JSONKey(t *testing.T) {
	data, err := json.Marshal(map[Label]int8{{I: 3, J: 1}: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"3,1":1}`, string(data))

	var back map[Label]int8
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, int8(1), back[Label{I: 3, J: 1}])

	var l Label
	assert.Error(t, l.UnmarshalText([]byte("3")))
}

func TestSampleSet(t *testing.T) {
	set := NewSampleSet([]Sample{
		{Energy: 2, Occurrences: 1},
		{Energy: -1, Occurrences: 2},
		{Energy: 2, Occurrences: 3},
	})

	best, ok := set.First()
	require.True(t, ok)
	assert.Equal(t, -1.0, best.Energy)
	assert.Equal(t, 1, set.Samples[1].Occurrences, "ties keep solver order")
	assert.Equal(t, 3, set.Len())

	_, ok = NewSampleSet(nil).First()
	assert.False(t, ok)
}

func TestSampleOnes(t *testing.T) {
	s := Sample{Assignment: map[Label]int8{{1, 0}: 1, {0, 1}: 1, {0, 0}: 0}}
	assert.Equal(t, []Label{{0, 1}, {1, 0}}, s.Ones())
}
