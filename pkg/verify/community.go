package verify

import (
	"fmt"
	"strconv"

	"github.com/dd0wney/graphqubo/pkg/algorithms"
	"github.com/dd0wney/graphqubo/pkg/graph"
	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// Reference selects the classical algorithm the solver is graded against
type Reference string

const (
	ReferenceGreedy           Reference = "greedy"
	ReferenceLouvain          Reference = "louvain"
	ReferenceLabelPropagation Reference = "label-propagation"
)

// Valid reports whether r names a known reference
func (r Reference) Valid() bool {
	switch r {
	case ReferenceGreedy, ReferenceLouvain, ReferenceLabelPropagation:
		return true
	}
	return false
}

const labelPropagationIterations = 100

// Option configures Community
type Option func(*options)

type options struct {
	reference Reference
}

// WithReference selects the reference algorithm. The default is greedy
// modularity, which honours the community count.
func WithReference(r Reference) Option {
	return func(o *options) { o.reference = r }
}

// CommunityReport is the grading of a community detection sample
type CommunityReport struct {
	// Gap is |M_ref + E_best| rounded to three decimals. 0.000 means the
	// solver matched or beat the reference.
	Gap                 string    `json:"gap"`
	GapValue            float64   `json:"gap_value"`
	Reference           Reference `json:"reference"`
	ReferenceModularity float64   `json:"reference_modularity"`
	ReferencePartition  [][]int   `json:"reference_partition"`
	// Assignment[v] is the community of v, or -1 when the sample does not
	// put v in exactly one community.
	Assignment       []int   `json:"assignment"`
	Feasible         bool    `json:"feasible"`
	SampleModularity float64 `json:"sample_modularity"`
}

// Community grades the best sample of a community detection problem on g
// against a classical partition of the same graph. The sample is not
// modified.
func Community(g *graph.Graph, best qubo.Sample, communities int, opts ...Option) (*CommunityReport, error) {
	const op = "verify community detection"

	o := options{reference: ReferenceGreedy}
	for _, opt := range opts {
		opt(&o)
	}

	if g == nil {
		return nil, qubo.InvalidArgumentError(op, fmt.Errorf("graph is required"))
	}
	if communities < 1 || communities > g.Order() {
		return nil, qubo.InvalidArgumentError(op, fmt.Errorf("communities %d outside 1..%d", communities, g.Order()))
	}

	var ref *algorithms.CommunityDetectionResult
	switch o.reference {
	case ReferenceGreedy:
		var err error
		ref, err = algorithms.GreedyModularity(g, communities)
		if err != nil {
			return nil, qubo.InvalidArgumentError(op, err)
		}
	case ReferenceLouvain:
		ref = algorithms.Louvain(g)
	case ReferenceLabelPropagation:
		ref = algorithms.LabelPropagation(g, labelPropagationIterations)
	default:
		return nil, qubo.InvalidArgumentError(op, fmt.Errorf("unknown reference %q", o.reference))
	}

	gap := Round3(ref.Modularity + best.Energy)
	if gap < 0 {
		gap = -gap
	}

	assignment, feasible := decodeCommunities(best, g.Order(), communities)
	report := &CommunityReport{
		Gap:                 strconv.FormatFloat(gap, 'f', 3, 64),
		GapValue:            gap,
		Reference:           o.reference,
		ReferenceModularity: ref.Modularity,
		ReferencePartition:  ref.Partition(),
		Assignment:          assignment,
		Feasible:            feasible,
	}
	if feasible {
		report.SampleModularity = algorithms.Modularity(g, groupByCommunity(assignment, communities))
	}
	return report, nil
}

func decodeCommunities(best qubo.Sample, vertices, communities int) ([]int, bool) {
	assignment := make([]int, vertices)
	for v := range assignment {
		assignment[v] = -1
	}
	count := make([]int, vertices)
	for _, l := range best.Ones() {
		if l.I < 0 || l.I >= vertices || l.J < 0 || l.J >= communities {
			continue
		}
		count[l.I]++
		assignment[l.I] = l.J
	}

	feasible := true
	for v, c := range count {
		if c != 1 {
			assignment[v] = -1
			feasible = false
		}
	}
	return assignment, feasible
}

func groupByCommunity(assignment []int, communities int) [][]int {
	groups := make([][]int, communities)
	for v, k := range assignment {
		if k >= 0 {
			groups[k] = append(groups[k], v)
		}
	}
	return groups
}
