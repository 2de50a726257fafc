package qubo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Label names a binary variable by two coordinates: (vertex, community) for
// community detection, (vertex of G1, vertex of G2) for isomorphism.
type Label struct {
	I int
	J int
}

// String returns the tuple form of a label
func (l Label) String() string {
	return fmt.Sprintf("(%d, %d)", l.I, l.J)
}

// MarshalText encodes a label as "i,j" so it can key JSON objects.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(l.I) + "," + strconv.Itoa(l.J)), nil
}

// UnmarshalText decodes the form written by MarshalText.
func (l *Label) UnmarshalText(text []byte) error {
	a, b, ok := strings.Cut(string(text), ",")
	if !ok {
		return fmt.Errorf("label %q: missing comma", text)
	}
	i, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return fmt.Errorf("label %q: %w", text, err)
	}
	j, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return fmt.Errorf("label %q: %w", text, err)
	}
	l.I, l.J = i, j
	return nil
}

// Pair is an unordered interaction between two variables, stored with the
// lower-indexed variable first.
type Pair struct {
	U Label
	V Label
}

// Term is a coefficient addressed by flat variable index, I <= J. I == J
// denotes a linear term.
type Term struct {
	I     int
	J     int
	Value float64
}

// Model is a QUBO over labelled variables
type Model struct {
	Variables []Label
	Linear    map[Label]float64
	Quadratic map[Pair]float64
	Offset    float64

	index map[Label]int
	terms []Term
}

// NewModel re-expresses m over labels, where labels[i] names variable i.
// Diagonal entries become linear biases and the two mirror entries of each
// off-diagonal pair are summed into one interaction. Every variable is kept,
// including those whose linear bias is zero.
func NewModel(m *Matrix, labels []Label) (*Model, error) {
	const op = "label model"

	n := m.Size()
	if len(labels) != n {
		return nil, invalidArgument(op, "%d labels for %d variables", len(labels), n)
	}

	model := &Model{
		Variables: make([]Label, n),
		Linear:    make(map[Label]float64, n),
		Quadratic: make(map[Pair]float64),
		Offset:    m.Offset,
		index:     make(map[Label]int, n),
	}
	copy(model.Variables, labels)

	for i, l := range labels {
		if _, dup := model.index[l]; dup {
			return nil, invalidArgument(op, "label %s used twice", l)
		}
		model.index[l] = i
		model.Linear[l] = m.Q.At(i, i)
		model.terms = append(model.terms, Term{I: i, J: i, Value: m.Q.At(i, i)})
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := m.Q.At(i, j) + m.Q.At(j, i)
			if v == 0 {
				continue
			}
			model.Quadratic[Pair{U: labels[i], V: labels[j]}] = v
			model.terms = append(model.terms, Term{I: i, J: j, Value: v})
		}
	}

	sort.Slice(model.terms, func(a, b int) bool {
		if model.terms[a].I != model.terms[b].I {
			return model.terms[a].I < model.terms[b].I
		}
		return model.terms[a].J < model.terms[b].J
	})

	return model, nil
}

// NumVariables returns the number of variables
func (m *Model) NumVariables() int { return len(m.Variables) }

// NumInteractions returns the number of non-zero quadratic coefficients
func (m *Model) NumInteractions() int { return len(m.Quadratic) }

// Index returns the flat index of a label
func (m *Model) Index(l Label) (int, bool) {
	i, ok := m.index[l]
	return i, ok
}

// Terms returns the coefficients by flat index, sorted by (I, J).
func (m *Model) Terms() []Term {
	out := make([]Term, len(m.terms))
	copy(out, m.terms)
	return out
}

// Energy evaluates the model for a labelled assignment. Variables missing
// from the assignment count as 0.
func (m *Model) Energy(assignment map[Label]int8) float64 {
	e := m.Offset
	for l, bias := range m.Linear {
		if assignment[l] == 1 {
			e += bias
		}
	}
	for p, coef := range m.Quadratic {
		if assignment[p.U] == 1 && assignment[p.V] == 1 {
			e += coef
		}
	}
	return e
}

// EnergyOf evaluates the model for a vector indexed like Variables.
func (m *Model) EnergyOf(x []int8) float64 {
	e := m.Offset
	for _, t := range m.terms {
		if x[t.I] == 1 && x[t.J] == 1 {
			e += t.Value
		}
	}
	return e
}

// Assignment converts a vector indexed like Variables to a labelled sample.
func (m *Model) Assignment(x []int8) map[Label]int8 {
	out := make(map[Label]int8, len(x))
	for i, v := range x {
		out[m.Variables[i]] = v
	}
	return out
}
