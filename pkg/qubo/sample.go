package qubo

import "sort"

// Sample is one candidate assignment returned by a solver
type Sample struct {
	Assignment  map[Label]int8 `json:"assignment"`
	Energy      float64        `json:"energy"`
	Occurrences int            `json:"num_occurrences"`
}

// Ones returns the labels assigned 1, sorted by (I, J).
func (s Sample) Ones() []Label {
	out := make([]Label, 0)
	for l, v := range s.Assignment {
		if v == 1 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

// SampleSet is a solver result ordered by ascending energy. Samples are not
// guaranteed to be feasible and may repeat.
type SampleSet struct {
	Samples []Sample `json:"samples"`
}

// NewSampleSet sorts samples by energy, keeping the solver's order among
// equal energies.
func NewSampleSet(samples []Sample) *SampleSet {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Energy < sorted[b].Energy
	})
	return &SampleSet{Samples: sorted}
}

// Len returns the number of samples
func (s *SampleSet) Len() int { return len(s.Samples) }

// First returns the lowest-energy sample
func (s *SampleSet) First() (Sample, bool) {
	if len(s.Samples) == 0 {
		return Sample{}, false
	}
	return s.Samples[0], true
}
