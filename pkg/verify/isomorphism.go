package verify

import (
	"math"

	"github.com/dd0wney/graphqubo/pkg/qubo"
)

// energyDigits is the precision the best energy is rounded to before its
// integer part is compared, so that -3.9999999999 counts as -4.
const energyDigits = 1e9

// Isomorphism grades the best sample of an isomorphism problem on vertices
// vertices. The sample must select exactly one (v1, v2) pair per vertex, with
// every v1 and every v2 in 0..vertices-1 used once; otherwise the verdict is
// BijectionError. A bijection is Isomorphic when the integer part of its
// energy equals expected (−|E1|), NonIsomorphic otherwise.
func Isomorphism(best qubo.Sample, expected float64, vertices int) Verdict {
	mapping, ok := Mapping(best, vertices)
	if !ok || len(mapping) != vertices {
		return BijectionError
	}

	e := math.Round(best.Energy*energyDigits) / energyDigits
	if math.Trunc(e) == expected {
		return Isomorphic
	}
	return NonIsomorphic
}

// Mapping decodes a bijection sample into mapping[v1] = v2. It reports false
// when the sample does not select exactly one partner for every vertex on
// both sides.
func Mapping(best qubo.Sample, vertices int) ([]int, bool) {
	ones := best.Ones()
	if len(ones) != vertices {
		return nil, false
	}

	mapping := make([]int, vertices)
	seenFirst := make([]bool, vertices)
	seenSecond := make([]bool, vertices)
	for _, l := range ones {
		if l.I < 0 || l.I >= vertices || l.J < 0 || l.J >= vertices {
			return nil, false
		}
		if seenFirst[l.I] || seenSecond[l.J] {
			return nil, false
		}
		seenFirst[l.I], seenSecond[l.J] = true, true
		mapping[l.I] = l.J
	}
	return mapping, true
}
