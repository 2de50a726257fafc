// Package verify grades solver output. Community detection samples are
// compared with a classical modularity baseline; isomorphism samples are
// checked for being a bijection with the expected energy.
package verify

import "math"

// Verdict is the outcome of an isomorphism check
type Verdict string

const (
	Isomorphic     Verdict = "isomorphic"
	NonIsomorphic  Verdict = "non-isomorphic"
	BijectionError Verdict = "bijection error"
)

// String returns the verdict text
func (v Verdict) String() string { return string(v) }

// Round3 rounds x to three decimals, the precision verdicts are reported in.
func Round3(x float64) float64 {
	r := math.Round(x*1000) / 1000
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}
