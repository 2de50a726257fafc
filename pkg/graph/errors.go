package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction
var (
	ErrSelfLoop      = errors.New("self loop")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrVertexRange   = errors.New("vertex out of range")
	ErrInvalidWeight = errors.New("invalid edge weight")
	ErrMalformedEdge = errors.New("malformed edge")
	ErrInvalidOrder  = errors.New("invalid vertex count")
	ErrPermutation   = errors.New("invalid permutation")
)

// EdgeError reports which edge of an input could not be accepted.
type EdgeError struct {
	Index int    // Position of the edge in the input
	Edge  string // Raw edge text, if parsed from a structure string
	Cause error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	if e.Edge != "" {
		return fmt.Sprintf("edge %d (%q): %v", e.Index, e.Edge, e.Cause)
	}
	return fmt.Sprintf("edge %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EdgeError) Unwrap() error {
	return e.Cause
}
