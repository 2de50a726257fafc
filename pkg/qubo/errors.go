package qubo

import (
	"errors"
	"fmt"
)

// Kind classifies the errors returned by the builders and labelers
type Kind int

const (
	// KindUnknown is reported for errors that did not originate here
	KindUnknown Kind = iota
	// KindInvalidArgument means a caller-supplied parameter is out of bounds
	KindInvalidArgument
	// KindGraphStructure means the graph(s) cannot encode the problem
	KindGraphStructure
)

// String returns the string representation of an error kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindGraphStructure:
		return "graph structure"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrGraphStructure  = errors.New("error in graph structure")
)

// Error provides structured error information for QUBO operations.
type Error struct {
	Op    string // Operation that failed (e.g., "build isomorphism")
	Kind  Kind
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrGraphStructure:
		return e.Kind == KindGraphStructure
	}
	return false
}

func invalidArgument(op, format string, args ...any) error {
	return &Error{Op: op, Kind: KindInvalidArgument, Cause: fmt.Errorf(format, args...)}
}

// InvalidArgumentError wraps cause as a KindInvalidArgument error.
func InvalidArgumentError(op string, cause error) error {
	return &Error{Op: op, Kind: KindInvalidArgument, Cause: cause}
}

// GraphStructureError wraps cause as a KindGraphStructure error.
func GraphStructureError(op string, cause error) error {
	return &Error{Op: op, Kind: KindGraphStructure, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}
