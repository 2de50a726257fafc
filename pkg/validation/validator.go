package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxStructureLength bounds the edge list text of a request
	MaxStructureLength = 64 << 10
	// MaxTokenLength bounds a solver token
	MaxTokenLength = 1024
)

// ErrValidation matches every error produced by this package
var ErrValidation = errors.New("validation failed")

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// FieldError describes one invalid field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Is makes every FieldError match ErrValidation
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// Limits are the configured bounds a request is checked against
type Limits struct {
	MinVertices    int
	MaxVertices    int
	MinCommunities int
	MaxCommunities int
	MaxNumReads    int
	Solvers        []string
}

// CommunityRequest is a community detection run
type CommunityRequest struct {
	Vertices    int     `json:"vertices" validate:"required,min=1"`
	Communities int     `json:"communities" validate:"required,min=1"`
	NumReads    int     `json:"num_reads" validate:"required,min=1"`
	Solver      string  `json:"solver" validate:"required,max=64"`
	Structure   string  `json:"structure"`
	Weighted    *bool   `json:"weighted,omitempty"`
	Token       string  `json:"token,omitempty"`
	Seed        uint64  `json:"seed,omitempty"`
	Penalty     float64 `json:"penalty,omitempty" validate:"omitempty,gt=0"`
	Reference   string  `json:"reference,omitempty" validate:"omitempty,oneof=greedy louvain label-propagation"`
}

// IsomorphismRequest is a graph isomorphism run. When Structure2 is empty
// the second graph is a random vertex permutation of the first.
type IsomorphismRequest struct {
	Vertices   int     `json:"vertices" validate:"required,min=1"`
	NumReads   int     `json:"num_reads" validate:"required,min=1"`
	Solver     string  `json:"solver" validate:"required,max=64"`
	Structure  string  `json:"structure"`
	Structure2 string  `json:"structure2,omitempty"`
	Token      string  `json:"token,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	Penalty    float64 `json:"penalty,omitempty" validate:"omitempty,gt=0"`
}

// ValidateCommunityRequest checks a community detection request against
// struct rules and the configured limits.
func ValidateCommunityRequest(req *CommunityRequest, limits Limits) error {
	if req == nil {
		return &FieldError{Field: "request", Message: "cannot be nil"}
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	return NewConfigValidator("request").
		RangeInt("vertices", req.Vertices, limits.MinVertices, limits.MaxVertices).
		RangeInt("communities", req.Communities, limits.MinCommunities, limits.MaxCommunities).
		Custom("communities", func() error {
			if req.Communities > req.Vertices {
				return fmt.Errorf("%d communities for %d vertices", req.Communities, req.Vertices)
			}
			return nil
		}).
		MaxInt("num_reads", req.NumReads, limits.MaxNumReads).
		When(len(limits.Solvers) > 0, func(cv *ConfigValidator) {
			cv.OneOf("solver", req.Solver, limits.Solvers)
		}).
		MaxInt("structure", len(req.Structure), MaxStructureLength).
		MaxInt("token", len(req.Token), MaxTokenLength).
		Validate()
}

// ValidateIsomorphismRequest checks an isomorphism request against struct
// rules and the configured limits.
func ValidateIsomorphismRequest(req *IsomorphismRequest, limits Limits) error {
	if req == nil {
		return &FieldError{Field: "request", Message: "cannot be nil"}
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	return NewConfigValidator("request").
		RangeInt("vertices", req.Vertices, limits.MinVertices, limits.MaxVertices).
		MaxInt("num_reads", req.NumReads, limits.MaxNumReads).
		When(len(limits.Solvers) > 0, func(cv *ConfigValidator) {
			cv.OneOf("solver", req.Solver, limits.Solvers)
		}).
		MaxInt("structure", len(req.Structure), MaxStructureLength).
		MaxInt("structure2", len(req.Structure2), MaxStructureLength).
		MaxInt("token", len(req.Token), MaxTokenLength).
		Validate()
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := "request." + e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return &FieldError{Field: field, Message: "field is required"}
		case "min":
			return &FieldError{Field: field, Message: "must be at least " + param}
		case "max":
			return &FieldError{Field: field, Message: "must not exceed " + param}
		case "gt":
			return &FieldError{Field: field, Message: "must be greater than " + param}
		case "oneof":
			return &FieldError{Field: field, Message: "must be one of " + param}
		default:
			return &FieldError{Field: field, Message: fmt.Sprintf("validation failed (%s)", e.Tag())}
		}
	}

	return err
}
