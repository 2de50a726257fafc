package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse builds a graph with the given number of vertices from a structure
// string. Edges are separated by commas, semicolons or newlines and are
// written either as "u-v" or "u v", with an optional weight given as
// "u-v:w" or "u v w". Weights are ignored unless weighted is true.
//
//	0-1, 1-2:2.5, 2-0
//	0 1
//	1 2 0.5
func Parse(vertices int, structure string, weighted bool) (*Graph, error) {
	if vertices < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, vertices)
	}

	fields := strings.FieldsFunc(structure, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})

	edges := make([]Edge, 0, len(fields))
	index := 0
	for _, raw := range fields {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		e, err := parseEdge(text)
		if err != nil {
			return nil, &EdgeError{Index: index, Edge: text, Cause: err}
		}
		edges = append(edges, e)
		index++
	}

	g, err := New(vertices, edges, weighted)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func parseEdge(text string) (Edge, error) {
	var parts []string
	if strings.Contains(text, "-") {
		endpoints, weight, hasWeight := strings.Cut(text, ":")
		u, v, ok := strings.Cut(endpoints, "-")
		if !ok {
			return Edge{}, ErrMalformedEdge
		}
		parts = []string{u, v}
		if hasWeight {
			parts = append(parts, weight)
		}
	} else {
		parts = strings.Fields(text)
	}

	if len(parts) < 2 || len(parts) > 3 {
		return Edge{}, ErrMalformedEdge
	}

	u, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedEdge, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedEdge, err)
	}

	e := Edge{U: u, V: v, Weight: DefaultWeight}
	if len(parts) == 3 {
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return Edge{}, fmt.Errorf("%w: %v", ErrInvalidWeight, err)
		}
		e.Weight = w
	}
	return e, nil
}
