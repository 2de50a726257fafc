// Package qubo builds Quadratic Unconstrained Binary Optimization problems
// for community detection and graph isomorphism, and re-expresses them over
// labelled variables for the solvers.
//
// A problem is a square matrix Q and a constant offset; the objective of a
// binary vector x is xᵀQx + offset. Builders return Q in upper-triangular
// form: the diagonal holds the linear coefficients, the strictly upper
// triangle the quadratic ones, and every entry below the diagonal is zero.
package qubo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a QUBO problem in matrix form
type Matrix struct {
	Q      *mat.Dense
	Offset float64
}

// Cell is a non-zero coefficient of Q
type Cell struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Value float64 `json:"value"`
}

func newMatrix(n int) *Matrix {
	return &Matrix{Q: mat.NewDense(n, n, nil)}
}

// Size returns the number of binary variables
func (m *Matrix) Size() int {
	r, _ := m.Q.Dims()
	return r
}

func (m *Matrix) add(i, j int, v float64) {
	m.Q.Set(i, j, m.Q.At(i, j)+v)
}

// FoldUpper moves every coefficient below the diagonal onto its mirror above
// the diagonal. x_i·x_j = x_j·x_i for binary variables, so the objective is
// unchanged.
func (m *Matrix) FoldUpper() {
	n := m.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			v := m.Q.At(i, j)
			if v == 0 {
				continue
			}
			m.add(j, i, v)
			m.Q.Set(i, j, 0)
		}
	}
}

// IsUpperTriangular reports whether every entry below the diagonal is zero.
func (m *Matrix) IsUpperTriangular() bool {
	n := m.Size()
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			if m.Q.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// Energy evaluates xᵀQx + offset for a binary vector x.
func (m *Matrix) Energy(x []int8) (float64, error) {
	n := m.Size()
	if len(x) != n {
		return 0, fmt.Errorf("energy: vector has %d entries, want %d", len(x), n)
	}
	data := make([]float64, n)
	for i, v := range x {
		if v != 0 && v != 1 {
			return 0, fmt.Errorf("energy: entry %d is %d, want 0 or 1", i, v)
		}
		data[i] = float64(v)
	}
	vec := mat.NewVecDense(n, data)
	return mat.Inner(vec, m.Q, vec) + m.Offset, nil
}

// Cells returns the non-zero coefficients in row-major order.
func (m *Matrix) Cells() []Cell {
	n := m.Size()
	cells := make([]Cell, 0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := m.Q.At(i, j); v != 0 {
				cells = append(cells, Cell{Row: i, Col: j, Value: v})
			}
		}
	}
	return cells
}
