package linalg

import (
	"fmt"
	"math"
)

// Cholesky computes the lower-triangular factor L with L·Lᵀ = m.
// Returns ErrNotPositiveDefinite when a pivot is not strictly positive.
func Cholesky(m *Dense) (*Dense, error) {
	if m.Rows != m.Cols {
		panic(fmt.Sprintf("linalg: Cholesky on %dx%d matrix", m.Rows, m.Cols))
	}
	n := m.Rows
	l := NewDense(n, n)
	for j := 0; j < n; j++ {
		d := m.At(j, j)
		lRowJ := l.Row(j)
		for k := 0; k < j; k++ {
			d -= lRowJ[k] * lRowJ[k]
		}
		if d <= 0 || math.IsNaN(d) {
			return nil, fmt.Errorf("%w (pivot %d: %g)", ErrNotPositiveDefinite, j, d)
		}
		diag := math.Sqrt(d)
		lRowJ[j] = diag
		inv := 1.0 / diag
		for i := j + 1; i < n; i++ {
			s := m.At(i, j)
			lRowI := l.Row(i)
			for k := 0; k < j; k++ {
				s -= lRowI[k] * lRowJ[k]
			}
			lRowI[j] = s * inv
		}
	}
	return l, nil
}

// SolveLower solves L·x = b for lower-triangular L.
func SolveLower(l *Dense, b []float64) []float64 {
	n := l.Rows
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		s := b[i]
		row := l.Row(i)
		for j := 0; j < i; j++ {
			s -= row[j] * x[j]
		}
		x[i] = s / row[i]
	}
	return x
}

// SolveLowerT solves Lᵀ·x = b for lower-triangular L.
func SolveLowerT(l *Dense, b []float64) []float64 {
	n := l.Rows
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < n; j++ {
			s -= l.At(j, i) * x[j]
		}
		x[i] = s / l.At(i, i)
	}
	return x
}

// CholSolve solves (L·Lᵀ)·x = b given the Cholesky factor L.
func CholSolve(l *Dense, b []float64) []float64 {
	return SolveLowerT(l, SolveLower(l, b))
}

// InvertLower computes L⁻¹ for lower-triangular L by forward substitution
// on the identity columns.
func InvertLower(l *Dense) *Dense {
	n := l.Rows
	inv := NewDense(n, n)
	for j := 0; j < n; j++ {
		inv.Set(j, j, 1/l.At(j, j))
		for i := j + 1; i < n; i++ {
			s := 0.0
			row := l.Row(i)
			for k := j; k < i; k++ {
				s += row[k] * inv.At(k, j)
			}
			inv.Set(i, j, -s/row[i])
		}
	}
	return inv
}

// LogDetFromChol returns log det(L·Lᵀ) = 2·Σ log L_ii.
func LogDetFromChol(l *Dense) float64 {
	sum := 0.0
	for i := 0; i < l.Rows; i++ {
		sum += math.Log(l.At(i, i))
	}
	return 2 * sum
}
