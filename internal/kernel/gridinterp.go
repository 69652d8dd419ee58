package kernel

import (
	"fmt"
	"math"

	"gridgp-forge/internal/linalg"
)

// GridInterp approximates a stationary kernel on one input dimension over
// a uniform inducing grid: K ≈ W·Kuu·Wᵀ, where Kuu is the kernel evaluated
// between grid points and W holds cubic interpolation weights (4 nonzeros
// per data point). MatVec never forms the n×n matrix, which is what makes
// the conjugate-gradient path scale past exact Cholesky.
type GridInterp struct {
	Base Kernel
	Dim  int

	grid    [][]float64 // inducing points, nonzero only at Dim
	step    float64
	weights []stencil
	kuu     *linalg.Dense
}

// stencil is one row of W: four grid indices and their weights.
type stencil struct {
	idx [4]int
	wt  [4]float64
}

// NewGridInterp builds the interpolation structure for the data in x,
// placing m uniform grid points over the data range of dimension dim plus
// a two-step margin so every cubic stencil stays in bounds.
func NewGridInterp(base Kernel, dim, m int, x [][]float64) (*GridInterp, error) {
	if m < 8 {
		return nil, fmt.Errorf("kernel: grid size %d too small, need at least 8", m)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("kernel: no data points")
	}
	width := len(x[0])
	lo, hi := x[0][dim], x[0][dim]
	for _, p := range x {
		if p[dim] < lo {
			lo = p[dim]
		}
		if p[dim] > hi {
			hi = p[dim]
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	step := (hi - lo) / float64(m-5)
	lo -= 2 * step

	g := &GridInterp{Base: base, Dim: dim, step: step}
	g.grid = make([][]float64, m)
	for i := range g.grid {
		pt := make([]float64, width)
		pt[dim] = lo + float64(i)*step
		g.grid[i] = pt
	}

	g.weights = make([]stencil, len(x))
	for i, p := range x {
		g.weights[i] = g.interpWeights(p[dim])
	}
	g.Refresh()
	return g, nil
}

// interpWeights returns the cubic-convolution stencil for coordinate v.
func (g *GridInterp) interpWeights(v float64) stencil {
	pos := (v - g.grid[0][g.Dim]) / g.step
	j0 := int(math.Floor(pos))
	frac := pos - float64(j0)

	var s stencil
	offsets := [4]int{-1, 0, 1, 2}
	for k, off := range offsets {
		j := j0 + off
		if j < 0 {
			j = 0
		}
		if j >= len(g.grid) {
			j = len(g.grid) - 1
		}
		s.idx[k] = j
		s.wt[k] = cubicWeight(math.Abs(frac - float64(off)))
	}
	return s
}

// cubicWeight is the Keys cubic-convolution kernel with a = -0.5.
func cubicWeight(t float64) float64 {
	switch {
	case t <= 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

// Refresh rebuilds Kuu from the base kernel. Call after every
// hyperparameter update.
func (g *GridInterp) Refresh() {
	g.kuu = Matrix(g.Base, g.grid)
}

// GridSize returns the number of inducing points.
func (g *GridInterp) GridSize() int {
	return len(g.grid)
}

// MatVec computes (W·Kuu·Wᵀ)·v in O(n + m²).
func (g *GridInterp) MatVec(v []float64) []float64 {
	m := len(g.grid)
	u := make([]float64, m)
	for i, s := range g.weights {
		for k := 0; k < 4; k++ {
			u[s.idx[k]] += s.wt[k] * v[i]
		}
	}
	t := g.kuu.MatVec(u)
	out := make([]float64, len(v))
	for i, s := range g.weights {
		sum := 0.0
		for k := 0; k < 4; k++ {
			sum += s.wt[k] * t[s.idx[k]]
		}
		out[i] = sum
	}
	return out
}
