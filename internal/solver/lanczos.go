package solver

import (
	"math"
	"math/rand"

	"gridgp-forge/internal/linalg"
)

// Tridiag holds a symmetric tridiagonal matrix: Diag has length k,
// OffDiag length k-1.
type Tridiag struct {
	Diag    []float64
	OffDiag []float64
}

// Dense expands the tridiagonal into a k×k matrix.
func (t *Tridiag) Dense() *linalg.Dense {
	k := len(t.Diag)
	out := linalg.NewDense(k, k)
	for i := 0; i < k; i++ {
		out.Set(i, i, t.Diag[i])
		if i+1 < k {
			out.Set(i, i+1, t.OffDiag[i])
			out.Set(i+1, i, t.OffDiag[i])
		}
	}
	return out
}

// LanczosTridiag runs the Lanczos iteration on an SPD operator of the
// given dimension from a random start vector, producing an orthonormal
// basis Q (dim×k) and a tridiagonal T with Qᵀ·A·Q = T. Run to full rank on
// a well-conditioned matrix, Q·T·Qᵀ reconstructs A. The iteration stops
// early when the residual collapses, so k may be smaller than maxIters.
func LanczosTridiag(apply Apply, dim, maxIters int, rng *rand.Rand) (*linalg.Dense, *Tridiag) {
	start := make([]float64, dim)
	for i := range start {
		start[i] = rng.NormFloat64()
	}
	basis, t := lanczosFromStart(apply, start, maxIters)

	k := len(t.Diag)
	qm := linalg.NewDense(dim, k)
	for j := 0; j < k; j++ {
		for i := 0; i < dim; i++ {
			qm.Set(i, j, basis[j][i])
		}
	}
	return qm, t
}

// lanczosFromStart runs Lanczos from a caller-chosen start vector. SLQ
// needs this so the quadrature is taken against the probe itself. Vectors
// are reorthogonalized against the whole basis every step; plain Lanczos
// loses orthogonality in floating point and for the sizes here the
// O(k·dim) cost is cheap.
func lanczosFromStart(apply Apply, start []float64, maxIters int) ([][]float64, *Tridiag) {
	dim := len(start)
	if maxIters <= 0 || maxIters > dim {
		maxIters = dim
	}

	basis := make([][]float64, 0, maxIters)
	alpha := make([]float64, 0, maxIters)
	beta := make([]float64, 0, maxIters)

	v := make([]float64, dim)
	copy(v, start)
	linalg.Scale(1/linalg.Norm(v), v)
	basis = append(basis, v)

	for j := 0; j < maxIters; j++ {
		w := apply(basis[j])
		a := linalg.Dot(basis[j], w)
		alpha = append(alpha, a)

		linalg.Axpy(-a, basis[j], w)
		if j > 0 {
			linalg.Axpy(-beta[j-1], basis[j-1], w)
		}
		for _, qi := range basis {
			linalg.Axpy(-linalg.Dot(qi, w), qi, w)
		}

		b := linalg.Norm(w)
		if j == maxIters-1 || b < 1e-10*math.Max(1, math.Abs(a)) {
			break
		}
		beta = append(beta, b)
		linalg.Scale(1/b, w)
		basis = append(basis, w)
	}
	return basis, &Tridiag{Diag: alpha, OffDiag: beta[:len(alpha)-1]}
}
