// Package solver provides iterative routines for symmetric positive
// definite operators: conjugate gradients, Lanczos tridiagonalization, and
// a stochastic Lanczos quadrature log-determinant estimator. Operators are
// passed as matvec closures so callers can use structured matrices without
// materializing them.
package solver

import (
	"errors"
	"fmt"

	"gridgp-forge/internal/linalg"
)

// ErrNoConvergence indicates an iterative method hit its iteration cap
// before reaching the requested tolerance.
var ErrNoConvergence = errors.New("solver: did not converge")

// Apply computes y = A·x for an SPD operator A.
type Apply func(x []float64) []float64

// CG solves A·x = b by conjugate gradients, stopping when the residual
// norm falls below tol·‖b‖ or maxIters is reached.
func CG(apply Apply, b []float64, tol float64, maxIters int) ([]float64, error) {
	n := len(b)
	if maxIters <= 0 {
		maxIters = n
	}
	x := make([]float64, n)
	r := make([]float64, n)
	copy(r, b)
	p := make([]float64, n)
	copy(p, b)

	bNorm := linalg.Norm(b)
	if bNorm == 0 {
		return x, nil
	}
	rsOld := linalg.Dot(r, r)

	for iter := 0; iter < maxIters; iter++ {
		ap := apply(p)
		alpha := rsOld / linalg.Dot(p, ap)
		linalg.Axpy(alpha, p, x)
		linalg.Axpy(-alpha, ap, r)

		rsNew := linalg.Dot(r, r)
		if linalg.Norm(r) <= tol*bNorm {
			return x, nil
		}
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	return x, fmt.Errorf("%w after %d iterations (residual %g)", ErrNoConvergence, maxIters, linalg.Norm(r)/bNorm)
}
