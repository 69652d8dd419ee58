package gp

import (
	"fmt"
	"math/rand"

	"gridgp-forge/internal/kernel"
	"gridgp-forge/internal/linalg"
	"gridgp-forge/internal/solver"
)

// IterOpts configures the matrix-free inference path.
type IterOpts struct {
	// InducingGridN > 0 routes covariance matvecs through a grid
	// interpolation operator with that many inducing points per dimension;
	// 0 uses exact dense matvecs (still Cholesky-free).
	InducingGridN int

	CGTol      float64
	CGMaxIters int

	// Probes for Hutchinson trace estimates and SLQ.
	Probes int
	// LanczosRank bounds the quadrature rank per probe.
	LanczosRank int
}

func (o IterOpts) withDefaults(n int) IterOpts {
	if o.CGTol <= 0 {
		o.CGTol = 1e-8
	}
	if o.CGMaxIters <= 0 {
		o.CGMaxIters = n
	}
	if o.Probes <= 0 {
		o.Probes = 10
	}
	if o.LanczosRank <= 0 {
		o.LanczosRank = 30
	}
	return o
}

// operator returns a matvec for K + (noise+jitter)·I, backed either by the
// grid interpolation approximation or by the dense kernel matrix.
func (r *Regressor) operator(opts IterOpts) (solver.Apply, error) {
	shift := r.Noise.Value() + r.Jitter

	if opts.InducingGridN > 0 {
		add, ok := r.Kern.(*kernel.Additive)
		if !ok {
			return nil, fmt.Errorf("gp: grid operator needs an additive kernel, have %T", r.Kern)
		}
		if r.gridOp == nil || r.gridOpN != opts.InducingGridN {
			op, err := kernel.NewGridOperator(add, opts.InducingGridN, r.X)
			if err != nil {
				return nil, err
			}
			r.gridOp = op
			r.gridOpN = opts.InducingGridN
		} else {
			r.gridOp.Refresh()
		}
		op := r.gridOp
		return func(v []float64) []float64 {
			out := op.MatVec(v)
			linalg.Axpy(shift, v, out)
			return out
		}, nil
	}

	k := kernel.Matrix(r.Kern, r.X)
	k.AddDiag(shift)
	return k.MatVec, nil
}

// LossAndGradIterative computes the negative MLL and gradients without a
// Cholesky factorization: α by conjugate gradients, log det by stochastic
// Lanczos quadrature, and tr(K⁻¹·∂K) by Hutchinson probes with CG solves.
// The estimates are stochastic, so repeated calls with the same rng state
// are required for reproducibility.
func (r *Regressor) LossAndGradIterative(opts IterOpts, rng *rand.Rand) (float64, error) {
	n := len(r.Y)
	opts = opts.withDefaults(n)
	for _, p := range r.Params() {
		p.Grad = 0
	}

	apply, err := r.operator(opts)
	if err != nil {
		return 0, err
	}

	yc := r.centered()
	alpha, err := solver.CG(apply, yc, opts.CGTol, opts.CGMaxIters)
	if err != nil {
		return 0, fmt.Errorf("gp: solve for alpha: %w", err)
	}

	logDet, err := solver.LogDetSLQ(apply, n, opts.Probes, opts.LanczosRank, rng)
	if err != nil {
		return 0, fmt.Errorf("gp: logdet: %w", err)
	}

	loss := 0.5*linalg.Dot(yc, alpha) + 0.5*logDet + 0.5*float64(n)*log2Pi

	// Data-fit term of the gradient: -½·αᵀ·∂K·α, exact.
	kparams := r.Kern.Params()
	dka := kernel.GradMatVec(r.Kern, r.X, alpha)
	for p, par := range kparams {
		par.Grad = -0.5 * linalg.Dot(alpha, dka[p])
	}
	noiseFit := -0.5 * r.Noise.Value() * linalg.Dot(alpha, alpha)

	// Complexity term: ½·tr(K⁻¹·∂K) estimated with Rademacher probes.
	traces := make([]float64, len(kparams))
	noiseTrace := 0.0
	z := make([]float64, n)
	for probe := 0; probe < opts.Probes; probe++ {
		for i := range z {
			if rng.Intn(2) == 0 {
				z[i] = 1
			} else {
				z[i] = -1
			}
		}
		zSolve, err := solver.CG(apply, z, opts.CGTol, opts.CGMaxIters)
		if err != nil {
			return 0, fmt.Errorf("gp: trace probe: %w", err)
		}
		dkz := kernel.GradMatVec(r.Kern, r.X, z)
		for p := range traces {
			traces[p] += linalg.Dot(zSolve, dkz[p])
		}
		noiseTrace += linalg.Dot(zSolve, z)
	}
	inv := 1.0 / float64(opts.Probes)
	for p, par := range kparams {
		par.Grad += 0.5 * traces[p] * inv
	}
	r.Noise.Grad = noiseFit + 0.5*r.Noise.Value()*noiseTrace*inv

	sumAlpha := 0.0
	for _, a := range alpha {
		sumAlpha += a
	}
	r.Mean.Grad = -sumAlpha

	r.Invalidate()
	return loss, nil
}
