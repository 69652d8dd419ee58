// Package gp implements exact Gaussian process regression with a Gaussian
// likelihood: the negative marginal log-likelihood with analytic gradients
// for hyperparameter training, and posterior prediction on held-out
// points. Two inference paths are provided: a Cholesky path that
// factorizes the full covariance, and a matrix-free path that replaces the
// factorization with conjugate-gradient solves and a stochastic Lanczos
// quadrature log-determinant.
package gp

import (
	"errors"
	"fmt"
	"math"

	"gridgp-forge/internal/kernel"
	"gridgp-forge/internal/linalg"
)

const log2Pi = 1.8378770664093453

// defaultJitter is added to the covariance diagonal before factorizing.
const defaultJitter = 1e-6

// maxJitterRetries bounds the ×10 jitter ladder used when a factorization
// hits a non-positive pivot.
const maxJitterRetries = 3

// Regressor is a Gaussian process regression model over fixed training
// data. Hyperparameters (constant mean, kernel parameters, observation
// noise) are exposed through Params for an external optimizer.
type Regressor struct {
	X [][]float64
	Y []float64

	Mean   *kernel.Param
	Kern   kernel.Kernel
	Noise  *kernel.Param
	Jitter float64

	// Cached Cholesky state, invalidated by Invalidate.
	chol  *linalg.Dense
	alpha []float64

	// Cached grid interpolation operator for the matrix-free path. The
	// interpolation weights depend only on X, so hyperparameter updates
	// refresh Kuu in place instead of rebuilding.
	gridOp  *kernel.GridOperator
	gridOpN int
}

// New validates the training set and builds a regressor with the given
// kernel, zero constant mean and the given initial noise variance.
func New(x [][]float64, y []float64, kern kernel.Kernel, noise float64) (*Regressor, error) {
	if len(x) == 0 {
		return nil, errors.New("gp: empty training set")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("gp: %d inputs but %d targets", len(x), len(y))
	}
	width := len(x[0])
	for i, p := range x {
		if len(p) != width {
			return nil, fmt.Errorf("gp: input %d has %d dims, want %d", i, len(p), width)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("gp: input %d is not finite", i)
			}
		}
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("gp: target %d is not finite", i)
		}
	}
	return &Regressor{
		X:      x,
		Y:      y,
		Mean:   kernel.NewRaw("mean", 0),
		Kern:   kern,
		Noise:  kernel.NewPositive("noise", noise),
		Jitter: defaultJitter,
	}, nil
}

// Params returns every trainable hyperparameter: mean, kernel parameters,
// noise.
func (r *Regressor) Params() []*kernel.Param {
	out := []*kernel.Param{r.Mean}
	out = append(out, r.Kern.Params()...)
	return append(out, r.Noise)
}

// Invalidate drops cached factorizations. Call after hyperparameters
// change.
func (r *Regressor) Invalidate() {
	r.chol = nil
	r.alpha = nil
}

// centered returns y - mean.
func (r *Regressor) centered() []float64 {
	m := r.Mean.Value()
	out := make([]float64, len(r.Y))
	for i, v := range r.Y {
		out[i] = v - m
	}
	return out
}

// factorize builds K + (noise+jitter)·I and its Cholesky factor, climbing
// a ×10 jitter ladder when the matrix is numerically indefinite.
func (r *Regressor) factorize() (*linalg.Dense, error) {
	if r.chol != nil {
		return r.chol, nil
	}
	k := kernel.Matrix(r.Kern, r.X)
	k.AddDiag(r.Noise.Value())

	jitter := r.Jitter
	added := 0.0
	for try := 0; ; try++ {
		k.AddDiag(jitter - added)
		added = jitter
		l, err := linalg.Cholesky(k)
		if err == nil {
			r.chol = l
			return l, nil
		}
		if try == maxJitterRetries {
			return nil, fmt.Errorf("gp: covariance not factorizable after %d jitter retries: %w", try, err)
		}
		jitter *= 10
	}
}

// solveAlpha returns α = K⁻¹(y - mean) using the cached factor.
func (r *Regressor) solveAlpha() ([]float64, error) {
	if r.alpha != nil {
		return r.alpha, nil
	}
	l, err := r.factorize()
	if err != nil {
		return nil, err
	}
	r.alpha = linalg.CholSolve(l, r.centered())
	return r.alpha, nil
}

// NegMLL returns the exact negative marginal log-likelihood
// ½·yᶜᵀK⁻¹yᶜ + ½·log det K + (n/2)·log 2π.
func (r *Regressor) NegMLL() (float64, error) {
	l, err := r.factorize()
	if err != nil {
		return 0, err
	}
	alpha, err := r.solveAlpha()
	if err != nil {
		return 0, err
	}
	yc := r.centered()
	n := float64(len(r.Y))
	return 0.5*linalg.Dot(yc, alpha) + 0.5*linalg.LogDetFromChol(l) + 0.5*n*log2Pi, nil
}

// LossAndGrad computes the exact negative MLL and fills every parameter's
// Grad with its analytic derivative. Gradients are overwritten, not
// accumulated.
func (r *Regressor) LossAndGrad() (float64, error) {
	r.Invalidate()
	for _, p := range r.Params() {
		p.Grad = 0
	}

	loss, err := r.NegMLL()
	if err != nil {
		return 0, err
	}
	l := r.chol
	alpha := r.alpha
	n := len(r.Y)

	// G = ααᵀ - K⁻¹; then ∂L/∂θ = -½·Σ_ij G_ij·∂K_ij/∂θ.
	// K⁻¹ = L⁻ᵀ·L⁻¹ from the cached factor.
	linv := linalg.InvertLower(l)
	kinv := linalg.MatMul(linv.Transpose(), linv)
	g := linalg.NewDense(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g.Set(i, j, alpha[i]*alpha[j]-kinv.At(i, j))
		}
	}

	kernel.AccumulateGrads(r.Kern, r.X, g, -0.5)

	trG := 0.0
	for i := 0; i < n; i++ {
		trG += g.At(i, i)
	}
	r.Noise.Grad = -0.5 * r.Noise.Value() * trG

	sumAlpha := 0.0
	for _, a := range alpha {
		sumAlpha += a
	}
	r.Mean.Grad = -sumAlpha

	return loss, nil
}

// Predict returns the posterior predictive mean and variance (including
// observation noise) at each test point.
func (r *Regressor) Predict(xs [][]float64) (mean, variance []float64, err error) {
	l, err := r.factorize()
	if err != nil {
		return nil, nil, err
	}
	alpha, err := r.solveAlpha()
	if err != nil {
		return nil, nil, err
	}

	mean = make([]float64, len(xs))
	variance = make([]float64, len(xs))
	m := r.Mean.Value()
	noise := r.Noise.Value()

	ks := kernel.CrossMatrix(r.Kern, xs, r.X)
	for i, xt := range xs {
		row := ks.Row(i)
		mean[i] = m + linalg.Dot(row, alpha)

		// Latent variance k** - k*ᵀK⁻¹k* via the triangular solve
		// v = L⁻¹k*, so k*ᵀK⁻¹k* = ‖v‖².
		v := linalg.SolveLower(l, row)
		lat := r.Kern.Eval(xt, xt) - linalg.Dot(v, v)
		if lat < 0 {
			lat = 0
		}
		variance[i] = lat + noise
	}
	return mean, variance, nil
}
