// Package kernel implements covariance functions for Gaussian process
// regression: an RBF base kernel, an outputscale wrapper, and an additive
// structure combining one kernel per input dimension. All hyperparameters
// live in log space and every kernel reports analytic derivatives with
// respect to them, so the model layer never needs finite differences.
package kernel

import (
	"math"

	"gridgp-forge/internal/linalg"
)

// Kernel is a positive semi-definite covariance function.
type Kernel interface {
	// Eval returns k(a, b).
	Eval(a, b []float64) float64

	// EvalGrad returns k(a, b) and writes ∂k/∂log θ for each parameter
	// into dst, which must have length len(Params()).
	EvalGrad(a, b []float64, dst []float64) float64

	// Params returns the kernel's hyperparameters in a stable order.
	Params() []*Param
}

// RBF is the squared-exponential kernel
// k(a, b) = exp(-‖a-b‖² / (2ℓ²)) with one shared lengthscale ℓ.
// Dim restricts the kernel to a single input dimension; set it to -1 to
// use all dimensions.
type RBF struct {
	Lengthscale *Param
	Dim         int
}

// NewRBF creates an RBF kernel over all input dimensions.
func NewRBF(lengthscale float64) *RBF {
	return &RBF{Lengthscale: NewPositive("lengthscale", lengthscale), Dim: -1}
}

// NewRBFDim creates an RBF kernel active on a single input dimension.
func NewRBFDim(lengthscale float64, dim int) *RBF {
	return &RBF{Lengthscale: NewPositive("lengthscale", lengthscale), Dim: dim}
}

func (k *RBF) sqDist(a, b []float64) float64 {
	if k.Dim >= 0 {
		d := a[k.Dim] - b[k.Dim]
		return d * d
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func (k *RBF) Eval(a, b []float64) float64 {
	ls := k.Lengthscale.Value()
	return math.Exp(-0.5 * k.sqDist(a, b) / (ls * ls))
}

func (k *RBF) EvalGrad(a, b []float64, dst []float64) float64 {
	ls := k.Lengthscale.Value()
	r2 := k.sqDist(a, b) / (ls * ls)
	v := math.Exp(-0.5 * r2)
	// ∂k/∂log ℓ = k · r²/ℓ² (chain rule through ℓ = exp(log ℓ)).
	dst[0] = v * r2
	return v
}

func (k *RBF) Params() []*Param {
	return []*Param{k.Lengthscale}
}

// Scale wraps a kernel with a learned outputscale: k(a,b) = σ²·inner(a,b).
type Scale struct {
	Outputscale *Param
	Inner       Kernel
}

// NewScale wraps inner with the given initial outputscale.
func NewScale(outputscale float64, inner Kernel) *Scale {
	return &Scale{Outputscale: NewPositive("outputscale", outputscale), Inner: inner}
}

func (k *Scale) Eval(a, b []float64) float64 {
	return k.Outputscale.Value() * k.Inner.Eval(a, b)
}

func (k *Scale) EvalGrad(a, b []float64, dst []float64) float64 {
	s := k.Outputscale.Value()
	inner := k.Inner.EvalGrad(a, b, dst[1:])
	for i := 1; i < len(dst); i++ {
		dst[i] *= s
	}
	v := s * inner
	// ∂(σ²·inner)/∂log σ² = σ²·inner.
	dst[0] = v
	return v
}

func (k *Scale) Params() []*Param {
	return append([]*Param{k.Outputscale}, k.Inner.Params()...)
}

// Additive sums a set of component kernels, one per additive term.
type Additive struct {
	Terms []Kernel

	offsets []int
	total   int
}

// NewAdditive builds an additive kernel from the given terms.
func NewAdditive(terms ...Kernel) *Additive {
	a := &Additive{Terms: terms}
	for _, t := range terms {
		a.offsets = append(a.offsets, a.total)
		a.total += len(t.Params())
	}
	return a
}

// NewAdditiveRBF builds the additive structure used for grid regression:
// one Scale(RBF) term per input dimension, each with its own lengthscale
// and outputscale.
func NewAdditiveRBF(dims int, lengthscale, outputscale float64) *Additive {
	terms := make([]Kernel, dims)
	for d := 0; d < dims; d++ {
		terms[d] = NewScale(outputscale, NewRBFDim(lengthscale, d))
	}
	return NewAdditive(terms...)
}

func (k *Additive) Eval(a, b []float64) float64 {
	sum := 0.0
	for _, t := range k.Terms {
		sum += t.Eval(a, b)
	}
	return sum
}

func (k *Additive) EvalGrad(a, b []float64, dst []float64) float64 {
	sum := 0.0
	for i, t := range k.Terms {
		lo := k.offsets[i]
		sum += t.EvalGrad(a, b, dst[lo:lo+len(t.Params())])
	}
	return sum
}

func (k *Additive) Params() []*Param {
	out := make([]*Param, 0, k.total)
	for _, t := range k.Terms {
		out = append(out, t.Params()...)
	}
	return out
}

// Matrix builds the symmetric covariance matrix K with K_ij = k(x_i, x_j).
func Matrix(k Kernel, x [][]float64) *linalg.Dense {
	n := len(x)
	out := linalg.NewDense(n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := k.Eval(x[i], x[j])
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}

// CrossMatrix builds the rectangular covariance between two point sets.
func CrossMatrix(k Kernel, a, b [][]float64) *linalg.Dense {
	out := linalg.NewDense(len(a), len(b))
	for i := range a {
		row := out.Row(i)
		for j := range b {
			row[j] = k.Eval(a[i], b[j])
		}
	}
	return out
}

// AccumulateGrads adds scale·Σ_ij w_ij·∂K_ij/∂log θ to every parameter's
// Grad, walking each symmetric pair once. w must be symmetric n×n.
func AccumulateGrads(k Kernel, x [][]float64, w *linalg.Dense, scale float64) {
	params := k.Params()
	buf := make([]float64, len(params))
	acc := make([]float64, len(params))
	for i := range x {
		for j := i; j < len(x); j++ {
			k.EvalGrad(x[i], x[j], buf)
			wij := w.At(i, j)
			if i != j {
				wij *= 2
			}
			for p := range acc {
				acc[p] += wij * buf[p]
			}
		}
	}
	for p, par := range params {
		par.Grad += scale * acc[p]
	}
}

// GradMatVec computes (∂K/∂log θ_p)·v for every parameter p in a single
// pass over the point pairs, for trace estimation in the iterative path.
func GradMatVec(k Kernel, x [][]float64, v []float64) [][]float64 {
	params := k.Params()
	buf := make([]float64, len(params))
	out := make([][]float64, len(params))
	for p := range out {
		out[p] = make([]float64, len(x))
	}
	for i := range x {
		for j := range x {
			k.EvalGrad(x[i], x[j], buf)
			for p := range buf {
				out[p][i] += buf[p] * v[j]
			}
		}
	}
	return out
}
