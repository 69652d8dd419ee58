package trainer

import (
	"math"

	"gridgp-forge/internal/kernel"
)

// Adam updates hyperparameters with bias-corrected first and second
// moment estimates:
//
//	m_t = β₁·m_{t-1} + (1-β₁)·g
//	v_t = β₂·v_{t-1} + (1-β₂)·g²
//	θ  -= lr · m̂_t / (√v̂_t + ε)
type Adam struct {
	lr      float64
	beta1   float64
	beta2   float64
	epsilon float64

	m []float64
	v []float64
	t int
}

// NewAdam creates an optimizer for n parameters with standard moment
// decay rates.
func NewAdam(lr float64, n int) *Adam {
	return &Adam{
		lr:      lr,
		beta1:   0.9,
		beta2:   0.999,
		epsilon: 1e-8,
		m:       make([]float64, n),
		v:       make([]float64, n),
	}
}

// Step applies one update to the raw value of every parameter using the
// gradients currently stored on them.
func (a *Adam) Step(params []*kernel.Param) {
	a.t++
	bias1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	bias2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for i, p := range params {
		g := p.Grad
		a.m[i] = a.beta1*a.m[i] + (1.0-a.beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1.0-a.beta2)*g*g

		mHat := a.m[i] / bias1
		vHat := a.v[i] / bias2
		p.SetRaw(p.Raw() - a.lr*mHat/(math.Sqrt(vHat)+a.epsilon))
	}
}
