package kernel

import "math"

// Param is a scalar hyperparameter exposed to the optimizer through its
// raw (unconstrained) value. Positive parameters store the log of their
// value so gradient steps can never leave the valid range; raw parameters
// (like a constant mean) store the value directly. Grad holds ∂loss/∂raw.
type Param struct {
	Name string
	Grad float64

	raw      float64
	positive bool
}

// NewPositive creates a parameter constrained to (0, ∞), stored in log
// space, with the given initial value.
func NewPositive(name string, value float64) *Param {
	if value <= 0 {
		panic("kernel: param " + name + " must be positive")
	}
	return &Param{Name: name, raw: math.Log(value), positive: true}
}

// NewRaw creates an unconstrained parameter.
func NewRaw(name string, value float64) *Param {
	return &Param{Name: name, raw: value}
}

// Value returns the parameter in its natural space.
func (p *Param) Value() float64 {
	if p.positive {
		return math.Exp(p.raw)
	}
	return p.raw
}

// Raw returns the optimizer-facing value.
func (p *Param) Raw() float64 {
	return p.raw
}

// SetRaw stores an optimizer-facing value.
func (p *Param) SetRaw(v float64) {
	p.raw = v
}
