package trainer

import (
	"math"
	"testing"

	"gridgp-forge/internal/kernel"
)

// TestAdamMinimizesQuadratic drives a single raw parameter toward the
// minimum of ½(θ-3)².
func TestAdamMinimizesQuadratic(t *testing.T) {
	p := kernel.NewRaw("theta", 0)
	opt := NewAdam(0.1, 1)

	for i := 0; i < 500; i++ {
		p.Grad = p.Raw() - 3
		opt.Step([]*kernel.Param{p})
	}
	if math.Abs(p.Raw()-3) > 0.05 {
		t.Fatalf("theta = %f, want ~3", p.Raw())
	}
}

func TestAdamStepSizeBounded(t *testing.T) {
	p := kernel.NewRaw("theta", 0)
	opt := NewAdam(0.1, 1)

	p.Grad = 1e6
	opt.Step([]*kernel.Param{p})
	// Adam normalizes by the gradient magnitude, so even a huge gradient
	// moves the parameter by roughly the learning rate.
	if math.Abs(p.Raw()) > 0.2 {
		t.Fatalf("first step moved theta to %f", p.Raw())
	}
}
