package kernel

import (
	"math"
	"math/rand"
	"testing"
)

func TestGridInterpApproximatesExactMatVec(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	n := 60
	x := make([][]float64, n)
	for i := range x {
		x[i] = []float64{rng.Float64()}
	}
	base := NewScale(0.9, NewRBFDim(0.3, 0))

	gi, err := NewGridInterp(base, 0, 80, x)
	if err != nil {
		t.Fatalf("grid interp: %v", err)
	}
	if gi.GridSize() != 80 {
		t.Fatalf("grid size %d, want 80", gi.GridSize())
	}

	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	approx := gi.MatVec(v)
	exact := Matrix(base, x).MatVec(v)

	num, den := 0.0, 0.0
	for i := range exact {
		d := approx[i] - exact[i]
		num += d * d
		den += exact[i] * exact[i]
	}
	if rel := math.Sqrt(num / den); rel > 0.01 {
		t.Fatalf("relative matvec error %g", rel)
	}
}

func TestGridInterpRefreshTracksHyperparameters(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	x := make([][]float64, 30)
	for i := range x {
		x[i] = []float64{rng.Float64()}
	}
	base := NewScale(1.0, NewRBFDim(0.25, 0))
	gi, err := NewGridInterp(base, 0, 64, x)
	if err != nil {
		t.Fatalf("grid interp: %v", err)
	}

	v := make([]float64, len(x))
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	before := gi.MatVec(v)

	base.Outputscale.SetRaw(base.Outputscale.Raw() + math.Log(2))
	gi.Refresh()
	after := gi.MatVec(v)

	for i := range before {
		if math.Abs(after[i]-2*before[i]) > 1e-9*math.Abs(before[i])+1e-12 {
			t.Fatalf("refresh did not double component %d: %g vs %g", i, after[i], before[i])
		}
	}
}

func TestGridOperatorMatchesDenseAdditive(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	n := 50
	x := make([][]float64, n)
	for i := range x {
		x[i] = []float64{rng.Float64(), rng.Float64()}
	}
	add := NewAdditiveRBF(2, 0.3, 0.8)

	op, err := NewGridOperator(add, 80, x)
	if err != nil {
		t.Fatalf("grid operator: %v", err)
	}

	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	approx := op.MatVec(v)
	exact := Matrix(add, x).MatVec(v)

	num, den := 0.0, 0.0
	for i := range exact {
		d := approx[i] - exact[i]
		num += d * d
		den += exact[i] * exact[i]
	}
	if rel := math.Sqrt(num / den); rel > 0.02 {
		t.Fatalf("relative matvec error %g", rel)
	}
}

func TestGridInterpRejectsTinyGrid(t *testing.T) {
	x := [][]float64{{0.1}, {0.9}}
	if _, err := NewGridInterp(NewRBFDim(0.3, 0), 0, 4, x); err == nil {
		t.Fatalf("expected error for tiny grid")
	}
}
