package dataset

import (
	"math"
	"testing"
)

func TestGridCoversRange(t *testing.T) {
	g := Grid(5, 0, 1)
	if len(g) != 25 {
		t.Fatalf("expected 25 points, got %d", len(g))
	}
	first, last := g[0], g[len(g)-1]
	if first[0] != 0 || first[1] != 0 {
		t.Fatalf("first point %v", first)
	}
	if last[0] != 1 || last[1] != 1 {
		t.Fatalf("last point %v", last)
	}
	for _, p := range g {
		if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
			t.Fatalf("point out of range: %v", p)
		}
	}
}

func TestSyntheticTargets(t *testing.T) {
	x, y := Synthetic(10, 7)
	if len(x) != len(y) {
		t.Fatalf("%d inputs, %d targets", len(x), len(y))
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("target %d not finite", i)
		}
		if math.Abs(v-Truth(x[i])) > 6*NoiseScale {
			t.Fatalf("target %d is %g, truth %g: noise too large", i, v, Truth(x[i]))
		}
	}
}

func TestSyntheticDeterministicPerSeed(t *testing.T) {
	_, y1 := Synthetic(6, 9)
	_, y2 := Synthetic(6, 9)
	for i := range y1 {
		if y1[i] != y2[i] {
			t.Fatalf("same seed produced different targets at %d", i)
		}
	}
}

func TestTruthPeriodicity(t *testing.T) {
	a := Truth([]float64{0.1, 0.2})
	b := Truth([]float64{0.6, 0.7}) // shift of 1 in x0+x1
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("truth not periodic: %g vs %g", a, b)
	}
}
