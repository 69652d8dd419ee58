package solver

import (
	"math"
	"math/rand"
	"testing"

	"gridgp-forge/internal/linalg"
)

func randomSPD(n int, rng *rand.Rand) *linalg.Dense {
	b := linalg.NewDense(n, n)
	for i := range b.Data {
		b.Data[i] = rng.NormFloat64()
	}
	m := linalg.MatMul(b.Transpose(), b)
	m.AddDiag(float64(n))
	return m
}

func TestCGMatchesCholesky(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomSPD(40, rng)
	b := make([]float64, 40)
	for i := range b {
		b[i] = rng.NormFloat64()
	}

	got, err := CG(m.MatVec, b, 1e-10, 0)
	if err != nil {
		t.Fatalf("cg: %v", err)
	}

	l, err := linalg.Cholesky(m)
	if err != nil {
		t.Fatalf("cholesky: %v", err)
	}
	want := linalg.CholSolve(l, b)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Fatalf("solution[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestCGZeroRHS(t *testing.T) {
	m := randomSPD(5, rand.New(rand.NewSource(1)))
	x, err := CG(m.MatVec, make([]float64, 5), 1e-10, 0)
	if err != nil {
		t.Fatalf("cg: %v", err)
	}
	for i, v := range x {
		if v != 0 {
			t.Fatalf("x[%d] = %g, want 0", i, v)
		}
	}
}
