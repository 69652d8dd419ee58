package solver

import (
	"math"
	"math/rand"
	"testing"

	"gridgp-forge/internal/linalg"
)

// TestLanczosReconstructs checks the full-rank contract: for an SPD matrix
// normalized to unit Frobenius norm plus a small diagonal shift, running
// Lanczos to completion gives Q·T·Qᵀ ≈ A.
func TestLanczosReconstructs(t *testing.T) {
	const size = 100
	rng := rand.New(rand.NewSource(0))

	b := linalg.NewDense(size, size)
	for i := range b.Data {
		b.Data[i] = rng.NormFloat64()
	}
	a := linalg.MatMul(b, b.Transpose())

	frob := 0.0
	for _, v := range a.Data {
		frob += v * v
	}
	linalg.Scale(1/math.Sqrt(frob), a.Data)
	a.AddDiag(1e-6)

	q, tri := LanczosTridiag(a.MatVec, size, size, rng)

	approx := linalg.MatMul(linalg.MatMul(q, tri.Dense()), q.Transpose())
	for i := range a.Data {
		if math.Abs(approx.Data[i]-a.Data[i]) > 1e-4 {
			t.Fatalf("reconstruction off at %d: %g vs %g", i, approx.Data[i], a.Data[i])
		}
	}
}

func TestLanczosBasisOrthonormal(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := randomSPD(30, rng)

	q, tri := LanczosTridiag(a.MatVec, 30, 12, rng)
	k := len(tri.Diag)
	if q.Cols != k {
		t.Fatalf("basis has %d columns, tridiag rank %d", q.Cols, k)
	}

	qtq := linalg.MatMul(q.Transpose(), q)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(qtq.At(i, j)-want) > 1e-8 {
				t.Fatalf("QᵀQ[%d,%d] = %g", i, j, qtq.At(i, j))
			}
		}
	}
}
