package solver

import (
	"math"
	"sort"
	"testing"
)

func TestSymTridiagEigenKnownMatrix(t *testing.T) {
	// Tridiagonal with diag 2 and offdiag -1 has eigenvalues
	// 2 - 2·cos(kπ/(n+1)).
	n := 5
	tri := &Tridiag{Diag: make([]float64, n), OffDiag: make([]float64, n-1)}
	for i := range tri.Diag {
		tri.Diag[i] = 2
	}
	for i := range tri.OffDiag {
		tri.OffDiag[i] = -1
	}

	vals, first, err := SymTridiagEigen(tri)
	if err != nil {
		t.Fatalf("eigen: %v", err)
	}
	sort.Float64s(vals)
	for k := 1; k <= n; k++ {
		want := 2 - 2*math.Cos(float64(k)*math.Pi/float64(n+1))
		if math.Abs(vals[k-1]-want) > 1e-10 {
			t.Fatalf("eigenvalue %d = %g, want %g", k, vals[k-1], want)
		}
	}

	// First components of an orthonormal eigenbasis sum to 1 in square.
	sum := 0.0
	for _, f := range first {
		sum += f * f
	}
	if math.Abs(sum-1) > 1e-10 {
		t.Fatalf("first-component weights sum to %g", sum)
	}
}

func TestSymTridiagEigenDiagonal(t *testing.T) {
	tri := &Tridiag{Diag: []float64{3, 1, 2}, OffDiag: []float64{0, 0}}
	vals, _, err := SymTridiagEigen(tri)
	if err != nil {
		t.Fatalf("eigen: %v", err)
	}
	sort.Float64s(vals)
	want := []float64{1, 2, 3}
	for i := range want {
		if math.Abs(vals[i]-want[i]) > 1e-12 {
			t.Fatalf("vals = %v, want %v", vals, want)
		}
	}
}
