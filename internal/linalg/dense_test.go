package linalg

import (
	"math"
	"testing"
)

func TestTransposeMatVec(t *testing.T) {
	m := NewDense(2, 3)
	copy(m.Data, []float64{1, 2, 3, 4, 5, 6})

	mt := m.Transpose()
	if mt.Rows != 3 || mt.Cols != 2 {
		t.Fatalf("transpose shape %dx%d", mt.Rows, mt.Cols)
	}
	if mt.At(2, 1) != 6 || mt.At(0, 1) != 4 {
		t.Fatalf("transpose values wrong: %v", mt.Data)
	}

	got := m.MatVec([]float64{1, 0, -1})
	want := []float64{-2, -2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("matvec[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestAddDiag(t *testing.T) {
	m := NewDense(3, 3)
	m.AddDiag(2.5)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 2.5
			}
			if m.At(i, j) != want {
				t.Fatalf("at(%d,%d) = %f", i, j, m.At(i, j))
			}
		}
	}
}

func TestVectorHelpers(t *testing.T) {
	a := []float64{3, 4}
	if Norm(a) != 5 {
		t.Fatalf("norm = %f", Norm(a))
	}
	b := []float64{1, 2}
	if Dot(a, b) != 11 {
		t.Fatalf("dot = %f", Dot(a, b))
	}
	Axpy(2, b, a)
	if a[0] != 5 || a[1] != 8 {
		t.Fatalf("axpy result %v", a)
	}
	Scale(0.5, a)
	if a[0] != 2.5 || a[1] != 4 {
		t.Fatalf("scale result %v", a)
	}
}
