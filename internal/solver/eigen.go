package solver

import (
	"fmt"
	"math"
)

// SymTridiagEigen computes the eigenvalues of a symmetric tridiagonal
// matrix together with the first component of each normalized
// eigenvector, which is all Gauss quadrature needs. Implicit QL with
// Wilkinson shifts, rotations accumulated only into the first row.
func SymTridiagEigen(t *Tridiag) (vals, firstComp []float64, err error) {
	n := len(t.Diag)
	d := append([]float64(nil), t.Diag...)
	e := make([]float64, n)
	copy(e, t.OffDiag)

	// z tracks row 0 of the accumulated rotation matrix.
	z := make([]float64, n)
	z[0] = 1

	for l := 0; l < n; l++ {
		for iter := 0; ; iter++ {
			m := l
			for ; m < n-1; m++ {
				dd := math.Abs(d[m]) + math.Abs(d[m+1])
				if math.Abs(e[m]) <= 1e-15*dd {
					break
				}
			}
			if m == l {
				break
			}
			if iter == 50 {
				return nil, nil, fmt.Errorf("solver: tridiagonal QL failed to converge at index %d", l)
			}

			g := (d[l+1] - d[l]) / (2 * e[l])
			r := math.Hypot(g, 1)
			g = d[m] - d[l] + e[l]/(g+math.Copysign(r, g))
			s, c := 1.0, 1.0
			p := 0.0
			underflow := false

			for i := m - 1; i >= l; i-- {
				f := s * e[i]
				b := c * e[i]
				r = math.Hypot(f, g)
				e[i+1] = r
				if r == 0 {
					// Rotation annihilated early; restart the sweep.
					d[i+1] -= p
					e[m] = 0
					underflow = true
					break
				}
				s = f / r
				c = g / r
				g = d[i+1] - p
				r = (d[i]-g)*s + 2*c*b
				p = s * r
				d[i+1] = g + p
				g = c*r - b

				f = z[i+1]
				z[i+1] = s*z[i] + c*f
				z[i] = c*z[i] - s*f
			}
			if underflow {
				continue
			}
			d[l] -= p
			e[l] = g
			e[m] = 0
		}
	}
	return d, z, nil
}
