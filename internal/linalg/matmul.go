package linalg

import (
	"fmt"
	"runtime"
	"sync"
)

// MatMul computes a·b using a cache-blocked kernel, splitting row blocks
// across GOMAXPROCS workers for matrices large enough to amortize the
// goroutine overhead.
func MatMul(a, b *Dense) *Dense {
	if a.Cols != b.Rows {
		panic(fmt.Sprintf("linalg: MatMul dimension mismatch %dx%d vs %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := NewDense(a.Rows, b.Cols)

	bs := blockSize()
	if a.Rows*a.Cols < 64*64 {
		matMulRange(a, b, out, 0, a.Rows, bs)
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > a.Rows {
		workers = a.Rows
	}
	chunk := (a.Rows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > a.Rows {
			hi = a.Rows
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			matMulRange(a, b, out, lo, hi, bs)
		}(lo, hi)
	}
	wg.Wait()
	return out
}

// matMulRange multiplies rows [lo,hi) of a into out with i-k-j loop order
// and square tiling so the hot b rows stay cache resident.
func matMulRange(a, b, out *Dense, lo, hi, bs int) {
	n := b.Cols
	k := a.Cols
	for ii := lo; ii < hi; ii += bs {
		iMax := min(ii+bs, hi)
		for kk := 0; kk < k; kk += bs {
			kMax := min(kk+bs, k)
			for i := ii; i < iMax; i++ {
				aRow := a.Row(i)
				outRow := out.Row(i)
				for kc := kk; kc < kMax; kc++ {
					av := aRow[kc]
					if av == 0 {
						continue
					}
					bRow := b.Data[kc*n : kc*n+n]
					Axpy(av, bRow, outRow)
				}
			}
		}
	}
}
