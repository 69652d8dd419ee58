// Package dataset builds the synthetic 2-D regression problem: training
// inputs on a uniform grid over the unit square and targets from a fixed
// analytic function plus a little observation noise.
package dataset

import (
	"math"
	"math/rand"
)

// NoiseScale is the standard deviation of the observation noise added to
// training targets.
const NoiseScale = 0.01

// Grid returns the coordinates of an n×n grid over [lo, hi]², row-major.
func Grid(n int, lo, hi float64) [][]float64 {
	if n <= 1 {
		panic("dataset: grid needs at least 2 points per side")
	}
	step := (hi - lo) / float64(n-1)
	out := make([][]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out = append(out, []float64{lo + float64(i)*step, lo + float64(j)*step})
		}
	}
	return out
}

// Truth is the noiseless target function y = sin(2π(x₀+x₁)).
func Truth(p []float64) float64 {
	return math.Sin(2 * math.Pi * (p[0] + p[1]))
}

// Synthetic returns the training set: an n×n grid over the unit square and
// noisy observations of Truth at each point.
func Synthetic(n int, seed int64) (x [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = Grid(n, 0, 1)
	y = make([]float64, len(x))
	for i, p := range x {
		y[i] = Truth(p) + NoiseScale*rng.NormFloat64()
	}
	return x, y
}
