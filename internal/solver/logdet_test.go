package solver

import (
	"math"
	"math/rand"
	"testing"

	"gridgp-forge/internal/linalg"
)

func TestLogDetSLQApproximatesExact(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	n := 40
	m := randomSPD(n, rng)

	l, err := linalg.Cholesky(m)
	if err != nil {
		t.Fatalf("cholesky: %v", err)
	}
	want := linalg.LogDetFromChol(l)

	// Full-rank quadrature makes every probe exact, so the only error left
	// is Hutchinson variance across probes.
	got, err := LogDetSLQ(m.MatVec, n, 100, n, rng)
	if err != nil {
		t.Fatalf("slq: %v", err)
	}
	if math.Abs(got-want) > 0.1*math.Abs(want) {
		t.Fatalf("slq logdet = %g, exact %g", got, want)
	}
}

func TestLogDetSLQLowRank(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	n := 60
	m := randomSPD(n, rng)

	l, err := linalg.Cholesky(m)
	if err != nil {
		t.Fatalf("cholesky: %v", err)
	}
	want := linalg.LogDetFromChol(l)

	got, err := LogDetSLQ(m.MatVec, n, 60, 25, rng)
	if err != nil {
		t.Fatalf("slq: %v", err)
	}
	if math.Abs(got-want) > 0.15*math.Abs(want) {
		t.Fatalf("slq logdet = %g, exact %g", got, want)
	}
}
