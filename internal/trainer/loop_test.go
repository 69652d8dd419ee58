package trainer

import (
	"context"
	"errors"
	"testing"

	"gridgp-forge/internal/dataset"
)

func runConfig(gridN, iterations int) RunConfig {
	x, y := dataset.Synthetic(gridN, 3)
	return RunConfig{
		X:            x,
		Y:            y,
		Iterations:   iterations,
		LearningRate: 0.1,
		LogEvery:     100,
		Seed:         3,
		Lengthscale:  0.2,
		Outputscale:  1.0,
		Noise:        0.05,
		Solver:       "chol",
	}
}

func TestRunReducesLoss(t *testing.T) {
	model, history, err := Run(context.Background(), runConfig(8, 15))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if model == nil {
		t.Fatalf("no model returned")
	}
	if len(history) != 15 {
		t.Fatalf("expected 15 loss values, got %d", len(history))
	}
	if history[len(history)-1] >= history[0] {
		t.Fatalf("expected loss to decrease; first=%f last=%f", history[0], history[len(history)-1])
	}
}

func TestRunAppliesJitter(t *testing.T) {
	cfg := runConfig(4, 1)
	cfg.Jitter = 1e-4
	model, _, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if model.Jitter != 1e-4 {
		t.Fatalf("model jitter = %g, want 1e-4", model.Jitter)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Run(ctx, runConfig(8, 1000))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := runConfig(8, 10)
	cfg.Iterations = 0
	if _, _, err := Run(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for zero iterations")
	}

	cfg = runConfig(8, 10)
	cfg.X = nil
	if _, _, err := Run(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing data")
	}
}
