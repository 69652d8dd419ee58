package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gridgp-forge/internal/gp"
	"gridgp-forge/internal/kernel"
	"gridgp-forge/internal/metrics"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	X [][]float64
	Y []float64

	Iterations   int
	LearningRate float64
	LogEvery     int
	Seed         int64

	// Initial hyperparameters shared by every additive term.
	Lengthscale float64
	Outputscale float64
	Noise       float64

	// Jitter overrides the regressor's diagonal jitter when > 0.
	Jitter float64

	// Solver is "chol" for exact Cholesky inference or "cg" for the
	// matrix-free path configured by Iter.
	Solver string
	Iter   gp.IterOpts
}

// Run fits GP hyperparameters by Adam on the negative marginal
// log-likelihood and returns the trained model plus the per-iteration
// loss history.
func Run(ctx context.Context, cfg RunConfig) (*gp.Regressor, []float64, error) {
	if cfg.Iterations <= 0 {
		return nil, nil, errors.New("trainer: iterations must be > 0")
	}
	if cfg.LearningRate <= 0 {
		return nil, nil, errors.New("trainer: learning rate must be > 0")
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 1
	}
	if len(cfg.X) == 0 {
		return nil, nil, errors.New("trainer: no training data")
	}

	dims := len(cfg.X[0])
	kern := kernel.NewAdditiveRBF(dims, cfg.Lengthscale, cfg.Outputscale)
	model, err := gp.New(cfg.X, cfg.Y, kern, cfg.Noise)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Jitter > 0 {
		model.Jitter = cfg.Jitter
	}

	params := model.Params()
	opt := NewAdam(cfg.LearningRate, len(params))
	rng := rand.New(rand.NewSource(cfg.Seed))
	var window metrics.Window
	history := make([]float64, 0, cfg.Iterations)

	for iter := 1; iter <= cfg.Iterations; iter++ {
		select {
		case <-ctx.Done():
			return model, history, ctx.Err()
		default:
		}

		startLoss := time.Now()
		var loss float64
		if cfg.Solver == "cg" {
			loss, err = model.LossAndGradIterative(cfg.Iter, rng)
		} else {
			loss, err = model.LossAndGrad()
		}
		if err != nil {
			return nil, history, fmt.Errorf("trainer: iteration %d: %w", iter, err)
		}
		lossTime := time.Since(startLoss)

		startStep := time.Now()
		opt.Step(params)
		model.Invalidate()
		stepTime := time.Since(startStep)

		window.Record(lossTime, stepTime, loss)
		history = append(history, loss)

		if iter%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			log.Printf("iter=%d loss=%.4f iters_per_sec=%.2f lossgrad_ms=%.2f step_ms=%.2f %s noise=%.4f",
				iter,
				loss,
				snap.ItersPerSec,
				snap.AvgLossGradMS,
				snap.AvgStepMS,
				describeKernel(kern),
				model.Noise.Value(),
			)
		}
	}

	return model, history, nil
}

// describeKernel renders the per-dimension lengthscales and outputscales
// for the training log.
func describeKernel(k *kernel.Additive) string {
	out := ""
	for d, term := range k.Terms {
		sc, ok := term.(*kernel.Scale)
		if !ok {
			continue
		}
		rbf, ok := sc.Inner.(*kernel.RBF)
		if !ok {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("ls%d=%.3f os%d=%.3f", d, rbf.Lengthscale.Value(), d, sc.Outputscale.Value())
	}
	return out
}
