package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gridgp-forge/internal/config"
	"gridgp-forge/internal/dataset"
	"gridgp-forge/internal/gp"
	"gridgp-forge/internal/linalg"
	"gridgp-forge/internal/plot"
	"gridgp-forge/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (empty for defaults)")
	trainGridN := flag.Int("train-grid-n", 0, "Training grid points per side")
	testGridN := flag.Int("test-grid-n", 0, "Test grid points per side")
	iterations := flag.Int("iterations", 0, "Number of training iterations")
	learningRate := flag.Float64("learning-rate", 0, "Adam learning rate")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N iterations")
	outDir := flag.String("out-dir", "", "Directory for PNG artifacts")
	solverName := flag.String("solver", "", "Inference path: chol or cg")
	inducingGrid := flag.Int("inducing-grid-n", 0, "Inducing grid points per dimension (cg solver)")

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	cfg.ApplyOverrides(config.Overrides{
		TrainGridN:   *trainGridN,
		TestGridN:    *testGridN,
		Iterations:   *iterations,
		LearningRate: *learningRate,
		Seed:         *seed,
		LogEvery:     *logEvery,
		OutDir:       *outDir,
		Solver:       *solverName,
		InducingGrid: *inducingGrid,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("matmul_kernel=%s solver=%s", linalg.KernelVariant(), cfg.Solver)

	x, y := dataset.Synthetic(cfg.TrainGridN, cfg.Seed)
	log.Printf("train_points=%d grid=%dx%d", len(x), cfg.TrainGridN, cfg.TrainGridN)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, history, err := trainer.Run(ctx, trainer.RunConfig{
		X:            x,
		Y:            y,
		Iterations:   cfg.Iterations,
		LearningRate: cfg.LearningRate,
		LogEvery:     cfg.LogEvery,
		Seed:         cfg.Seed,
		Lengthscale:  cfg.Lengthscale,
		Outputscale:  cfg.Outputscale,
		Noise:        cfg.Noise,
		Jitter:       cfg.Jitter,
		Solver:       cfg.Solver,
		Iter: gp.IterOpts{
			InducingGridN: cfg.InducingGridN,
			CGTol:         cfg.CGTol,
			CGMaxIters:    cfg.CGMaxIters,
			Probes:        cfg.Probes,
			LanczosRank:   cfg.LanczosRank,
		},
	})
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	testX := dataset.Grid(cfg.TestGridN, 0, 1)
	mean, variance, err := model.Predict(testX)
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}

	truth := make([]float64, len(testX))
	absErr := make([]float64, len(testX))
	stddev := make([]float64, len(testX))
	sse := 0.0
	for i, p := range testX {
		truth[i] = dataset.Truth(p)
		absErr[i] = math.Abs(mean[i] - truth[i])
		stddev[i] = math.Sqrt(variance[i])
		sse += (mean[i] - truth[i]) * (mean[i] - truth[i])
	}
	rmse := math.Sqrt(sse / float64(len(testX)))
	log.Printf("test_points=%d rmse=%.4f", len(testX), rmse)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	artifacts := []struct {
		name   string
		values []float64
	}{
		{"mean.png", mean},
		{"truth.png", truth},
		{"abs_error.png", absErr},
		{"stddev.png", stddev},
	}
	for _, a := range artifacts {
		path := filepath.Join(cfg.OutDir, a.name)
		if err := plot.Heatmap(path, a.values, cfg.TestGridN); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
	}
	lossPath := filepath.Join(cfg.OutDir, "loss.png")
	if err := plot.LossCurve(lossPath, history); err != nil {
		log.Fatalf("write %s: %v", lossPath, err)
	}
	log.Printf("artifacts written to %s", cfg.OutDir)
}
