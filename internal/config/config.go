package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config captures the runtime knobs for a regression run.
type Config struct {
	TrainGridN   int     `yaml:"train_grid_n"`
	TestGridN    int     `yaml:"test_grid_n"`
	Iterations   int     `yaml:"iterations"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
	LogEvery     int     `yaml:"log_every"`
	OutDir       string  `yaml:"out_dir"`

	// Initial hyperparameters.
	Lengthscale float64 `yaml:"lengthscale"`
	Outputscale float64 `yaml:"outputscale"`
	Noise       float64 `yaml:"noise"`

	// Jitter is added to the covariance diagonal before factorizing.
	Jitter float64 `yaml:"jitter"`

	// Solver selects the inference path: "chol" (exact Cholesky) or "cg"
	// (conjugate gradients + stochastic Lanczos quadrature).
	Solver        string  `yaml:"solver"`
	InducingGridN int     `yaml:"inducing_grid_n"`
	CGTol         float64 `yaml:"cg_tol"`
	CGMaxIters    int     `yaml:"cg_max_iters"`
	Probes        int     `yaml:"probes"`
	LanczosRank   int     `yaml:"lanczos_rank"`
}

// Default returns the configuration of the reference run: a 30×30
// training grid fit for 25 Adam iterations with the exact solver.
func Default() *Config {
	return &Config{
		TrainGridN:   30,
		TestGridN:    50,
		Iterations:   25,
		LearningRate: 0.1,
		Seed:         42,
		LogEvery:     1,
		OutDir:       "out",
		Lengthscale:  0.2,
		Outputscale:  1.0,
		Noise:        0.05,
		Jitter:       1e-6,
		Solver:       "chol",
		CGTol:        1e-8,
		Probes:       10,
		LanczosRank:  30,
	}
}

// Overrides captures CLI supplied values.
type Overrides struct {
	TrainGridN   int
	TestGridN    int
	Iterations   int
	LearningRate float64
	Seed         int64
	LogEvery     int
	OutDir       string
	Solver       string
	InducingGrid int
}

// Load reads and validates a Config from YAML, starting from defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := parseYAML(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.TrainGridN > 0 {
		c.TrainGridN = o.TrainGridN
	}
	if o.TestGridN > 0 {
		c.TestGridN = o.TestGridN
	}
	if o.Iterations > 0 {
		c.Iterations = o.Iterations
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.OutDir != "" {
		c.OutDir = o.OutDir
	}
	if o.Solver != "" {
		c.Solver = o.Solver
	}
	if o.InducingGrid > 0 {
		c.InducingGridN = o.InducingGrid
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.TrainGridN < 2 {
		return fmt.Errorf("train_grid_n must be >= 2 (got %d)", c.TrainGridN)
	}
	if c.TestGridN < 2 {
		return fmt.Errorf("test_grid_n must be >= 2 (got %d)", c.TestGridN)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (got %d)", c.Iterations)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Lengthscale <= 0 || c.Outputscale <= 0 || c.Noise <= 0 {
		return errors.New("lengthscale, outputscale and noise must be > 0")
	}
	if c.Jitter <= 0 {
		return fmt.Errorf("jitter must be > 0 (got %g)", c.Jitter)
	}
	switch c.Solver {
	case "chol", "cg":
	default:
		return fmt.Errorf("solver must be chol or cg (got %q)", c.Solver)
	}
	if c.InducingGridN > 0 && c.Solver != "cg" {
		return errors.New("inducing_grid_n requires solver: cg")
	}
	if c.OutDir == "" {
		return errors.New("out_dir must be set")
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1
	}
	return nil
}

func parseYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: missing ':'", lineNo)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, "\"'")

		var err error
		switch key {
		case "train_grid_n":
			cfg.TrainGridN, err = parseInt(value)
		case "test_grid_n":
			cfg.TestGridN, err = parseInt(value)
		case "iterations":
			cfg.Iterations, err = parseInt(value)
		case "learning_rate":
			cfg.LearningRate, err = parseFloat(value)
		case "seed":
			cfg.Seed, err = strconv.ParseInt(value, 10, 64)
		case "log_every":
			cfg.LogEvery, err = parseInt(value)
		case "out_dir":
			cfg.OutDir = value
		case "lengthscale":
			cfg.Lengthscale, err = parseFloat(value)
		case "outputscale":
			cfg.Outputscale, err = parseFloat(value)
		case "noise":
			cfg.Noise, err = parseFloat(value)
		case "jitter":
			cfg.Jitter, err = parseFloat(value)
		case "solver":
			cfg.Solver = value
		case "inducing_grid_n":
			cfg.InducingGridN, err = parseInt(value)
		case "cg_tol":
			cfg.CGTol, err = parseFloat(value)
		case "cg_max_iters":
			cfg.CGMaxIters, err = parseInt(value)
		case "probes":
			cfg.Probes, err = parseInt(value)
		case "lanczos_rank":
			cfg.LanczosRank, err = parseInt(value)
		default:
			return nil, fmt.Errorf("line %d: unknown key %s", lineNo, key)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(v)
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(v, 64)
}
