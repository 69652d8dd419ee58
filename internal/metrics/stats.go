package metrics

import "time"

// Window accumulates timing stats across training iterations.
type Window struct {
	lossGrad time.Duration
	step     time.Duration
	iters    int
	lastLoss float64
}

// Record adds one iteration's measurements to the window.
func (w *Window) Record(lossGradTime, stepTime time.Duration, loss float64) {
	w.lossGrad += lossGradTime
	w.step += stepTime
	w.iters++
	w.lastLoss = loss
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	total := w.lossGrad + w.step
	if total > 0 {
		snap.ItersPerSec = float64(w.iters) / total.Seconds()
	}
	if w.iters > 0 {
		snap.AvgLossGradMS = (w.lossGrad.Seconds() * 1000) / float64(w.iters)
		snap.AvgStepMS = (w.step.Seconds() * 1000) / float64(w.iters)
	}
	snap.LastLoss = w.lastLoss

	w.lossGrad = 0
	w.step = 0
	w.iters = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	ItersPerSec   float64
	AvgLossGradMS float64
	AvgStepMS     float64
	LastLoss      float64
}
