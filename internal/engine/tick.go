// Package engine provides the round-synchronous simulation loop and a paced
// driver for watching a run unfold.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine drives a Simulation forward at a fixed pace.
type Engine struct {
	Interval time.Duration // Pause between rounds (0 = flat out)

	// OnRound is called after each round with the completed round count.
	OnRound func(round int)

	running atomic.Bool
	stopped atomic.Bool // Set by Stop; survives a Stop that lands before Run
}

// NewEngine creates an engine with no pacing.
func NewEngine() *Engine {
	return &Engine{}
}

// Running reports whether Run is in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run steps sim until it terminates, Stop is called, or ctx is cancelled.
// Blocks for the duration of the run.
func (e *Engine) Run(ctx context.Context, sim *Simulation) (Result, error) {
	e.running.Store(true)
	defer e.running.Store(false)

	slog.Info("simulation engine started", "round", sim.Round(), "interval", e.Interval)
	sim.Start()

	for !e.stopped.Load() {
		start := time.Now()

		more, err := sim.Step()
		if err != nil {
			return sim.Result(), err
		}
		if e.OnRound != nil {
			e.OnRound(sim.Round())
		}
		if !more {
			break
		}

		// Sleep for the remainder of the interval.
		if elapsed := time.Since(start); elapsed < e.Interval {
			select {
			case <-ctx.Done():
				e.stopped.Store(true)
			case <-time.After(e.Interval - elapsed):
			}
		} else if ctx.Err() != nil {
			e.stopped.Store(true)
		}
	}

	if sim.State() != StateTerminated {
		sim.Stop()
	}
	slog.Info("simulation engine stopped", "round", sim.Round(), "reason", string(sim.Reason()))
	return sim.Result(), nil
}

// Stop halts the loop after the current round. Calling it before Run makes
// Run stop the simulation without stepping.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}
