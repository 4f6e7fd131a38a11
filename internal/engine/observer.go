package engine

import (
	"github.com/eneri4/exploration-drones/internal/schedule"
	"github.com/eneri4/exploration-drones/internal/world"
)

// Frame is what observers see after each round. Everything in it is a copy.
type Frame struct {
	Round     int             `json:"round"`
	State     string          `json:"state"`
	Reason    Reason          `json:"reason,omitempty"`
	Mode      string          `json:"mode"`
	Positions []world.Point   `json:"positions"`
	Coverage  *world.Coverage `json:"-"`
	Covered   int             `json:"covered"`
	Total     int             `json:"total"`
	Block     []int           `json:"block,omitempty"`
	LastPair  *schedule.Pair  `json:"last_pair,omitempty"` // Transmitter/receiver of the round's final exchange
	Exchanges int             `json:"exchanges"`
	Counters  []Counter       `json:"counters"`
}

// Observer receives a frame after every round. It cannot influence the run.
type Observer interface {
	OnRound(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

// OnRound implements Observer.
func (fn ObserverFunc) OnRound(f Frame) { fn(f) }

// Frame captures the current round for observers.
func (s *Simulation) Frame() Frame {
	f := Frame{
		Round:     s.round,
		State:     s.state.String(),
		Reason:    s.reason,
		Mode:      s.Scheduler.Mode().String(),
		Positions: s.Positions(),
		Coverage:  s.Coverage.Clone(),
		Covered:   s.Coverage.Count(),
		Total:     s.Coverage.Total(),
		Exchanges: s.exchanges,
		Counters:  s.Counters(),
	}
	if s.lastPair != nil {
		p := *s.lastPair
		f.LastPair = &p
	}
	return f
}

func (s *Simulation) notify(block []int) {
	if len(s.observers) == 0 {
		return
	}
	f := s.Frame()
	f.Block = block
	for _, o := range s.observers {
		o.OnRound(f)
	}
}
