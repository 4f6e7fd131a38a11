// Package energy estimates the radio energy spent on map exchanges.
//
// One exchange period has one sender and one receiver. Every other drone that
// is awake for the round idles; drones outside the active group sleep. Energy
// is reported in watt-periods: power draw summed over exchange periods.
package energy

import (
	"fmt"

	"github.com/eneri4/exploration-drones/internal/design"
)

// Model holds the per-period power draw of each radio state, in watts.
type Model struct {
	Send    float64 `json:"send" yaml:"send"`
	Receive float64 `json:"receive" yaml:"receive"`
	Idle    float64 `json:"idle" yaml:"idle"`
	Sleep   float64 `json:"sleep" yaml:"sleep"`
}

// Default is the reference radio profile.
var Default = Model{Send: 1.4, Receive: 1.0, Idle: 0.83, Sleep: 0.13}

// Estimate is the exchange count and energy for one complete schedule cycle.
type Estimate struct {
	Exchanges int     `json:"exchanges"`
	Energy    float64 `json:"energy"`
}

// Comparison pits a block design against the full mesh over the same swarm.
type Comparison struct {
	Triple design.Triple `json:"triple"`
	BIBD   Estimate      `json:"bibd"`
	Full   Estimate      `json:"full"`
}

// Saving returns the fraction of full-mesh energy the design avoids.
func (c Comparison) Saving() float64 {
	if c.Full.Energy == 0 {
		return 0
	}
	return 1 - c.BIBD.Energy/c.Full.Energy
}

// PerExchange returns the swarm-wide draw for one exchange period with active
// drones awake out of v.
func (m Model) PerExchange(v, active int) float64 {
	return m.Send + m.Receive + float64(active-2)*m.Idle + float64(v-active)*m.Sleep
}

// BIBD estimates one pass over a (v, k, λ) design: every block runs all
// k(k-1) ordered exchanges while the other v-k drones sleep.
func (m Model) BIBD(t design.Triple) (Estimate, error) {
	_, b, err := design.Params(t.V, t.K, t.Lambda)
	if err != nil {
		return Estimate{}, err
	}
	n := t.K * (t.K - 1) * b
	return Estimate{Exchanges: n, Energy: m.PerExchange(t.V, t.K) * float64(n)}, nil
}

// Full estimates one full-mesh round: all v(v-1) ordered exchanges with every
// drone awake.
func (m Model) Full(v int) Estimate {
	if v < 2 {
		return Estimate{}
	}
	n := v * (v - 1)
	return Estimate{Exchanges: n, Energy: m.PerExchange(v, v) * float64(n)}
}

// Compare evaluates both schedules for t.
func (m Model) Compare(t design.Triple) (Comparison, error) {
	est, err := m.BIBD(t)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare %s: %w", t, err)
	}
	return Comparison{Triple: t, BIBD: est, Full: m.Full(t.V)}, nil
}

// CompareAll evaluates every triple in order.
func (m Model) CompareAll(sets []design.Triple) ([]Comparison, error) {
	out := make([]Comparison, 0, len(sets))
	for _, t := range sets {
		c, err := m.Compare(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Measured converts the exchanges counted during a run into energy. active is
// the number of drones awake per exchange: v for full mesh, k for block modes.
func (m Model) Measured(exchanges, v, active int) Estimate {
	return Estimate{Exchanges: exchanges, Energy: m.PerExchange(v, active) * float64(exchanges)}
}

// Sample lists designs of growing block size.
var Sample = []design.Triple{
	{V: 7, K: 3, Lambda: 1},
	{V: 13, K: 4, Lambda: 1},
	{V: 21, K: 5, Lambda: 1},
	{V: 28, K: 4, Lambda: 1},
	{V: 31, K: 6, Lambda: 1},
	{V: 43, K: 7, Lambda: 1},
	{V: 46, K: 6, Lambda: 1},
}

// SameK lists Steiner triple systems of growing v.
var SameK = []design.Triple{
	{V: 7, K: 3, Lambda: 1},
	{V: 9, K: 3, Lambda: 1},
	{V: 15, K: 3, Lambda: 1},
	{V: 21, K: 3, Lambda: 1},
	{V: 27, K: 3, Lambda: 1},
	{V: 33, K: 3, Lambda: 1},
}

// Sets maps the names accepted on the command line to parameter lists.
var Sets = map[string][]design.Triple{
	"sample": Sample,
	"same-k": SameK,
}
