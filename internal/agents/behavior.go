// Drone movement policies.
// Every round a touched drone consults its policy once. Policies only read and
// write the drone's own Local map and never fail: a boxed-in drone stays put.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/eneri4/exploration-drones/internal/world"
)

// MovementPolicy moves a drone one step using only its own knowledge.
type MovementPolicy interface {
	Name() string
	Move(a *Agent, rng *rand.Rand)
}

// Policy names accepted by PolicyByName.
const (
	PolicyRandom = "random"
	PolicyRing   = "ring"
	PolicyHold   = "hold"
)

// Policy defaults.
const (
	DefaultTrials     = 6
	DefaultRingRadius = 5
)

// PolicyByName returns the named policy with default parameters.
func PolicyByName(name string) (MovementPolicy, error) {
	switch name {
	case PolicyRandom, "":
		return &RandomSearch{Trials: DefaultTrials}, nil
	case PolicyRing:
		return &RingSearch{MaxRadius: DefaultRingRadius}, nil
	case PolicyHold:
		return Hold{}, nil
	default:
		return nil, fmt.Errorf("unknown movement policy %q (want %s, %s or %s)", name, PolicyRandom, PolicyRing, PolicyHold)
	}
}

// RandomSearch is the bounded random neighbor search.
//
// It samples up to Trials single-step offsets without replacement. The first
// Unexplored in-bounds target wins; otherwise the first Explored target seen is
// used as a fallback; otherwise the drone stays. Out-of-bounds draws still use
// up a trial.
type RandomSearch struct {
	Trials       int
	Neighborhood world.Neighborhood
}

// Name implements MovementPolicy.
func (p *RandomSearch) Name() string { return PolicyRandom }

// Move implements MovementPolicy.
func (p *RandomSearch) Move(a *Agent, rng *rand.Rand) {
	// Stale claims (ours and any learned from peers) must not be re-broadcast.
	a.Local.DemoteOccupied()

	trials := p.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}

	pool := p.Neighborhood.Offsets()
	var fallback *world.Point

	for i := 0; i < trials && len(pool) > 0; i++ {
		j := rng.Intn(len(pool))
		d := pool[j]
		last := len(pool) - 1
		pool[j] = pool[last]
		pool = pool[:last]

		target := a.Position.Add(d)
		if !a.Local.InBounds(target) {
			continue
		}
		switch a.Local.Get(target) {
		case world.Unexplored:
			a.moveTo(target)
			return
		case world.Explored:
			if fallback == nil {
				t := target
				fallback = &t
			}
		}
	}

	if fallback != nil {
		a.moveTo(*fallback)
		return
	}
	a.stay()
}

// RingSearch looks for the nearest Unexplored cell on concentric Chebyshev
// rings (radius 1..MaxRadius) and steps one cell toward it. With nothing
// unexplored in range the drone stays in place.
type RingSearch struct {
	MaxRadius int
	Shuffle   bool // Break ties within a ring with the RNG instead of scan order
}

// Name implements MovementPolicy.
func (p *RingSearch) Name() string { return PolicyRing }

// Move implements MovementPolicy.
func (p *RingSearch) Move(a *Agent, rng *rand.Rand) {
	a.Local.DemoteOccupied()

	maxR := p.MaxRadius
	if maxR <= 0 {
		maxR = DefaultRingRadius
	}

	for r := 1; r <= maxR; r++ {
		targets := ring(a.Local, a.Position, r)
		if len(targets) == 0 {
			continue
		}
		target := targets[0]
		if p.Shuffle && len(targets) > 1 {
			target = targets[rng.Intn(len(targets))]
		}
		a.moveTo(a.Position.Add(target.Sub(a.Position).Sign()))
		return
	}
	a.stay()
}

// ring returns the in-bounds Unexplored cells at Chebyshev distance r from c,
// scanned row by row.
func ring(m *world.Map, c world.Point, r int) []world.Point {
	var out []world.Point
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx != -r && dx != r && dy != -r && dy != r {
				continue
			}
			p := c.Add(world.Pt(dx, dy))
			if m.InBounds(p) && m.Get(p) == world.Unexplored {
				out = append(out, p)
			}
		}
	}
	return out
}

// Hold keeps the drone where it is and leaves its map untouched.
// Used to study communication in isolation from exploration.
type Hold struct{}

// Name implements MovementPolicy.
func (Hold) Name() string { return PolicyHold }

// Move implements MovementPolicy.
func (Hold) Move(*Agent, *rand.Rand) {}
