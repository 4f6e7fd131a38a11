// Package schedule decides, round by round, which ordered (sender, receiver)
// pairs of drones exchange maps.
//
// Three strategies share one interface:
//   - Full: every ordered pair every round, v(v-1) exchanges.
//   - BIBD: the block for round t mod b, every ordered pair inside it, k(k-1) exchanges.
//   - BIBD-Fast: BIBD pairing, but only the active block finalizes and moves.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eneri4/exploration-drones/internal/design"
)

// Mode selects a scheduling strategy.
type Mode uint8

const (
	ModeFull Mode = iota
	ModeBIBD
	ModeBIBDFast
)

// ErrUnknownMode is returned alongside ModeFull when a mode string is not recognized.
var ErrUnknownMode = errors.New("unknown communication mode")

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBIBD:
		return "bibd"
	case ModeBIBDFast:
		return "bibd-fast"
	default:
		return "full"
	}
}

// ParseMode maps a user-supplied name (or the legacy menu numbers 1-3) to a Mode.
// Unrecognized input yields ModeFull together with ErrUnknownMode, so the caller
// can warn and carry on with an ordinary full-mesh run.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "full-mesh", "mesh", "1":
		return ModeFull, nil
	case "bibd", "2":
		return ModeBIBD, nil
	case "bibd-fast", "bibdfast", "fast", "3":
		return ModeBIBDFast, nil
	default:
		return ModeFull, fmt.Errorf("%w %q, falling back to %s", ErrUnknownMode, s, ModeFull)
	}
}

// Pair is one directed map exchange.
type Pair struct {
	Sender   int `json:"sender"`
	Receiver int `json:"receiver"`
}

// Scheduler enumerates the exchanges and the touched drones for each round.
// Returned slices are owned by the scheduler and must not be modified.
type Scheduler interface {
	Mode() Mode
	// Pairs returns the directed exchanges for round t, sender-major order.
	Pairs(t int) []Pair
	// Active returns the drones that finalize, mark coverage and move in round t.
	Active(t int) []int
	// Block returns the communicating block for round t, nil for full mesh.
	Block(t int) []int
	// PerCycle returns the directed exchanges over one full schedule cycle.
	PerCycle() int
}

// New builds the scheduler for mode over v drones. BIBD modes require a
// design validated for the same v.
func New(mode Mode, v int, d design.Design) (Scheduler, error) {
	if v < 1 {
		return nil, fmt.Errorf("scheduler needs at least one drone, got %d", v)
	}
	switch mode {
	case ModeFull:
		return NewFullMesh(v), nil
	case ModeBIBD, ModeBIBDFast:
		if err := d.Validate(v, d.K, d.Lambda); err != nil {
			return nil, fmt.Errorf("%s scheduler: %w", mode, err)
		}
		return &BlockRotation{design: d, v: v, fast: mode == ModeBIBDFast}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
}

// FullMesh schedules every ordered pair every round, like a round-robin.
type FullMesh struct {
	v     int
	pairs []Pair
	all   []int
}

// NewFullMesh creates a full-mesh scheduler over v drones.
func NewFullMesh(v int) *FullMesh {
	fm := &FullMesh{v: v, all: allOf(v)}
	fm.pairs = orderedPairs(fm.all)
	return fm
}

// Mode implements Scheduler.
func (f *FullMesh) Mode() Mode { return ModeFull }

// Pairs implements Scheduler.
func (f *FullMesh) Pairs(int) []Pair { return f.pairs }

// Active implements Scheduler.
func (f *FullMesh) Active(int) []int { return f.all }

// Block implements Scheduler.
func (f *FullMesh) Block(int) []int { return nil }

// PerCycle implements Scheduler. One cycle is one round.
func (f *FullMesh) PerCycle() int { return len(f.pairs) }

// BlockRotation schedules one design block per round, cycling through all blocks.
type BlockRotation struct {
	design design.Design
	v      int
	fast   bool
}

// Mode implements Scheduler.
func (b *BlockRotation) Mode() Mode {
	if b.fast {
		return ModeBIBDFast
	}
	return ModeBIBD
}

// Design returns the block design being rotated.
func (b *BlockRotation) Design() design.Design { return b.design }

// Pairs implements Scheduler.
func (b *BlockRotation) Pairs(t int) []Pair {
	return orderedPairs(b.design.Block(t))
}

// Active implements Scheduler.
func (b *BlockRotation) Active(t int) []int {
	if b.fast {
		return b.Block(t)
	}
	return allOf(b.v)
}

// Block implements Scheduler.
func (b *BlockRotation) Block(t int) []int {
	blk := b.design.Block(t)
	out := make([]int, len(blk))
	copy(out, blk)
	return out
}

// PerCycle implements Scheduler: b blocks × k(k-1) ordered pairs.
func (b *BlockRotation) PerCycle() int {
	n := 0
	for _, blk := range b.design.Blocks {
		n += len(blk) * (len(blk) - 1)
	}
	return n
}

// orderedPairs returns every (s, r) with s != r over members, sender-major.
func orderedPairs(members []int) []Pair {
	out := make([]Pair, 0, len(members)*(len(members)-1))
	for _, s := range members {
		for _, r := range members {
			if s == r {
				continue
			}
			out = append(out, Pair{Sender: s, Receiver: r})
		}
	}
	return out
}

func allOf(v int) []int {
	out := make([]int, v)
	for i := range out {
		out[i] = i
	}
	return out
}
