// Package agents provides the drone data model, spawning, and the pluggable
// movement policies that decide where an exploring drone goes next.
package agents

import (
	"fmt"

	"github.com/eneri4/exploration-drones/internal/world"
)

// AgentID indexes a drone within one run. IDs are 0..v-1 so they double as
// block-design indices.
type AgentID = int

// Agent is one exploring drone.
type Agent struct {
	ID       AgentID     `json:"id"`
	Position world.Point `json:"position"`

	// Local drives movement and is what the drone transmits.
	// Global is the staging target that accumulates received maps during a
	// communication phase; it is copied into Local at finalize.
	Local  *world.Map `json:"-"`
	Global *world.Map `json:"-"`

	// Counters, monotonic for the life of a run.
	Transmits uint64 `json:"transmits"`
	Receives  uint64 `json:"receives"`
}

// NewAgent creates a drone at pos on a width × height grid with its own cell marked.
func NewAgent(id AgentID, pos world.Point, width, height int) (*Agent, error) {
	local := world.NewMap(width, height)
	if !local.InBounds(pos) {
		return nil, fmt.Errorf("agent %d: start %s outside %dx%d grid", id, pos, width, height)
	}
	local.Set(pos, world.Occupied)
	return &Agent{
		ID:       id,
		Position: pos,
		Local:    local,
		Global:   local.Clone(),
	}, nil
}

// Stage resets the staging map to the drone's current knowledge.
// Called before a communication phase so received maps fold onto fresh state.
func (a *Agent) Stage() {
	// Shapes are fixed at construction; CopyFrom cannot fail here.
	_ = a.Global.CopyFrom(a.Local)
}

// Receive folds a sender's map snapshot into Global. Local is not touched.
func (a *Agent) Receive(snapshot *world.Map) error {
	if err := world.FuseInto(a.Global, snapshot); err != nil {
		return fmt.Errorf("agent %d receive: %w", a.ID, err)
	}
	a.Receives++
	return nil
}

// Finalize publishes the staged map: Local <- copy(Global).
// The drone's own cell always ends up carrying a drone claim.
func (a *Agent) Finalize() {
	_ = a.Local.CopyFrom(a.Global)
	if !a.Local.Get(a.Position).IsOccupancy() {
		a.Local.Set(a.Position, world.Occupied)
	}
}

// moveTo relocates the drone, leaving the vacated cell Explored.
func (a *Agent) moveTo(p world.Point) {
	a.Local.Set(a.Position, world.Explored)
	a.Position = p
	a.Local.Set(p, world.Occupied)
}

// stay re-asserts the drone's claim on its current cell.
func (a *Agent) stay() {
	a.Local.Set(a.Position, world.Occupied)
}

// Exchange sends the sender's map snapshot to the receiver and bumps both counters.
// Self-exchange is a no-op.
func Exchange(sender, receiver *Agent, snapshot *world.Map) error {
	if sender.ID == receiver.ID {
		return nil
	}
	if err := receiver.Receive(snapshot); err != nil {
		return fmt.Errorf("exchange %d->%d: %w", sender.ID, receiver.ID, err)
	}
	sender.Transmits++
	return nil
}

// Transmit sends one snapshot of the sender's Local to every recipient.
// Recipients are always a slice; pass a single-element slice for one peer.
func (a *Agent) Transmit(recipients []*Agent) error {
	snapshot := a.Local.Clone()
	for _, r := range recipients {
		if err := Exchange(a, r, snapshot); err != nil {
			return err
		}
	}
	return nil
}
