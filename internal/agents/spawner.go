// Agent spawning places the initial swarm on the grid.
package agents

import (
	"fmt"

	"github.com/eneri4/exploration-drones/internal/world"
)

// Spawner creates drones for one simulation.
type Spawner struct {
	width  int
	height int
	nextID AgentID
}

// NewSpawner creates a spawner for a width × height grid.
func NewSpawner(width, height int) *Spawner {
	return &Spawner{width: width, height: height}
}

// Spawn creates one drone per position, issuing consecutive IDs.
func (s *Spawner) Spawn(positions []world.Point) ([]*Agent, error) {
	swarm := make([]*Agent, 0, len(positions))
	for _, p := range positions {
		a, err := NewAgent(s.nextID, p, s.width, s.height)
		if err != nil {
			return nil, fmt.Errorf("spawn: %w", err)
		}
		s.nextID++
		swarm = append(swarm, a)
	}
	return swarm, nil
}
