package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eneri4/exploration-drones/internal/world"
)

func TestNewAgent(t *testing.T) {
	a, err := NewAgent(3, world.Pt(2, 1), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, world.Occupied, a.Local.Get(world.Pt(2, 1)))
	assert.True(t, a.Local.Equal(a.Global))

	a.Global.Set(world.Pt(0, 0), world.Explored)
	assert.Equal(t, world.Unexplored, a.Local.Get(world.Pt(0, 0)), "local and global must not alias")

	_, err = NewAgent(0, world.Pt(4, 0), 4, 4)
	assert.Error(t, err)
}

func TestExchange_CountsAndFolds(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 3, 3)
	b, _ := NewAgent(1, world.Pt(2, 2), 3, 3)
	c, _ := NewAgent(2, world.Pt(1, 1), 3, 3)

	require.NoError(t, a.Transmit([]*Agent{b, c, a}))
	assert.Equal(t, uint64(2), a.Transmits)
	assert.Equal(t, uint64(1), b.Receives)
	assert.Equal(t, uint64(1), c.Receives)
	assert.Zero(t, a.Receives)

	assert.Equal(t, world.Occupied, b.Global.Get(world.Pt(0, 0)))
	assert.Equal(t, world.Unexplored, b.Local.Get(world.Pt(0, 0)), "receive must not touch local")

	b.Finalize()
	assert.Equal(t, []string{"D..", "...", "..D"}, b.Local.Rows())
}

func TestExchange_ShapeMismatch(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 3, 3)
	b, _ := NewAgent(1, world.Pt(0, 0), 4, 3)
	err := Exchange(a, b, a.Local)
	assert.ErrorIs(t, err, world.ErrShapeMismatch)
	assert.Zero(t, a.Transmits)
	assert.Zero(t, b.Receives)
}

func TestStageResetsGlobal(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(1, 1), 3, 3)
	a.Global.Set(world.Pt(0, 0), world.Occupied)
	a.Stage()
	assert.True(t, a.Global.Equal(a.Local))
}

func TestFinalizeReassertsOwnCell(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(1, 1), 3, 3)
	a.Global.Set(world.Pt(1, 1), world.Explored)
	a.Finalize()
	assert.Equal(t, world.Occupied, a.Local.Get(world.Pt(1, 1)))

	a.Global.Set(world.Pt(1, 1), world.Contested)
	a.Finalize()
	assert.Equal(t, world.Contested, a.Local.Get(world.Pt(1, 1)))
}

func TestSpawner(t *testing.T) {
	s := NewSpawner(5, 5)
	swarm, err := s.Spawn([]world.Point{world.Pt(0, 0), world.Pt(4, 4)})
	require.NoError(t, err)
	require.Len(t, swarm, 2)
	assert.Equal(t, 0, swarm[0].ID)
	assert.Equal(t, 1, swarm[1].ID)

	more, err := s.Spawn([]world.Point{world.Pt(2, 2)})
	require.NoError(t, err)
	assert.Equal(t, 2, more[0].ID)

	_, err = s.Spawn([]world.Point{world.Pt(5, 0)})
	assert.Error(t, err)
}
