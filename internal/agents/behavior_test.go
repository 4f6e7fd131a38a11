package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eneri4/exploration-drones/internal/world"
)

func occupancyOnlyAt(t *testing.T, a *Agent) {
	t.Helper()
	occ := a.Local.Occupancies()
	require.Len(t, occ, 1)
	assert.Equal(t, a.Position, occ[0])
}

func TestRandomSearch_PrefersUnexplored(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(1, 1), 3, 3)
	// Everything but (2,2) is already explored.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			a.Local.Set(world.Pt(x, y), world.Explored)
		}
	}
	a.Local.Set(world.Pt(2, 2), world.Unexplored)
	a.Local.Set(world.Pt(1, 1), world.Occupied)

	p := &RandomSearch{Trials: 8}
	p.Move(a, rand.New(rand.NewSource(1)))

	// With 8 trials over 8 offsets every neighbor is tried, so (2,2) is found.
	assert.Equal(t, world.Pt(2, 2), a.Position)
	assert.Equal(t, world.Explored, a.Local.Get(world.Pt(1, 1)))
	occupancyOnlyAt(t, a)
}

func TestRandomSearch_FallsBackToExplored(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 2, 2)
	a.Local.Set(world.Pt(1, 0), world.Explored)
	a.Local.Set(world.Pt(0, 1), world.Explored)
	a.Local.Set(world.Pt(1, 1), world.Explored)

	p := &RandomSearch{Trials: 8}
	p.Move(a, rand.New(rand.NewSource(2)))

	assert.NotEqual(t, world.Pt(0, 0), a.Position)
	assert.Equal(t, world.Explored, a.Local.Get(world.Pt(0, 0)))
	occupancyOnlyAt(t, a)
}

func TestRandomSearch_StaysWhenBoxedIn(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 1, 1)
	p := &RandomSearch{Trials: 6}
	p.Move(a, rand.New(rand.NewSource(3)))
	assert.Equal(t, world.Pt(0, 0), a.Position)
	assert.Equal(t, world.Occupied, a.Local.Get(world.Pt(0, 0)))
}

func TestRandomSearch_DemotesPeerClaims(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 5, 5)
	a.Local.Set(world.Pt(4, 4), world.Occupied)
	a.Local.Set(world.Pt(3, 3), world.Contested)

	p := &RandomSearch{}
	p.Move(a, rand.New(rand.NewSource(4)))

	assert.Equal(t, world.Explored, a.Local.Get(world.Pt(4, 4)))
	assert.Equal(t, world.Explored, a.Local.Get(world.Pt(3, 3)))
	occupancyOnlyAt(t, a)
}

func TestRandomSearch_BoundsAndMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, nb := range []world.Neighborhood{world.Moore, world.VonNeumann} {
		a, _ := NewAgent(0, world.Pt(0, 0), 6, 4)
		p := &RandomSearch{Trials: 6, Neighborhood: nb}
		for i := 0; i < 300; i++ {
			before := a.Local.Clone()
			prev := a.Position
			p.Move(a, rng)

			assert.True(t, a.Local.InBounds(a.Position))
			assert.LessOrEqual(t, world.Chebyshev(prev, a.Position), 1)
			if nb == world.VonNeumann {
				d := a.Position.Sub(prev)
				assert.False(t, d.X != 0 && d.Y != 0, "diagonal step under 4-connectivity")
			}
			assert.GreaterOrEqual(t, a.Local.Known(), before.Known())
			occupancyOnlyAt(t, a)
		}
	}
}

func TestRandomSearch_Deterministic(t *testing.T) {
	run := func() []world.Point {
		a, _ := NewAgent(0, world.Pt(3, 3), 8, 8)
		rng := rand.New(rand.NewSource(42))
		p := &RandomSearch{}
		var path []world.Point
		for i := 0; i < 40; i++ {
			p.Move(a, rng)
			path = append(path, a.Position)
		}
		return path
	}
	assert.Equal(t, run(), run())
}

func TestRingSearch_StepsTowardNearest(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			a.Local.Set(world.Pt(x, y), world.Explored)
		}
	}
	a.Local.Set(world.Pt(3, 2), world.Unexplored)
	a.Local.Set(world.Pt(0, 0), world.Occupied)

	p := &RingSearch{MaxRadius: 5}
	rng := rand.New(rand.NewSource(1))

	p.Move(a, rng)
	assert.Equal(t, world.Pt(1, 1), a.Position)
	p.Move(a, rng)
	assert.Equal(t, world.Pt(2, 2), a.Position)
	p.Move(a, rng)
	assert.Equal(t, world.Pt(3, 2), a.Position)
	occupancyOnlyAt(t, a)
}

func TestRingSearch_NoTargetInRange(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(0, 0), 10, 1)
	for x := 0; x < 9; x++ {
		a.Local.Set(world.Pt(x, 0), world.Explored)
	}
	a.Local.Set(world.Pt(0, 0), world.Occupied)

	p := &RingSearch{MaxRadius: 3}
	p.Move(a, rand.New(rand.NewSource(1)))
	assert.Equal(t, world.Pt(0, 0), a.Position)
	occupancyOnlyAt(t, a)
}

func TestRingSearch_ShuffleStaysOnRing(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(2, 2), 5, 5)
	p := &RingSearch{MaxRadius: 2, Shuffle: true}
	p.Move(a, rand.New(rand.NewSource(8)))
	assert.Equal(t, 1, world.Chebyshev(world.Pt(2, 2), a.Position))
}

func TestHoldLeavesMapUntouched(t *testing.T) {
	a, _ := NewAgent(0, world.Pt(1, 1), 3, 3)
	a.Local.Set(world.Pt(0, 0), world.Occupied)
	before := a.Local.Clone()
	Hold{}.Move(a, nil)
	assert.True(t, before.Equal(a.Local))
	assert.Equal(t, world.Pt(1, 1), a.Position)
}

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{PolicyRandom, PolicyRing, PolicyHold} {
		p, err := PolicyByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := PolicyByName("teleport")
	assert.Error(t, err)
}
