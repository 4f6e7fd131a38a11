package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eneri4/exploration-drones/internal/engine"
	"github.com/eneri4/exploration-drones/internal/schedule"
	"github.com/eneri4/exploration-drones/internal/world"
)

func init() {
	color.NoColor = true
}

func frame() engine.Frame {
	cov := world.NewCoverage(3, 2)
	cov.Mark(world.Pt(0, 0))
	cov.Mark(world.Pt(1, 0))
	cov.Mark(world.Pt(2, 1))
	return engine.Frame{
		Round:     4,
		Mode:      "bibd",
		Positions: []world.Point{world.Pt(1, 0), world.Pt(2, 1), world.Pt(0, 1)},
		Coverage:  cov,
		Covered:   3,
		Total:     6,
		Block:     []int{0, 1, 2},
		LastPair:  &schedule.Pair{Sender: 0, Receiver: 1},
		Exchanges: 24,
	}
}

func TestFrame_Layout(t *testing.T) {
	out := Frame(frame())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Round 4  [bibd]", lines[0])
	assert.Equal(t, glyphExplored+glyphTransmitter+glyphUnexplored, lines[1])
	assert.Equal(t, glyphDrone+glyphUnexplored+glyphReceiver, lines[2])
	assert.Equal(t, "coverage 3/6  exchanges 24  block [0 1 2]", lines[3])
}

func TestFrame_NoExchange(t *testing.T) {
	f := frame()
	f.LastPair = nil
	f.Block = nil
	f.Reason = engine.ReasonBudget
	out := Frame(f)
	assert.NotContains(t, out, glyphTransmitter)
	assert.NotContains(t, out, glyphReceiver)
	assert.Contains(t, out, "round-budget")
}

func TestTerminal_Clears(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, true).OnRound(frame())
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[H\x1b[2J"))

	buf.Reset()
	NewTerminal(&buf, false).OnRound(engine.Frame{Round: 1, Mode: "full"})
	assert.Equal(t, "Round 1  [full]\n", buf.String())
}
