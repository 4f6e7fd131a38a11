// Package render draws run frames on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eneri4/exploration-drones/internal/engine"
	"github.com/eneri4/exploration-drones/internal/world"
)

// Cell glyphs, two columns wide so the grid looks square.
const (
	glyphUnexplored  = "  "
	glyphExplored    = "░░"
	glyphDrone       = "██"
	glyphTransmitter = "TX"
	glyphReceiver    = "RX"
)

var (
	unexplored  = color.New(color.BgWhite)
	explored    = color.New(color.FgHiBlack, color.BgWhite)
	drone       = color.New(color.FgBlue, color.BgWhite)
	transmitter = color.New(color.FgWhite, color.BgRed, color.Bold)
	receiver    = color.New(color.FgBlack, color.BgGreen, color.Bold)
	title       = color.New(color.FgCyan, color.Bold)
)

// Terminal is an engine observer that redraws the grid after every round.
type Terminal struct {
	w     io.Writer
	clear bool
}

// NewTerminal writes frames to w. With clear set, each frame homes the cursor
// and wipes the screen first.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{w: w, clear: clear}
}

// OnRound implements engine.Observer.
func (t *Terminal) OnRound(f engine.Frame) {
	if t.clear {
		fmt.Fprint(t.w, "\x1b[H\x1b[2J")
	}
	fmt.Fprint(t.w, Frame(f))
}

// Frame renders one frame: a title line, the grid, and a status line.
func Frame(f engine.Frame) string {
	var b strings.Builder
	title.Fprintf(&b, "Round %d", f.Round)
	fmt.Fprintf(&b, "  [%s]\n", f.Mode)

	if f.Coverage == nil {
		return b.String()
	}

	drones := make(map[world.Point]int, len(f.Positions))
	for i, p := range f.Positions {
		drones[p] = i
	}
	tx, rx := -1, -1
	if f.LastPair != nil {
		tx, rx = f.LastPair.Sender, f.LastPair.Receiver
	}

	for y := 0; y < f.Coverage.Height(); y++ {
		for x := 0; x < f.Coverage.Width(); x++ {
			p := world.Pt(x, y)
			id, occupied := drones[p]
			switch {
			case occupied && id == tx:
				transmitter.Fprint(&b, glyphTransmitter)
			case occupied && id == rx:
				receiver.Fprint(&b, glyphReceiver)
			case occupied:
				drone.Fprint(&b, glyphDrone)
			case f.Coverage.Visited(p):
				explored.Fprint(&b, glyphExplored)
			default:
				unexplored.Fprint(&b, glyphUnexplored)
			}
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "coverage %d/%d  exchanges %d", f.Covered, f.Total, f.Exchanges)
	if f.Block != nil {
		fmt.Fprintf(&b, "  block %v", f.Block)
	}
	if f.Reason != "" {
		fmt.Fprintf(&b, "  %s", f.Reason)
	}
	b.WriteByte('\n')
	return b.String()
}
