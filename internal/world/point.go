// Package world provides the occupancy grid, the map-fusion rule, the shared
// coverage grid and deployment layouts for the drone swarm.
// Coordinates are (X, Y) with 0 <= X < width and 0 <= Y < height.
package world

import "fmt"

// Point is a cell coordinate on the grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is a convenience constructor for Point.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns the point offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Sign clamps each component to -1, 0 or 1. Used to step one cell toward a target.
func (p Point) Sign() Point {
	return Point{X: sign(p.X), Y: sign(p.Y)}
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Chebyshev returns the king-move distance between two points.
func Chebyshev(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Neighborhood selects which single-step offsets a mover may consider.
type Neighborhood uint8

const (
	Moore      Neighborhood = iota // 8-connected
	VonNeumann                     // 4-connected
)

// MooreOffsets are the eight king-move offsets.
var MooreOffsets = [8]Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// VonNeumannOffsets are the four orthogonal offsets.
var VonNeumannOffsets = [4]Point{
	{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
}

// Offsets returns a fresh slice of the neighborhood's offsets, safe to shuffle.
func (n Neighborhood) Offsets() []Point {
	if n == VonNeumann {
		out := make([]Point, len(VonNeumannOffsets))
		copy(out, VonNeumannOffsets[:])
		return out
	}
	out := make([]Point, len(MooreOffsets))
	copy(out, MooreOffsets[:])
	return out
}

// String returns the neighborhood name used in configuration.
func (n Neighborhood) String() string {
	if n == VonNeumann {
		return "4"
	}
	return "8"
}

// ParseNeighborhood maps "4"/"8" (and the long names) to a Neighborhood.
func ParseNeighborhood(s string) (Neighborhood, error) {
	switch s {
	case "", "8", "moore":
		return Moore, nil
	case "4", "von-neumann", "vonneumann":
		return VonNeumann, nil
	default:
		return Moore, fmt.Errorf("unknown neighborhood %q (want 4 or 8)", s)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
