package world

import (
	"fmt"
	"strings"
)

// Map is one agent's occupancy knowledge of the grid.
// Dimensions are fixed at construction; every map in a run shares them.
type Map struct {
	width  int
	height int
	cells  []Cell // row-major, index y*width + x
}

// NewMap creates an all-unexplored map. Non-positive dimensions yield an empty map.
func NewMap(width, height int) *Map {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Map{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// MapFromRows builds a map from glyph rows ('.', '#', 'D', 'X'), one string per y.
// Intended for tests and fixtures.
func MapFromRows(rows ...string) (*Map, error) {
	if len(rows) == 0 {
		return NewMap(0, 0), nil
	}
	m := NewMap(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), m.width)
		}
		for x := 0; x < len(row); x++ {
			var c Cell
			switch row[x] {
			case '.':
				c = Unexplored
			case '#':
				c = Explored
			case 'D':
				c = Occupied
			case 'X':
				c = Contested
			default:
				return nil, fmt.Errorf("row %d col %d: unknown glyph %q", y, x, row[x])
			}
			m.cells[y*m.width+x] = c
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// Size returns the total number of cells.
func (m *Map) Size() int { return len(m.cells) }

// InBounds returns true if p lies on the grid.
func (m *Map) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// SameShape reports whether both maps have identical dimensions.
func (m *Map) SameShape(o *Map) bool {
	return m.width == o.width && m.height == o.height
}

// Get returns the cell at p. Out-of-bounds reads return Unexplored.
func (m *Map) Get(p Point) Cell {
	if !m.InBounds(p) {
		return Unexplored
	}
	return m.cells[p.Y*m.width+p.X]
}

// Set writes the cell at p. Out-of-bounds writes are ignored.
func (m *Map) Set(p Point, c Cell) {
	if !m.InBounds(p) {
		return
	}
	m.cells[p.Y*m.width+p.X] = c
}

// Count returns how many cells hold state c.
func (m *Map) Count(c Cell) int {
	n := 0
	for _, v := range m.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Known returns how many cells are anything other than Unexplored.
func (m *Map) Known() int {
	return len(m.cells) - m.Count(Unexplored)
}

// Occupancies returns every cell currently carrying a drone claim, in row-major order.
func (m *Map) Occupancies() []Point {
	var out []Point
	for i, v := range m.cells {
		if v.IsOccupancy() {
			out = append(out, Point{X: i % m.width, Y: i / m.width})
		}
	}
	return out
}

// DemoteOccupied turns every Occupied or Contested cell into Explored.
// Movers call this before stepping so stale drone claims are not re-broadcast.
func (m *Map) DemoteOccupied() {
	for i, v := range m.cells {
		if v.IsOccupancy() {
			m.cells[i] = Explored
		}
	}
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	c := &Map{width: m.width, height: m.height, cells: make([]Cell, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// CopyFrom overwrites m with the contents of src. Both maps must share a shape.
func (m *Map) CopyFrom(src *Map) error {
	if !m.SameShape(src) {
		return shapeErr(m, src)
	}
	copy(m.cells, src.cells)
	return nil
}

// Equal reports whether both maps have the same shape and cell contents.
func (m *Map) Equal(o *Map) bool {
	if !m.SameShape(o) {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the map as glyph rows, the inverse of MapFromRows.
func (m *Map) Rows() []string {
	rows := make([]string, m.height)
	buf := make([]byte, m.width)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			buf[x] = m.cells[y*m.width+x].Glyph()
		}
		rows[y] = string(buf)
	}
	return rows
}

// String returns the glyph dump, one row per line.
func (m *Map) String() string {
	return strings.Join(m.Rows(), "\n")
}
