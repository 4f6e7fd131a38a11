package world

// Coverage records which cells any drone has stood on during a run.
// It is bookkeeping for termination and progress, never agent knowledge.
type Coverage struct {
	width   int
	height  int
	visited []bool
	count   int
}

// NewCoverage creates an empty coverage grid.
func NewCoverage(width, height int) *Coverage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Coverage{
		width:   width,
		height:  height,
		visited: make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (c *Coverage) Width() int { return c.width }

// Height returns the number of rows.
func (c *Coverage) Height() int { return c.height }

// Mark records a visit at p. Returns true if the cell was newly visited.
func (c *Coverage) Mark(p Point) bool {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return false
	}
	i := p.Y*c.width + p.X
	if c.visited[i] {
		return false
	}
	c.visited[i] = true
	c.count++
	return true
}

// Visited reports whether p has been visited.
func (c *Coverage) Visited(p Point) bool {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return false
	}
	return c.visited[p.Y*c.width+p.X]
}

// Count returns the number of visited cells.
func (c *Coverage) Count() int { return c.count }

// Total returns the number of cells on the grid.
func (c *Coverage) Total() int { return len(c.visited) }

// Full reports whether every cell has been visited.
func (c *Coverage) Full() bool { return c.count == len(c.visited) }

// Fraction returns visited / total in [0, 1].
func (c *Coverage) Fraction() float64 {
	if len(c.visited) == 0 {
		return 1
	}
	return float64(c.count) / float64(len(c.visited))
}

// Clone returns an independent copy, handed to observers.
func (c *Coverage) Clone() *Coverage {
	out := &Coverage{width: c.width, height: c.height, count: c.count, visited: make([]bool, len(c.visited))}
	copy(out.visited, c.visited)
	return out
}

// Rows returns the grid as rows of '#' (visited) and '.' (unvisited).
func (c *Coverage) Rows() []string {
	rows := make([]string, c.height)
	buf := make([]byte, c.width)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if c.visited[y*c.width+x] {
				buf[x] = '#'
			} else {
				buf[x] = '.'
			}
		}
		rows[y] = string(buf)
	}
	return rows
}
