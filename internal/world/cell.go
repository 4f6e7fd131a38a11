package world

// Cell is the state of one grid cell in an agent's occupancy map.
// Values keep the numeric encoding the swarm has always used.
type Cell uint8

const (
	Unexplored Cell = 0 // Never seen by this agent
	Explored   Cell = 1 // Seen, no drone believed present
	Occupied   Cell = 2 // One drone present
	Contested  Cell = 4 // Two maps both claim a drone here
)

// IsOccupancy reports whether the cell carries a drone claim.
func (c Cell) IsOccupancy() bool {
	return c == Occupied || c == Contested
}

// IsKnown reports whether the cell has been seen at all.
func (c Cell) IsKnown() bool {
	return c != Unexplored
}

// String returns a short name for logs and test output.
func (c Cell) String() string {
	switch c {
	case Unexplored:
		return "unexplored"
	case Explored:
		return "explored"
	case Occupied:
		return "occupied"
	case Contested:
		return "contested"
	default:
		return "invalid"
	}
}

// Glyph returns the single-character form used by text dumps.
func (c Cell) Glyph() byte {
	switch c {
	case Unexplored:
		return '.'
	case Explored:
		return '#'
	case Occupied:
		return 'D'
	case Contested:
		return 'X'
	default:
		return '?'
	}
}
