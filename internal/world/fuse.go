package world

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two maps of different dimensions are combined.
var ErrShapeMismatch = errors.New("map shape mismatch")

func shapeErr(a, b *Map) error {
	return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.width, a.height, b.width, b.height)
}

// FuseCell combines two cell states. Contested counts as a drone claim on its side.
//
//	both claim a drone      -> Contested
//	exactly one claims      -> Occupied
//	neither, either seen    -> Explored
//	otherwise               -> Unexplored
//
// The table is symmetric, so FuseCell(a, b) == FuseCell(b, a).
func FuseCell(a, b Cell) Cell {
	ao, bo := a.IsOccupancy(), b.IsOccupancy()
	switch {
	case ao && bo:
		return Contested
	case ao || bo:
		return Occupied
	case a == Explored || b == Explored:
		return Explored
	default:
		return Unexplored
	}
}

// Fuse returns a new map combining a and b cell by cell. Neither input is modified.
func Fuse(a, b *Map) (*Map, error) {
	if !a.SameShape(b) {
		return nil, shapeErr(a, b)
	}
	out := NewMap(a.width, a.height)
	for i := range out.cells {
		out.cells[i] = FuseCell(a.cells[i], b.cells[i])
	}
	return out, nil
}

// FuseInto folds src into dst: dst <- Fuse(dst, src). Only dst is written.
func FuseInto(dst, src *Map) error {
	if !dst.SameShape(src) {
		return shapeErr(dst, src)
	}
	for i := range dst.cells {
		dst.cells[i] = FuseCell(dst.cells[i], src.cells[i])
	}
	return nil
}
