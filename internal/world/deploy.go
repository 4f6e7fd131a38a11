// Deployment layouts: where drones start on the grid.
// The noise layout scores cells with layered simplex noise and places drones
// on the highest peaks, keeping a minimum spacing between launch sites.
package world

import (
	"fmt"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Layout names a deployment strategy.
type Layout string

const (
	LayoutFixed   Layout = "fixed"   // Explicit positions from configuration
	LayoutRandom  Layout = "random"  // Distinct uniformly random cells
	LayoutCorners Layout = "corners" // Grid corners first, remaining drones random
	LayoutNoise   Layout = "noise"   // Simplex-noise peaks with minimum spacing
)

// DeployConfig holds deployment parameters.
type DeployConfig struct {
	Layout     Layout
	Positions  []Point // Used by LayoutFixed
	Seed       int64
	MinSpacing int // Chebyshev spacing for LayoutNoise (default 2)
}

// Deploy returns n distinct start positions on a width × height grid.
func Deploy(cfg DeployConfig, n, width, height int) ([]Point, error) {
	if n < 0 {
		return nil, fmt.Errorf("deploy: negative drone count %d", n)
	}
	if n > width*height {
		return nil, fmt.Errorf("deploy: %d drones do not fit on a %dx%d grid", n, width, height)
	}

	switch cfg.Layout {
	case LayoutFixed:
		return deployFixed(cfg.Positions, n, width, height)
	case LayoutRandom, "":
		return deployRandom(cfg.Seed, n, width, height), nil
	case LayoutCorners:
		return deployCorners(cfg.Seed, n, width, height), nil
	case LayoutNoise:
		return deployNoise(cfg, n, width, height), nil
	default:
		return nil, fmt.Errorf("deploy: unknown layout %q", cfg.Layout)
	}
}

func deployFixed(positions []Point, n, width, height int) ([]Point, error) {
	if len(positions) != n {
		return nil, fmt.Errorf("deploy: fixed layout has %d positions for %d drones", len(positions), n)
	}
	seen := make(map[Point]bool, n)
	out := make([]Point, 0, n)
	for i, p := range positions {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return nil, fmt.Errorf("deploy: position %d %s outside %dx%d grid", i, p, width, height)
		}
		if seen[p] {
			return nil, fmt.Errorf("deploy: position %s used twice", p)
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func deployRandom(seed int64, n, width, height int) []Point {
	rng := rand.New(rand.NewSource(seed + 200))
	cells := rng.Perm(width * height)[:n]
	out := make([]Point, n)
	for i, c := range cells {
		out[i] = Point{X: c % width, Y: c / width}
	}
	return out
}

func deployCorners(seed int64, n, width, height int) []Point {
	corners := []Point{
		{X: 0, Y: 0},
		{X: width - 1, Y: height - 1},
		{X: width - 1, Y: 0},
		{X: 0, Y: height - 1},
	}
	taken := make(map[Point]bool, n)
	out := make([]Point, 0, n)
	for _, c := range corners {
		if len(out) == n {
			return out
		}
		if !taken[c] {
			taken[c] = true
			out = append(out, c)
		}
	}

	rng := rand.New(rand.NewSource(seed + 200))
	for _, c := range rng.Perm(width * height) {
		if len(out) == n {
			break
		}
		p := Point{X: c % width, Y: c / width}
		if !taken[p] {
			taken[p] = true
			out = append(out, p)
		}
	}
	return out
}

func deployNoise(cfg DeployConfig, n, width, height int) []Point {
	noise := opensimplex.NewNormalized(cfg.Seed)

	type scored struct {
		p     Point
		score float64
	}
	candidates := make([]scored, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := octaveNoise(noise, float64(x), float64(y), 3, 0.15, 0.5)
			candidates = append(candidates, scored{Point{X: x, Y: y}, s})
		}
	}

	// Sort by score descending; row-major order breaks ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	spacing := cfg.MinSpacing
	if spacing <= 0 {
		spacing = 2
	}

	// Relax the spacing until every drone has a site.
	for ; spacing >= 0; spacing-- {
		var picked []Point
		for _, c := range candidates {
			if len(picked) == n {
				break
			}
			if tooClose(c.p, picked, spacing) {
				continue
			}
			picked = append(picked, c.p)
		}
		if len(picked) == n {
			return picked
		}
	}
	return nil // unreachable: spacing 0 accepts every distinct cell
}

// tooClose reports whether p is within dist (Chebyshev) of any placed site.
// A dist of 0 only rejects exact duplicates.
func tooClose(p Point, placed []Point, dist int) bool {
	for _, q := range placed {
		d := Chebyshev(p, q)
		if d == 0 || d < dist {
			return true
		}
	}
	return false
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
