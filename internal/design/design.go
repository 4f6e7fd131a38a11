// Package design builds balanced incomplete block designs (BIBDs) from cyclic
// difference families and checks the pair-balance property.
//
// A (v, k, λ) design groups v drone indices into blocks of size k so that every
// unordered pair shares exactly λ blocks. The scheduler talks to one block per round.
package design

import (
	"errors"
	"fmt"
	"sort"
)

// ErrConfiguration is returned when a design or its parameters are unusable.
var ErrConfiguration = errors.New("invalid block design")

// Block is one group of drone indices, sorted ascending.
type Block []int

// Design is an ordered sequence of blocks over indices [0, V).
type Design struct {
	V      int     `json:"v"`
	K      int     `json:"k"`
	Lambda int     `json:"lambda"`
	Blocks []Block `json:"blocks"`
}

// Cyclic develops each base block modulo v: block i of base B is {(x+i) mod v : x in B}.
// Blocks are ordered by base, then by shift. The result is not validated; a bad
// base silently produces an unbalanced design, so callers must run Validate.
func Cyclic(v int, bases ...[]int) Design {
	d := Design{V: v}
	if len(bases) > 0 {
		d.K = len(bases[0])
	}
	for _, base := range bases {
		for i := 0; i < v; i++ {
			b := make(Block, len(base))
			for j, x := range base {
				b[j] = ((x+i)%v + v) % v
			}
			sort.Ints(b)
			d.Blocks = append(d.Blocks, b)
		}
	}
	d.Lambda = d.observedLambda()
	return d
}

// BIBD731 returns the (7,3,1) Fano-plane design from the difference set {0,1,3} mod 7.
func BIBD731() Design {
	return Cyclic(7, []int{0, 1, 3})
}

// observedLambda reports how often the pair (0,1) occurs, as a best guess for λ.
func (d Design) observedLambda() int {
	n := 0
	for _, b := range d.Blocks {
		if contains(b, 0) && contains(b, 1) {
			n++
		}
	}
	return n
}

// Size returns the number of blocks b.
func (d Design) Size() int { return len(d.Blocks) }

// Block returns the block scheduled for round t (blocks rotate cyclically).
func (d Design) Block(t int) Block {
	if len(d.Blocks) == 0 {
		return nil
	}
	i := t % len(d.Blocks)
	if i < 0 {
		i += len(d.Blocks)
	}
	return d.Blocks[i]
}

// PairCounts returns how often each unordered pair {i<j} co-occurs.
func (d Design) PairCounts() map[[2]int]int {
	counts := make(map[[2]int]int)
	for _, b := range d.Blocks {
		for i := 0; i < len(b); i++ {
			for j := i + 1; j < len(b); j++ {
				x, y := b[i], b[j]
				if x > y {
					x, y = y, x
				}
				counts[[2]int{x, y}]++
			}
		}
	}
	return counts
}

// Validate checks that the design is a (v, k, λ) BIBD over [0, v).
func (d Design) Validate(v, k, lambda int) error {
	if v < 2 || k < 2 || k > v || lambda < 1 {
		return fmt.Errorf("%w: parameters (v=%d, k=%d, λ=%d) out of range", ErrConfiguration, v, k, lambda)
	}
	if len(d.Blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrConfiguration)
	}
	for bi, b := range d.Blocks {
		if len(b) != k {
			return fmt.Errorf("%w: block %d has %d members, want %d", ErrConfiguration, bi, len(b), k)
		}
		seen := make(map[int]bool, len(b))
		for _, x := range b {
			if x < 0 || x >= v {
				return fmt.Errorf("%w: block %d references agent %d outside [0,%d)", ErrConfiguration, bi, x, v)
			}
			if seen[x] {
				return fmt.Errorf("%w: block %d repeats agent %d", ErrConfiguration, bi, x)
			}
			seen[x] = true
		}
	}
	counts := d.PairCounts()
	for i := 0; i < v; i++ {
		for j := i + 1; j < v; j++ {
			if n := counts[[2]int{i, j}]; n != lambda {
				return fmt.Errorf("%w: pair (%d,%d) meets in %d blocks, want %d", ErrConfiguration, i, j, n, lambda)
			}
		}
	}
	return nil
}

// Params returns the replication number r = λ(v-1)/(k-1) and block count b = vr/k.
// Both must be integral for a (v, k, λ) design to exist.
func Params(v, k, lambda int) (r, b int, err error) {
	if v < 2 || k < 2 || k > v || lambda < 1 {
		return 0, 0, fmt.Errorf("%w: parameters (v=%d, k=%d, λ=%d) out of range", ErrConfiguration, v, k, lambda)
	}
	if (lambda*(v-1))%(k-1) != 0 {
		return 0, 0, fmt.Errorf("%w: r = λ(v-1)/(k-1) not integral for (%d,%d,%d)", ErrConfiguration, v, k, lambda)
	}
	r = lambda * (v - 1) / (k - 1)
	if (v*r)%k != 0 {
		return 0, 0, fmt.Errorf("%w: b = vr/k not integral for (%d,%d,%d)", ErrConfiguration, v, k, lambda)
	}
	return r, v * r / k, nil
}

func contains(b Block, x int) bool {
	for _, y := range b {
		if y == x {
			return true
		}
	}
	return false
}
