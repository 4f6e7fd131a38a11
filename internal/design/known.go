package design

import (
	"fmt"
	"sort"
)

// Triple identifies a design by its (v, k, λ) parameters.
type Triple struct {
	V      int `json:"v" yaml:"v"`
	K      int `json:"k" yaml:"k"`
	Lambda int `json:"lambda" yaml:"lambda"`
}

// String returns "(v,k,λ)".
func (t Triple) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t.V, t.K, t.Lambda)
}

// differenceFamilies holds base blocks whose cyclic development mod v is a BIBD.
// Every entry is checked by the package tests.
var differenceFamilies = map[Triple][][]int{
	{7, 3, 1}:  {{0, 1, 3}},
	{13, 3, 1}: {{0, 1, 4}, {0, 2, 7}},
	{19, 3, 1}: {{0, 1, 4}, {0, 2, 9}, {0, 5, 11}},
	{13, 4, 1}: {{0, 1, 3, 9}},
	{21, 5, 1}: {{0, 1, 4, 14, 16}},
	{31, 6, 1}: {{0, 1, 3, 8, 12, 18}},
	{11, 5, 2}: {{1, 3, 4, 5, 9}},
	{15, 7, 3}: {{0, 1, 2, 4, 5, 8, 10}},
	{19, 9, 4}: {{1, 4, 5, 6, 7, 9, 11, 16, 17}},
}

// Known returns the cyclic design for t, if a difference family is on file.
func Known(t Triple) (Design, error) {
	bases, ok := differenceFamilies[t]
	if !ok {
		return Design{}, fmt.Errorf("%w: no difference family on file for %s", ErrConfiguration, t)
	}
	d := Cyclic(t.V, bases...)
	d.K, d.Lambda = t.K, t.Lambda
	return d, nil
}

// Triples lists the parameter sets Known can build, smallest v first.
func Triples() []Triple {
	out := make([]Triple, 0, len(differenceFamilies))
	for t := range differenceFamilies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.V != b.V {
			return a.V < b.V
		}
		if a.K != b.K {
			return a.K < b.K
		}
		return a.Lambda < b.Lambda
	})
	return out
}
