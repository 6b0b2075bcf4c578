// Package filter reduces a node map produced by structure-level matching.
package filter

import (
	"fmt"

	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
)

// A Filter returns a new map holding a subset of the links of its input.
// The input is left untouched.
type Filter interface {
	Name() string
	Filter(nmap *structure.NodeMap) (*structure.NodeMap, error)
}

// None keeps every link.
type None struct{}

func (None) Name() string { return "none" }

func (None) Filter(nmap *structure.NodeMap) (*structure.NodeMap, error) {
	return keep(nmap, func(relmap.Relation) bool { return true }), nil
}

// Minimal drops the implied links, leaving the mapping from which the rest
// follows.
type Minimal struct{}

func (Minimal) Name() string { return "minimal" }

func (Minimal) Filter(nmap *structure.NodeMap) (*structure.NodeMap, error) {
	return keep(nmap, func(r relmap.Relation) bool { return !r.IsImplied() }), nil
}

// Equivalence keeps the equivalences only.
type Equivalence struct{}

func (Equivalence) Name() string { return "equivalence" }

func (Equivalence) Filter(nmap *structure.NodeMap) (*structure.NodeMap, error) {
	return keep(nmap, func(r relmap.Relation) bool { return r == relmap.Equivalent }), nil
}

func keep(nmap *structure.NodeMap, f func(relmap.Relation) bool) *structure.NodeMap {
	res := nmap.Derive()
	for _, in := range nmap.Instances() {
		if f(in.Relation) {
			res.Set(in.Source, in.Target, in.Relation)
		}
	}
	res.SetSimilarity(nmap.Similarity())
	return res
}

var Names = []string{"none", "minimal", "equivalence"}

// New returns the filter called name.
func New(name string) (Filter, error) {
	switch name {
	case "", "none":
		return None{}, nil
	case "minimal":
		return Minimal{}, nil
	case "equivalence":
		return Equivalence{}, nil
	}
	return nil, fmt.Errorf("unknown filter %q (want one of %v)", name, Names)
}
