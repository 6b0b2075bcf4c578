// Package structure derives the node map of two classified trees from
// their concept map.
//
// Every node pair is decided with the concept relations as axioms over one
// propositional variable per concept. Pairs are visited with both trees in
// pre-order, so the pairs of ancestors are known before their descendants:
//
//   - below a disjoint pair every pair is disjoint, tagged X;
//   - when a source ancestor is already less general than (or equivalent
//     to) the target, the pair is less general by position, tagged L,
//     unless the converse entailment makes it an equivalence;
//   - symmetrically for a target ancestor and M;
//   - any other pair is decided by satisfiability: less general when the
//     source predicate entails the target predicate, more general for the
//     converse, equivalent for both, else disjoint when the two predicates
//     cannot hold together.
//
// A final pass tags the subsumptions that follow from a more specific pair
// found later in the pre-order: s < t becomes L when s, or an ancestor of
// s, is less general than or equivalent to a descendant of t, and s > t
// becomes M in the mirrored case. Dropping every implied link then leaves
// a minimal mapping.
package structure

import (
	"context"
	"slices"

	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

// NodeMap relates the nodes of two trees.
type NodeMap = relmap.Matrix[*tree.Node]

// Scorer computes the similarity of a finished node map.
type Scorer interface {
	Score(nmap *NodeMap, src, tgt *tree.Tree) (float64, error)
}

type Comparator struct {
	backing relmap.Backing
	scorer  Scorer
	metrics *metrics.Collector
}

type Option func(*Comparator)

func WithBacking(b relmap.Backing) Option {
	return func(c *Comparator) {
		c.backing = b
	}
}

func WithScorer(s Scorer) Option {
	return func(c *Comparator) {
		c.scorer = s
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Comparator) {
		c.metrics = m
	}
}

func New(opts ...Option) *Comparator {
	c := &Comparator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare builds a fresh node map. Node slots are reassigned, so node maps
// from earlier runs go stale. Nothing is returned on failure.
func (c *Comparator) Compare(ctx context.Context, src, tgt *tree.Tree, cmap *element.ConceptMap) (*NodeMap, error) {
	if cmap == nil {
		return nil, taxerr.NotConfigured("concept map")
	}
	if err := element.CheckPair(src, tgt); err != nil {
		return nil, err
	}
	b, err := newFormulaBuilder(src, tgt, cmap)
	if err != nil {
		return nil, taxerr.Preconditionf("concept map does not match the trees: %v", err)
	}
	srcN, tgtN := src.Nodes(), tgt.Nodes()
	nmap := relmap.New(srcN, tgtN, c.backing)
	up := map[*tree.Node][]*tree.Node{}
	for _, n := range append(srcN[:len(srcN):len(srcN)], tgtN...) {
		up[n] = append([]*tree.Node{n}, n.Ancestors()...)
	}
	d := &decider{b: b, nmap: nmap, up: up}
	for _, s := range srcN {
		for _, t := range tgtN {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r := d.decide(s, t)
			if r == relmap.Unknown {
				continue
			}
			nmap.Set(s, t, r)
			if debug.Structure() {
				debug.Logf("structure %s %c %s\n", s.PathString(), r, t.PathString())
			}
		}
	}
	d.demote()
	if c.scorer != nil {
		sim, err := c.scorer.Score(nmap, src, tgt)
		if err != nil {
			return nil, err
		}
		nmap.SetSimilarity(sim)
	}
	for r, n := range nmap.Counts() {
		c.metrics.Links(r.Name(), n)
	}
	return nmap, nil
}

type decider struct {
	b    *formulaBuilder
	nmap *NodeMap
	// node followed by its ancestors
	up map[*tree.Node][]*tree.Node
}

func (d *decider) decide(s, t *tree.Node) relmap.Relation {
	if d.inheritsDisjoint(s, t) {
		return relmap.ImpliedDisjoint
	}
	lgByPosition := d.anySource(s, t, relmap.LessGeneral, relmap.Equivalent)
	mgByPosition := d.anyTarget(s, t, relmap.MoreGeneral, relmap.Equivalent)
	switch {
	case lgByPosition && mgByPosition:
		return relmap.Equivalent
	case lgByPosition:
		if d.b.moreGeneral(s, t) {
			return relmap.Equivalent
		}
		return relmap.ImpliedLessGeneral
	case mgByPosition:
		if d.b.lessGeneral(s, t) {
			return relmap.Equivalent
		}
		return relmap.ImpliedMoreGeneral
	}
	lg, mg := d.b.lessGeneral(s, t), d.b.moreGeneral(s, t)
	switch {
	case lg && mg:
		return relmap.Equivalent
	case lg:
		return relmap.LessGeneral
	case mg:
		return relmap.MoreGeneral
	case d.b.disjoint(s, t):
		return relmap.Disjoint
	}
	return relmap.Unknown
}

// inheritsDisjoint reports a disjoint pair among the ancestors-or-self of s
// and t, the pair (s, t) itself excluded.
func (d *decider) inheritsDisjoint(s, t *tree.Node) bool {
	for _, a := range d.up[s] {
		for _, b := range d.up[t] {
			if a == s && b == t {
				continue
			}
			if d.nmap.Get(a, b).Primary() == relmap.Disjoint {
				return true
			}
		}
	}
	return false
}

// anySource reports whether a strict ancestor of s relates to t by one of
// rels, implied variants included.
func (d *decider) anySource(s, t *tree.Node, rels ...relmap.Relation) bool {
	for _, a := range d.up[s][1:] {
		if hasPrimary(d.nmap.Get(a, t), rels) {
			return true
		}
	}
	return false
}

// anyTarget reports whether s relates to a strict ancestor of t by one of
// rels, implied variants included.
func (d *decider) anyTarget(s, t *tree.Node, rels ...relmap.Relation) bool {
	for _, b := range d.up[t][1:] {
		if hasPrimary(d.nmap.Get(s, b), rels) {
			return true
		}
	}
	return false
}

func hasPrimary(r relmap.Relation, rels []relmap.Relation) bool {
	return slices.Contains(rels, r.Primary())
}

// demote tags the primary subsumptions entailed through a stored pair
// below them. Candidates are collected before any is rewritten, so every
// witness is a primary of the pre-order pass.
func (d *decider) demote() {
	var implied []relmap.Instance[*tree.Node]
	for _, in := range d.nmap.Instances() {
		switch in.Relation {
		case relmap.LessGeneral:
			if d.lessGeneralBelow(in.Source, in.Target) {
				implied = append(implied, in)
			}
		case relmap.MoreGeneral:
			if d.moreGeneralBelow(in.Source, in.Target) {
				implied = append(implied, in)
			}
		}
	}
	for _, in := range implied {
		d.nmap.Set(in.Source, in.Target, in.Relation.Implied())
		if debug.Structure() {
			debug.Logf("structure %s %c %s\n", in.Source.PathString(), in.Relation.Implied(), in.Target.PathString())
		}
	}
}

// lessGeneralBelow reports a primary < or = between s, or an ancestor of
// s, and a strict descendant of t.
func (d *decider) lessGeneralBelow(s, t *tree.Node) bool {
	for _, b := range t.Descendants() {
		for _, a := range d.up[s] {
			switch d.nmap.Get(a, b) {
			case relmap.LessGeneral, relmap.Equivalent:
				return true
			}
		}
	}
	return false
}

// moreGeneralBelow reports a primary > or = between a strict descendant of
// s and t, or an ancestor of t.
func (d *decider) moreGeneralBelow(s, t *tree.Node) bool {
	for _, a := range s.Descendants() {
		for _, b := range d.up[t] {
			switch d.nmap.Get(a, b) {
			case relmap.MoreGeneral, relmap.Equivalent:
				return true
			}
		}
	}
	return false
}
