package structure

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/formula"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/tree"
)

// side holds the variables of one tree: one per concept, keyed by atom.
type side struct {
	atoms    map[string]z.Lit
	concepts map[*ling.Concept]z.Lit
	nodes    map[*tree.Node]z.Lit
}

// formulaBuilder compiles the node predicates of both trees and the concept
// map axioms into a single circuit, then answers entailment queries against
// it with assumptions.
type formulaBuilder struct {
	c      *logic.C
	g      *gini.Gini
	src    side
	tgt    side
	axioms z.Lit
	err    error // first error encountered
}

func newFormulaBuilder(src, tgt *tree.Tree, cmap *element.ConceptMap) (*formulaBuilder, error) {
	b := &formulaBuilder{c: logic.NewC()}
	b.src = b.declare(src)
	b.tgt = b.declare(tgt)
	b.compile(src, &b.src)
	b.compile(tgt, &b.tgt)
	b.axioms = b.buildAxioms(cmap)
	if b.err != nil {
		return nil, b.err
	}
	b.g = gini.New()
	b.c.ToCnf(b.g)
	return b, nil
}

func (b *formulaBuilder) declare(t *tree.Tree) side {
	s := side{
		atoms:    map[string]z.Lit{},
		concepts: map[*ling.Concept]z.Lit{},
		nodes:    map[*tree.Node]z.Lit{},
	}
	for _, n := range t.Nodes() {
		for _, cpt := range n.Concepts {
			lit := b.c.Lit()
			s.atoms[ling.Atom(n.ID, cpt.ID)] = lit
			s.concepts[cpt] = lit
		}
	}
	return s
}

func (b *formulaBuilder) compile(t *tree.Tree, s *side) {
	for _, n := range t.Nodes() {
		s.nodes[n] = b.build(n.NodePredicate, s.atoms)
	}
}

// build recursively builds a circuit from a predicate
func (b *formulaBuilder) build(f *formula.Formula, atoms map[string]z.Lit) z.Lit {
	if b.err != nil {
		return b.c.F
	}
	if f == nil {
		b.err = fmt.Errorf("missing node predicate")
		return b.c.F
	}
	switch f.Op {
	case formula.OpTrue:
		return b.c.T
	case formula.OpFalse:
		return b.c.F
	case formula.OpAtom:
		lit, ok := atoms[f.Atom]
		if !ok {
			b.err = fmt.Errorf("predicate refers to unknown concept %s", f.Atom)
			return b.c.F
		}
		return lit
	case formula.OpNot:
		return b.build(f.Args[0], atoms).Not()
	case formula.OpAnd, formula.OpOr:
		lits := make([]z.Lit, len(f.Args))
		for i, a := range f.Args {
			lits[i] = b.build(a, atoms)
		}
		if f.Op == formula.OpAnd {
			return b.c.Ands(lits...)
		}
		return b.c.Ors(lits...)
	}
	b.err = fmt.Errorf("unsupported formula op %d", f.Op)
	return b.c.F
}

// buildAxioms conjoins one constraint per concept relation:
// a = b gives a <-> b, a < b gives a -> b, a > b gives b -> a and a ! b
// gives ~(a & b).
func (b *formulaBuilder) buildAxioms(cmap *element.ConceptMap) z.Lit {
	var lits []z.Lit
	for _, in := range cmap.Instances() {
		x, ok := b.src.concepts[in.Source]
		if !ok {
			b.err = fmt.Errorf("concept map refers to unknown source concept %s", in.Source)
			return b.c.F
		}
		y, ok := b.tgt.concepts[in.Target]
		if !ok {
			b.err = fmt.Errorf("concept map refers to unknown target concept %s", in.Target)
			return b.c.F
		}
		switch in.Relation.Primary() {
		case relmap.Equivalent:
			lits = append(lits, b.c.Ors(x.Not(), y), b.c.Ors(y.Not(), x))
		case relmap.LessGeneral:
			lits = append(lits, b.c.Ors(x.Not(), y))
		case relmap.MoreGeneral:
			lits = append(lits, b.c.Ors(y.Not(), x))
		case relmap.Disjoint:
			lits = append(lits, b.c.Ors(x.Not(), y.Not()))
		}
	}
	return b.c.Ands(lits...)
}

// unsat reports whether the axioms together with lits have no model.
func (b *formulaBuilder) unsat(lits ...z.Lit) bool {
	b.g.Assume(b.axioms)
	b.g.Assume(lits...)
	res := b.g.Solve()
	if debug.SAT() {
		debug.Logf("sat %v -> %d\n", lits, res)
	}
	return res == -1
}

// lessGeneral: the source predicate entails the target predicate.
func (b *formulaBuilder) lessGeneral(s, t *tree.Node) bool {
	return b.unsat(b.src.nodes[s], b.tgt.nodes[t].Not())
}

// moreGeneral: the target predicate entails the source predicate.
func (b *formulaBuilder) moreGeneral(s, t *tree.Node) bool {
	return b.unsat(b.tgt.nodes[t], b.src.nodes[s].Not())
}

func (b *formulaBuilder) disjoint(s, t *tree.Node) bool {
	return b.unsat(b.src.nodes[s], b.tgt.nodes[t])
}
