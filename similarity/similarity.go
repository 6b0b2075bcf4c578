// Package similarity scores a node map with an expression over its
// statistics.
//
// Expressions are evaluated with expr (github.com/expr-lang/expr) against
// Stats and must yield a number:
//
//	SourceNodes + TargetNodes == 0 ? 0.0 : (MatchedSource + MatchedTarget) / (SourceNodes + TargetNodes)
package similarity

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/tree"
)

// Stats summarizes a node map. A node is matched when it takes part in at
// least one equivalence.
type Stats struct {
	SourceNodes   int
	TargetNodes   int
	MatchedSource int
	MatchedTarget int

	Equivalent  int
	LessGeneral int
	MoreGeneral int
	Disjoint    int
	Implied     int
	Links       int
}

// Presets are named expressions accepted in place of an expression.
var Presets = map[string]string{
	"coverage":            "SourceNodes + TargetNodes == 0 ? 0.0 : (MatchedSource + MatchedTarget) / (SourceNodes + TargetNodes)",
	"source-coverage":     "SourceNodes == 0 ? 0.0 : MatchedSource / SourceNodes",
	"target-coverage":     "TargetNodes == 0 ? 0.0 : MatchedTarget / TargetNodes",
	"equivalence-density": "SourceNodes * TargetNodes == 0 ? 0.0 : Equivalent / (SourceNodes * TargetNodes)",
}

const Default = "coverage"

// Policy is a compiled similarity expression.
type Policy struct {
	source  string
	program *vm.Program
}

var _ structure.Scorer = (*Policy)(nil)

// Compile accepts a preset name or an expression.
func Compile(src string) (*Policy, error) {
	if src == "" {
		src = Default
	}
	if p, ok := Presets[src]; ok {
		src = p
	}
	program, err := expr.Compile(src, expr.Env(Stats{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("error compiling similarity %q: %w", src, err)
	}
	return &Policy{source: src, program: program}, nil
}

func (p *Policy) String() string {
	return p.source
}

func (p *Policy) Eval(st Stats) (float64, error) {
	v, err := vm.Run(p.program, st)
	if err != nil {
		return 0, fmt.Errorf("error evaluating similarity %q: %w", p.source, err)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("similarity %q gave %T, not a number", p.source, v)
	}
	return f, nil
}

func (p *Policy) Score(nmap *structure.NodeMap, src, tgt *tree.Tree) (float64, error) {
	return p.Eval(Collect(nmap, src, tgt))
}

// Collect computes the statistics of nmap.
func Collect(nmap *structure.NodeMap, src, tgt *tree.Tree) Stats {
	st := Stats{SourceNodes: src.Len(), TargetNodes: tgt.Len()}
	matchedS := map[*tree.Node]bool{}
	matchedT := map[*tree.Node]bool{}
	for _, in := range nmap.Instances() {
		st.Links++
		if in.Relation.IsImplied() {
			st.Implied++
		}
		switch in.Relation.Primary() {
		case relmap.Equivalent:
			st.Equivalent++
			matchedS[in.Source] = true
			matchedT[in.Target] = true
		case relmap.LessGeneral:
			st.LessGeneral++
		case relmap.MoreGeneral:
			st.MoreGeneral++
		case relmap.Disjoint:
			st.Disjoint++
		}
	}
	st.MatchedSource = len(matchedS)
	st.MatchedTarget = len(matchedT)
	return st
}
