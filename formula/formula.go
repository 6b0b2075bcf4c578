// Package formula represents the propositional predicates attached to tree
// nodes. Atoms name concepts; see ling.Atom.
package formula

import (
	"slices"
	"strings"
)

type Op int

const (
	OpTrue Op = iota
	OpFalse
	OpAtom
	OpNot
	OpAnd
	OpOr
)

// Formula is an immutable propositional formula. The zero value is not
// valid; use the constructors.
type Formula struct {
	Op   Op
	Atom string
	Args []*Formula
}

var (
	trueF  = &Formula{Op: OpTrue}
	falseF = &Formula{Op: OpFalse}
)

func True() *Formula  { return trueF }
func False() *Formula { return falseF }

func NewAtom(name string) *Formula {
	return &Formula{Op: OpAtom, Atom: name}
}

func Not(f *Formula) *Formula {
	switch f.Op {
	case OpTrue:
		return falseF
	case OpFalse:
		return trueF
	case OpNot:
		return f.Args[0]
	}
	return &Formula{Op: OpNot, Args: []*Formula{f}}
}

// And conjoins args, flattening nested conjunctions and dropping true.
// An empty conjunction is true.
func And(args ...*Formula) *Formula {
	return join(OpAnd, args)
}

// Or disjoins args, flattening nested disjunctions and dropping false.
// An empty disjunction is false.
func Or(args ...*Formula) *Formula {
	return join(OpOr, args)
}

func join(op Op, args []*Formula) *Formula {
	unit, zero := trueF, falseF
	if op == OpOr {
		unit, zero = falseF, trueF
	}
	var flat []*Formula
	for _, a := range args {
		switch {
		case a == nil || a.Op == unit.Op:
			continue
		case a.Op == zero.Op:
			return zero
		case a.Op == op:
			flat = append(flat, a.Args...)
		default:
			flat = append(flat, a)
		}
	}
	switch len(flat) {
	case 0:
		return unit
	case 1:
		return flat[0]
	}
	return &Formula{Op: op, Args: flat}
}

// Atoms returns the sorted distinct atom names of f.
func (f *Formula) Atoms() []string {
	seen := map[string]bool{}
	var res []string
	f.Visit(func(g *Formula) {
		if g.Op == OpAtom && !seen[g.Atom] {
			seen[g.Atom] = true
			res = append(res, g.Atom)
		}
	})
	slices.Sort(res)
	return res
}

// Visit calls fn on f and then on every sub formula, depth first.
func (f *Formula) Visit(fn func(*Formula)) {
	fn(f)
	for _, a := range f.Args {
		a.Visit(fn)
	}
}

func (f *Formula) Equal(g *Formula) bool {
	if f == nil || g == nil {
		return f == g
	}
	if f.Op != g.Op || f.Atom != g.Atom || len(f.Args) != len(g.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Equal(g.Args[i]) {
			return false
		}
	}
	return true
}

func (f *Formula) String() string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	f.write(&b, false)
	return b.String()
}

func (f *Formula) write(b *strings.Builder, nested bool) {
	switch f.Op {
	case OpTrue:
		b.WriteString("true")
	case OpFalse:
		b.WriteString("false")
	case OpAtom:
		b.WriteString(f.Atom)
	case OpNot:
		b.WriteByte('~')
		f.Args[0].write(b, true)
	case OpAnd, OpOr:
		sep := " & "
		if f.Op == OpOr {
			sep = " | "
		}
		if nested {
			b.WriteByte('(')
		}
		for i, a := range f.Args {
			if i > 0 {
				b.WriteString(sep)
			}
			a.write(b, true)
		}
		if nested {
			b.WriteByte(')')
		}
	}
}
