package relmap

import "fmt"

// Relation is the semantic relation held between a source and a target
// object. The byte value is the character used by readers and writers.
type Relation byte

const (
	Unknown            Relation = '?'
	Equivalent         Relation = '='
	LessGeneral        Relation = '<'
	MoreGeneral        Relation = '>'
	Disjoint           Relation = '!'
	ImpliedLessGeneral Relation = 'L'
	ImpliedMoreGeneral Relation = 'M'
	ImpliedDisjoint    Relation = 'X'
)

var relationNames = map[Relation]string{
	Unknown:            "unknown",
	Equivalent:         "equivalent",
	LessGeneral:        "less-general",
	MoreGeneral:        "more-general",
	Disjoint:           "disjoint",
	ImpliedLessGeneral: "implied-less-general",
	ImpliedMoreGeneral: "implied-more-general",
	ImpliedDisjoint:    "implied-disjoint",
}

// Relations lists every known relation, unknown last.
var Relations = []Relation{
	Equivalent, LessGeneral, MoreGeneral, Disjoint,
	ImpliedLessGeneral, ImpliedMoreGeneral, ImpliedDisjoint, Unknown,
}

func (r Relation) String() string {
	return string(r)
}

// Name returns a readable name, used for metric labels.
func (r Relation) Name() string {
	if n, ok := relationNames[r]; ok {
		return n
	}
	return fmt.Sprintf("invalid(%d)", byte(r))
}

func (r Relation) Valid() bool {
	_, ok := relationNames[r]
	return ok
}

func (r Relation) IsImplied() bool {
	switch r {
	case ImpliedLessGeneral, ImpliedMoreGeneral, ImpliedDisjoint:
		return true
	}
	return false
}

// Primary strips the implied tag: L becomes <, M becomes >, X becomes !.
func (r Relation) Primary() Relation {
	switch r {
	case ImpliedLessGeneral:
		return LessGeneral
	case ImpliedMoreGeneral:
		return MoreGeneral
	case ImpliedDisjoint:
		return Disjoint
	}
	return r
}

// Implied is the inverse of Primary for the three relations that have an
// implied variant; other relations are returned unchanged.
func (r Relation) Implied() Relation {
	switch r {
	case LessGeneral:
		return ImpliedLessGeneral
	case MoreGeneral:
		return ImpliedMoreGeneral
	case Disjoint:
		return ImpliedDisjoint
	}
	return r
}

// Inverse is the relation read from target to source.
func (r Relation) Inverse() Relation {
	switch r {
	case LessGeneral:
		return MoreGeneral
	case MoreGeneral:
		return LessGeneral
	case ImpliedLessGeneral:
		return ImpliedMoreGeneral
	case ImpliedMoreGeneral:
		return ImpliedLessGeneral
	}
	return r
}

// ParseRelation accepts the single character form.
func ParseRelation(s string) (Relation, error) {
	if len(s) != 1 {
		return Unknown, fmt.Errorf("invalid relation %q", s)
	}
	r := Relation(s[0])
	if !r.Valid() {
		return Unknown, fmt.Errorf("invalid relation %q", s)
	}
	return r, nil
}
