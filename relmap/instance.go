package relmap

import "fmt"

// Instance is one (source, target, relation) triple of a matrix.
type Instance[T Indexed] struct {
	Source   T
	Target   T
	Relation Relation
}

func (in Instance[T]) String() string {
	return fmt.Sprintf("%v %c %v", in.Source, in.Relation, in.Target)
}

// InverseInstance orients a triple so that Source is the object belonging
// to the source tree. When a is on the target side the endpoints swap and
// the direction of subsumption flips; equivalence and disjointness are
// symmetric and stay as given.
func InverseInstance[T Sided](a, b T, r Relation) Instance[T] {
	if a.IsSource() {
		return Instance[T]{Source: a, Target: b, Relation: r}
	}
	return Instance[T]{Source: b, Target: a, Relation: r.Inverse()}
}
