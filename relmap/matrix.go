// Package relmap holds relation instances between two fixed arrays of
// indexed objects.
//
// A Matrix assigns every source and target object a Slot when it is built.
// Reads through an object whose slot belongs to another matrix, or whose
// index no longer points back at the object, report Unknown; writes through
// such an object are ignored. Len always equals the number of cells holding
// a relation other than Unknown.
package relmap

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidated is reported by an Iterator whose matrix was modified
	// other than through the iterator itself.
	ErrInvalidated = errors.New("relmap: iterator invalidated by concurrent modification")
	// ErrNoCurrent is reported by Iterator.Remove before Next or twice in a row.
	ErrNoCurrent = errors.New("relmap: iterator has no current instance")
)

type Matrix[T Indexed] struct {
	gen        uint64
	backing    Backing
	sources    []T
	targets    []T
	cells      store
	live       int
	epoch      uint64
	similarity float64
}

// New builds an empty matrix over sources and targets, overwriting the slot
// of every object. Slots handed out by earlier matrices become stale.
func New[T Indexed](sources, targets []T, b Backing) *Matrix[T] {
	m := &Matrix[T]{
		gen:     nextGen(),
		backing: b,
		sources: slices.Clone(sources),
		targets: slices.Clone(targets),
	}
	for i, s := range m.sources {
		s.SetSlot(Slot{Gen: m.gen, Index: i})
	}
	for i, t := range m.targets {
		t.SetSlot(Slot{Gen: m.gen, Index: i})
	}
	m.cells = newStore(b, len(m.sources)*len(m.targets))
	return m
}

// Derive returns an empty matrix over the same objects and slots. Both
// matrices stay valid.
func (m *Matrix[T]) Derive() *Matrix[T] {
	return &Matrix[T]{
		gen:     m.gen,
		backing: m.backing,
		sources: m.sources,
		targets: m.targets,
		cells:   newStore(m.backing, len(m.sources)*len(m.targets)),
	}
}

func (m *Matrix[T]) Gen() uint64        { return m.gen }
func (m *Matrix[T]) Backing() Backing   { return m.backing }
func (m *Matrix[T]) SourceObjects() []T { return m.sources }
func (m *Matrix[T]) TargetObjects() []T { return m.targets }

func (m *Matrix[T]) Similarity() float64 { return m.similarity }

func (m *Matrix[T]) SetSimilarity(v float64) { m.similarity = v }

func (m *Matrix[T]) Len() int { return m.live }

func (m *Matrix[T]) IsEmpty() bool { return m.live == 0 }

func (m *Matrix[T]) index(o T, side []T) (int, bool) {
	s := o.Slot()
	if s.Gen != m.gen || s.Index < 0 || s.Index >= len(side) {
		return 0, false
	}
	if side[s.Index] != o {
		return 0, false
	}
	return s.Index, true
}

func (m *Matrix[T]) pos(s, t T) (int, bool) {
	i, ok := m.index(s, m.sources)
	if !ok {
		return 0, false
	}
	j, ok := m.index(t, m.targets)
	if !ok {
		return 0, false
	}
	return i*len(m.targets) + j, true
}

func (m *Matrix[T]) Get(s, t T) Relation {
	p, ok := m.pos(s, t)
	if !ok {
		return Unknown
	}
	return m.cells.get(p)
}

func (m *Matrix[T]) Contains(s, t T) bool {
	return m.Get(s, t) != Unknown
}

// Set stores r for (s, t). It reports false without touching the matrix
// when either endpoint is stale, r is not a relation, or the cell already
// holds r. Setting Unknown removes the cell.
func (m *Matrix[T]) Set(s, t T, r Relation) bool {
	if !r.Valid() {
		return false
	}
	p, ok := m.pos(s, t)
	if !ok {
		return false
	}
	return m.setAt(p, r)
}

func (m *Matrix[T]) Remove(s, t T) bool {
	return m.Set(s, t, Unknown)
}

func (m *Matrix[T]) setAt(p int, r Relation) bool {
	old := m.cells.get(p)
	if old == r {
		return false
	}
	m.cells.set(p, r)
	switch {
	case old == Unknown:
		m.live++
	case r == Unknown:
		m.live--
	}
	m.epoch++
	return true
}

func (m *Matrix[T]) Clear() {
	m.cells.clear()
	m.live = 0
	m.epoch++
}

func (m *Matrix[T]) at(p int) Instance[T] {
	cols := len(m.targets)
	return Instance[T]{
		Source:   m.sources[p/cols],
		Target:   m.targets[p%cols],
		Relation: m.cells.get(p),
	}
}

// Sources returns the live instances whose source is s, in target order.
func (m *Matrix[T]) Sources(s T) []Instance[T] {
	i, ok := m.index(s, m.sources)
	if !ok {
		return nil
	}
	var res []Instance[T]
	cols := len(m.targets)
	for j := range cols {
		if r := m.cells.get(i*cols + j); r != Unknown {
			res = append(res, Instance[T]{Source: s, Target: m.targets[j], Relation: r})
		}
	}
	return res
}

// Targets returns the live instances whose target is t, in source order.
func (m *Matrix[T]) Targets(t T) []Instance[T] {
	j, ok := m.index(t, m.targets)
	if !ok {
		return nil
	}
	var res []Instance[T]
	cols := len(m.targets)
	for i := range m.sources {
		if r := m.cells.get(i*cols + j); r != Unknown {
			res = append(res, Instance[T]{Source: m.sources[i], Target: t, Relation: r})
		}
	}
	return res
}

// Instances returns a row-major snapshot of the live instances.
func (m *Matrix[T]) Instances() []Instance[T] {
	res := make([]Instance[T], 0, m.live)
	for p, ok := m.cells.next(0); ok; p, ok = m.cells.next(p + 1) {
		res = append(res, m.at(p))
	}
	return res
}

// Counts returns the number of live instances per relation.
func (m *Matrix[T]) Counts() map[Relation]int {
	res := map[Relation]int{}
	for p, ok := m.cells.next(0); ok; p, ok = m.cells.next(p + 1) {
		res[m.cells.get(p)]++
	}
	return res
}

// Iter returns a row-major iterator. It fails with ErrInvalidated once the
// matrix is changed by anything other than the iterator's own Remove.
func (m *Matrix[T]) Iter() *Iterator[T] {
	return &Iterator[T]{m: m, cur: -1, epoch: m.epoch}
}

type Iterator[T Indexed] struct {
	m     *Matrix[T]
	pos   int
	cur   int
	epoch uint64
	inst  Instance[T]
	err   error
}

func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.epoch != it.m.epoch {
		it.err = ErrInvalidated
		return false
	}
	p, ok := it.m.cells.next(it.pos)
	if !ok {
		it.cur = -1
		return false
	}
	it.cur = p
	it.pos = p + 1
	it.inst = it.m.at(p)
	return true
}

func (it *Iterator[T]) Instance() Instance[T] {
	return it.inst
}

func (it *Iterator[T]) Err() error {
	return it.err
}

// Remove deletes the instance returned by the last call to Next.
func (it *Iterator[T]) Remove() error {
	if it.err != nil {
		return it.err
	}
	if it.epoch != it.m.epoch {
		it.err = ErrInvalidated
		return it.err
	}
	if it.cur < 0 {
		return ErrNoCurrent
	}
	it.m.setAt(it.cur, Unknown)
	it.epoch = it.m.epoch
	it.cur = -1
	return nil
}
