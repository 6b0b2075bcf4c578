package relmap

import "slices"

// store is the backing of a matrix. Cells are addressed row major by
// pos = row*cols + col.
type store interface {
	get(pos int) Relation
	// set returns the previous value.
	set(pos int, r Relation) Relation
	// next returns the first live cell at or after pos.
	next(pos int) (int, bool)
	clear()
}

// Backing selects the matrix storage.
type Backing int

const (
	// Dense keeps one cell per (source, target) pair.
	Dense Backing = iota
	// Sparse keeps only the known cells.
	Sparse
)

func (b Backing) String() string {
	switch b {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return "invalid"
}

// ParseBacking maps a configuration name to a Backing.
func ParseBacking(s string) (Backing, bool) {
	switch s {
	case "", "dense":
		return Dense, true
	case "sparse":
		return Sparse, true
	}
	return Dense, false
}

func newStore(b Backing, n int) store {
	if b == Sparse {
		return &sparseStore{cells: map[int]Relation{}}
	}
	d := &denseStore{cells: make([]Relation, n)}
	d.clear()
	return d
}

type denseStore struct {
	cells []Relation
}

func (d *denseStore) get(pos int) Relation {
	return d.cells[pos]
}

func (d *denseStore) set(pos int, r Relation) Relation {
	old := d.cells[pos]
	d.cells[pos] = r
	return old
}

func (d *denseStore) next(pos int) (int, bool) {
	for i := pos; i < len(d.cells); i++ {
		if d.cells[i] != Unknown {
			return i, true
		}
	}
	return 0, false
}

func (d *denseStore) clear() {
	for i := range d.cells {
		d.cells[i] = Unknown
	}
}

type sparseStore struct {
	cells map[int]Relation
	keys  []int // sorted
}

func (s *sparseStore) get(pos int) Relation {
	if r, ok := s.cells[pos]; ok {
		return r
	}
	return Unknown
}

func (s *sparseStore) set(pos int, r Relation) Relation {
	old, ok := s.cells[pos]
	if !ok {
		old = Unknown
	}
	i, found := slices.BinarySearch(s.keys, pos)
	if r == Unknown {
		delete(s.cells, pos)
		if found {
			s.keys = slices.Delete(s.keys, i, i+1)
		}
		return old
	}
	s.cells[pos] = r
	if !found {
		s.keys = slices.Insert(s.keys, i, pos)
	}
	return old
}

func (s *sparseStore) next(pos int) (int, bool) {
	i, _ := slices.BinarySearch(s.keys, pos)
	if i == len(s.keys) {
		return 0, false
	}
	return s.keys[i], true
}

func (s *sparseStore) clear() {
	clear(s.cells)
	s.keys = s.keys[:0]
}
