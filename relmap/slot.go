package relmap

import "sync/atomic"

// Slot is the position an object holds inside one matrix. Gen identifies
// the matrix that assigned the index, so a slot handed out by an earlier
// matrix can never address a cell of a later one.
type Slot struct {
	Gen   uint64
	Index int
}

// NoSlot is the slot of an object no matrix has indexed yet.
var NoSlot = Slot{Index: -1}

// Indexed is implemented by the objects a matrix relates.
type Indexed interface {
	comparable
	Slot() Slot
	SetSlot(Slot)
}

// Sided objects know whether they belong to the source tree.
type Sided interface {
	Indexed
	IsSource() bool
}

var generation atomic.Uint64

func nextGen() uint64 {
	return generation.Add(1)
}
