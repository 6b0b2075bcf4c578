// Package tree is the taxonomy hierarchy: a Tree owns exactly one root Node
// and hands out node ids from its own counter.
package tree

import (
	"strconv"

	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/taxerr"
)

// State is the preprocessing state of a tree, derived from its nodes.
type State int

const (
	Created State = iota
	Normalized
	Classified
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Normalized:
		return "normalized"
	case Classified:
		return "classified"
	}
	return "invalid"
}

type Tree struct {
	Name string

	root   *Node
	nextID int

	// pre-order cache, nil when stale
	nodes []*Node
	byID  map[string]*Node
}

func NewTree(name string) *Tree {
	return &Tree{Name: name}
}

// NewNode creates a detached node owned by t.
func (t *Tree) NewNode(name string) *Node {
	n := &Node{
		Core: Core{ID: "n" + strconv.Itoa(t.nextID), Name: name},
		tree: t,
		slot: relmap.NoSlot,
	}
	t.nextID++
	return n
}

// CreateRoot makes a new node named name the root of t, replacing any
// previous root.
func (t *Tree) CreateRoot(name string) *Node {
	r := t.NewNode(name)
	t.root = r
	t.changed()
	return r
}

// SetRoot makes n, a node of t, the root. n is detached from its parent.
func (t *Tree) SetRoot(n *Node) error {
	if n == nil {
		return taxerr.Structuralf("nil root")
	}
	if n.tree != t {
		return taxerr.Structuralf("node %s belongs to another tree", n.ID)
	}
	if n.parent != nil {
		n.parent.detach(n)
	}
	t.root = n
	t.changed()
	return nil
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) HasRoot() bool {
	return t.root != nil
}

func (t *Tree) changed() {
	t.nodes = nil
	t.byID = nil
}

// Nodes returns the root followed by all its descendants in pre-order. The
// list is cached until the tree changes and must not be modified.
func (t *Tree) Nodes() []*Node {
	if t.root == nil {
		return nil
	}
	if t.nodes != nil {
		return t.nodes
	}
	var res []*Node
	_ = t.root.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			res = append(res, y)
		}
		return true, nil
	})
	t.nodes = res
	return res
}

func (t *Tree) Len() int {
	return len(t.Nodes())
}

// ByID finds a node of the hierarchy by id.
func (t *Tree) ByID(id string) *Node {
	if t.byID == nil {
		nodes := t.Nodes()
		t.byID = make(map[string]*Node, len(nodes))
		for _, n := range nodes {
			t.byID[n.ID] = n
		}
	}
	return t.byID[id]
}

// Lookup finds the node whose Path is path, taking the first child when
// siblings share a name.
func (t *Tree) Lookup(path []string) *Node {
	if t.root == nil || len(path) == 0 || t.root.Name != path[0] {
		return nil
	}
	n := t.root
outer:
	for _, name := range path[1:] {
		for _, c := range n.children {
			if c.Name == name {
				n = c
				continue outer
			}
		}
		return nil
	}
	return n
}

// BreadthFirst lists the nodes level by level.
func (t *Tree) BreadthFirst() []*Node {
	if t.root == nil {
		return nil
	}
	res := []*Node{t.root}
	for i := 0; i < len(res); i++ {
		res = append(res, res[i].children...)
	}
	return res
}

// MarkSource flags every node as belonging to the source (true) or target
// (false) side of a match.
func (t *Tree) MarkSource(source bool) {
	for _, n := range t.Nodes() {
		n.Source = source
	}
}

// State reports how far preprocessing got. A tree without a root is
// Created.
func (t *Tree) State() State {
	nodes := t.Nodes()
	if len(nodes) == 0 {
		return Created
	}
	res := Classified
	for _, n := range nodes {
		switch {
		case !n.LabelDone:
			return Created
		case !n.NodeDone:
			res = Normalized
		}
	}
	return res
}

// Reset clears all preprocessing results.
func (t *Tree) Reset() {
	for _, n := range t.Nodes() {
		n.Concepts = nil
		n.LabelPredicate = nil
		n.NodePredicate = nil
		n.LabelDone = false
		n.NodeDone = false
	}
}
