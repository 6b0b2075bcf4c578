package tree

import (
	"slices"
	"strings"

	"github.com/signadot/taxmap/formula"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/taxerr"
)

// Core is the plain data carried by a node.
type Core struct {
	ID   string
	Name string

	// LabelPredicate is the formula over the node's own label concepts,
	// set by normalization.
	LabelPredicate *formula.Formula
	// NodePredicate conjoins the label predicates from the root down to
	// the node, set by classification.
	NodePredicate *formula.Formula

	Source   bool
	Concepts []*ling.Concept

	LabelDone bool
	NodeDone  bool
}

type Node struct {
	Core

	tree     *Tree
	parent   *Node
	children []*Node
	slot     relmap.Slot
}

func (n *Node) Tree() *Tree {
	return n.tree
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

func (n *Node) Child(i int) *Node {
	return n.children[i]
}

func (n *Node) IsRoot() bool {
	return n.parent == nil && n.tree.root == n
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) IsSource() bool {
	return n.Source
}

func (n *Node) Slot() relmap.Slot     { return n.slot }
func (n *Node) SetSlot(s relmap.Slot) { n.slot = s }

func (n *Node) String() string {
	return n.Name
}

// AddChild appends c to the children of n. If c already has a parent it is
// moved.
func (n *Node) AddChild(c *Node) error {
	i := len(n.children)
	if c != nil && c.parent == n {
		i--
	}
	return n.InsertChild(i, c)
}

// InsertChild places c at position i among the children of n. It fails
// without changing the tree when c would close a cycle or lives in another
// tree.
func (n *Node) InsertChild(i int, c *Node) error {
	if c == nil {
		return taxerr.Structuralf("nil child")
	}
	if c.tree != n.tree {
		return taxerr.Structuralf("node %s belongs to another tree", c.ID)
	}
	if c == n || n.hasAncestor(c) {
		return taxerr.Structuralf("new child %s is an ancestor of %s", c.ID, n.ID)
	}
	if c == n.tree.root {
		return taxerr.Structuralf("root %s cannot become a child", c.ID)
	}
	last := len(n.children)
	if c.parent == n {
		last--
	}
	if i < 0 || i > last {
		return taxerr.Structuralf("child index %d out of range [0, %d]", i, last)
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	n.children = slices.Insert(n.children, i, c)
	c.parent = n
	n.tree.changed()
	return nil
}

// CreateChild makes a new node named name and appends it to n.
func (n *Node) CreateChild(name string) *Node {
	c := n.tree.NewNode(name)
	c.parent = n
	n.children = append(n.children, c)
	n.tree.changed()
	return c
}

// RemoveChild detaches c and its subtree from n.
func (n *Node) RemoveChild(c *Node) error {
	if c == nil || c.parent != n {
		return taxerr.Structuralf("%v is not a child of %s", c, n.ID)
	}
	n.detach(c)
	n.tree.changed()
	return nil
}

func (n *Node) detach(c *Node) {
	i := slices.Index(n.children, c)
	if i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	c.parent = nil
}

// MoveTo reattaches n as the last child of p.
func (n *Node) MoveTo(p *Node) error {
	return p.AddChild(n)
}

func (n *Node) hasAncestor(a *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// Ancestors lists the ancestors of n, parent first.
func (n *Node) Ancestors() []*Node {
	var res []*Node
	for p := n.parent; p != nil; p = p.parent {
		res = append(res, p)
	}
	return res
}

// Descendants lists the subtree below n in pre-order, n excluded.
func (n *Node) Descendants() []*Node {
	var res []*Node
	_ = n.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost && y != n {
			res = append(res, y)
		}
		return true, nil
	})
	return res
}

// Level is the number of edges from the root down to n.
func (n *Node) Level() int {
	l := 0
	for p := n.parent; p != nil; p = p.parent {
		l++
	}
	return l
}

func (n *Node) Root() *Node {
	res := n
	for res.parent != nil {
		res = res.parent
	}
	return res
}

// Path lists the names from the root down to n.
func (n *Node) Path() []string {
	res := make([]string, n.Level()+1)
	i := len(res) - 1
	for p := n; p != nil; p = p.parent {
		res[i] = p.Name
		i--
	}
	return res
}

// PathString joins Path with "/".
func (n *Node) PathString() string {
	return strings.Join(n.Path(), "/")
}

// Visit calls f before (isPost false) and after (isPost true) visiting the
// children of n. Returning false before the children skips them.
func (n *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// SortChildren orders the children of every node in the subtree of n.
func (n *Node) SortChildren(cmp func(a, b *Node) int) {
	_ = n.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			slices.SortStableFunc(y.children, cmp)
		}
		return true, nil
	})
	n.tree.changed()
}

// ByName orders nodes by name, then id.
func ByName(a, b *Node) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
