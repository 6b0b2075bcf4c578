package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/taxmap/taxerr"
)

func ids(nodes []*Node) []string {
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = n.ID
	}
	return res
}

func names(nodes []*Node) []string {
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = n.Name
	}
	return res
}

// sample builds
//
//	A
//	  B
//	    D
//	  C
func sample() (*Tree, map[string]*Node) {
	t := NewTree("sample")
	a := t.CreateRoot("A")
	b := a.CreateChild("B")
	c := a.CreateChild("C")
	d := b.CreateChild("D")
	return t, map[string]*Node{"A": a, "B": b, "C": c, "D": d}
}

func TestIDsPerTree(t *testing.T) {
	t1, _ := sample()
	t2, _ := sample()
	want := []string{"n0", "n1", "n3", "n2"}
	if diff := cmp.Diff(want, ids(t1.Nodes())); diff != "" {
		t.Errorf("tree 1 ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, ids(t2.Nodes())); diff != "" {
		t.Errorf("tree 2 ids (-want +got):\n%s", diff)
	}
}

func TestNodesPreOrderCache(t *testing.T) {
	tr, ns := sample()
	if diff := cmp.Diff([]string{"A", "B", "D", "C"}, names(tr.Nodes())); diff != "" {
		t.Errorf("pre-order (-want +got):\n%s", diff)
	}
	ns["C"].CreateChild("E")
	if diff := cmp.Diff([]string{"A", "B", "D", "C", "E"}, names(tr.Nodes())); diff != "" {
		t.Errorf("after mutation (-want +got):\n%s", diff)
	}
	if err := ns["B"].RemoveChild(ns["D"]); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "E"}, names(tr.Nodes())); diff != "" {
		t.Errorf("after remove (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "E"}, names(tr.BreadthFirst())); diff != "" {
		t.Errorf("breadth first (-want +got):\n%s", diff)
	}
}

func TestCyclePrevention(t *testing.T) {
	tests := []struct {
		name          string
		parent, child string
	}{
		{"self", "B", "B"},
		{"parent", "B", "A"},
		{"grandparent", "D", "A"},
		{"ancestor", "D", "B"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, ns := sample()
			before := names(tr.Nodes())
			err := ns[tc.parent].AddChild(ns[tc.child])
			if !errors.Is(err, taxerr.ErrStructural) {
				t.Fatalf("AddChild = %v, want ErrStructural", err)
			}
			if diff := cmp.Diff(before, names(tr.Nodes())); diff != "" {
				t.Errorf("tree changed (-want +got):\n%s", diff)
			}
			for _, n := range tr.Nodes() {
				for _, a := range n.Ancestors() {
					if a == n {
						t.Errorf("%s is its own ancestor", n.Name)
					}
				}
			}
		})
	}
}

func TestForeignChild(t *testing.T) {
	_, ns1 := sample()
	_, ns2 := sample()
	if err := ns1["C"].AddChild(ns2["D"]); !errors.Is(err, taxerr.ErrStructural) {
		t.Errorf("AddChild foreign = %v", err)
	}
}

func TestMove(t *testing.T) {
	tr, ns := sample()
	if err := ns["D"].MoveTo(ns["C"]); err != nil {
		t.Fatal(err)
	}
	if ns["D"].Parent() != ns["C"] || !ns["B"].IsLeaf() {
		t.Error("D not moved under C")
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, names(tr.Nodes())); diff != "" {
		t.Errorf("after move (-want +got):\n%s", diff)
	}
	// reorder under the same parent
	if err := ns["A"].InsertChild(0, ns["C"]); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"C", "B"}, names(ns["A"].Children())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if err := ns["A"].AddChild(ns["C"]); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"B", "C"}, names(ns["A"].Children())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if err := ns["A"].InsertChild(5, ns["C"]); !errors.Is(err, taxerr.ErrStructural) {
		t.Errorf("out of range insert = %v", err)
	}
}

func TestNavigation(t *testing.T) {
	tr, ns := sample()
	d := ns["D"]
	if diff := cmp.Diff([]string{"B", "A"}, names(d.Ancestors())); diff != "" {
		t.Errorf("ancestors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "D", "C"}, names(ns["A"].Descendants())); diff != "" {
		t.Errorf("descendants (-want +got):\n%s", diff)
	}
	if d.Level() != 2 || ns["A"].Level() != 0 {
		t.Errorf("levels %d %d", d.Level(), ns["A"].Level())
	}
	if d.PathString() != "A/B/D" {
		t.Errorf("path %q", d.PathString())
	}
	if got := tr.Lookup([]string{"A", "B", "D"}); got != d {
		t.Errorf("Lookup = %v", got)
	}
	if got := tr.Lookup([]string{"A", "X"}); got != nil {
		t.Errorf("Lookup missing = %v", got)
	}
	if tr.ByID(d.ID) != d {
		t.Error("ByID")
	}
	if !ns["A"].IsRoot() || d.IsRoot() || d.Root() != ns["A"] {
		t.Error("root checks")
	}
}

func TestSortChildren(t *testing.T) {
	tr := NewTree("s")
	r := tr.CreateRoot("r")
	r.CreateChild("c")
	r.CreateChild("a")
	r.CreateChild("b")
	r.SortChildren(ByName)
	if diff := cmp.Diff([]string{"r", "a", "b", "c"}, names(tr.Nodes())); diff != "" {
		t.Errorf("sorted (-want +got):\n%s", diff)
	}
}

func TestState(t *testing.T) {
	tr, ns := sample()
	if tr.State() != Created {
		t.Errorf("state %v", tr.State())
	}
	for _, n := range tr.Nodes() {
		n.LabelDone = true
	}
	if tr.State() != Normalized {
		t.Errorf("state %v", tr.State())
	}
	for _, n := range tr.Nodes() {
		n.NodeDone = true
	}
	if tr.State() != Classified {
		t.Errorf("state %v", tr.State())
	}
	ns["C"].CreateChild("new")
	if tr.State() != Created {
		t.Errorf("state after growth %v", tr.State())
	}
	if NewTree("empty").State() != Created {
		t.Error("empty tree state")
	}
}

func TestMarkSource(t *testing.T) {
	tr, _ := sample()
	tr.MarkSource(true)
	for _, n := range tr.Nodes() {
		if !n.IsSource() {
			t.Errorf("%s not marked", n.Name)
		}
	}
}
