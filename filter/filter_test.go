package filter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/taxmap/classify"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/lexicon"
	"github.com/signadot/taxmap/normalize"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/sense"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/tree"
)

func fixture(t *testing.T) *structure.NodeMap {
	t.Helper()
	src := tree.NewTree("src")
	r := src.CreateRoot("Vehicle")
	r.CreateChild("Car")
	src.MarkSource(true)
	tgt := tree.NewTree("tgt")
	r = tgt.CreateRoot("Vehicle")
	r.CreateChild("Automobile")
	r.CreateChild("Fish")

	s, g := src.Nodes(), tgt.Nodes()
	m := relmap.New(s, g, relmap.Dense)
	m.Set(s[0], g[0], relmap.Equivalent)
	m.Set(s[0], g[1], relmap.ImpliedMoreGeneral)
	m.Set(s[1], g[0], relmap.ImpliedLessGeneral)
	m.Set(s[1], g[1], relmap.Equivalent)
	m.Set(s[1], g[2], relmap.Disjoint)
	m.SetSimilarity(0.5)
	return m
}

func links(m *structure.NodeMap) []string {
	var res []string
	for _, in := range m.Instances() {
		res = append(res, in.Source.Name+" "+in.Relation.String()+" "+in.Target.Name)
	}
	return res
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"none", []string{
			"Vehicle = Vehicle",
			"Vehicle M Automobile",
			"Car L Vehicle",
			"Car = Automobile",
			"Car ! Fish",
		}},
		{"minimal", []string{
			"Vehicle = Vehicle",
			"Car = Automobile",
			"Car ! Fish",
		}},
		{"equivalence", []string{
			"Vehicle = Vehicle",
			"Car = Automobile",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := fixture(t)
			f, err := New(tc.name)
			if err != nil {
				t.Fatal(err)
			}
			if f.Name() != tc.name {
				t.Errorf("name %q", f.Name())
			}
			got, err := f.Filter(m)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, links(got)); diff != "" {
				t.Errorf("links (-want +got):\n%s", diff)
			}
			if got.Similarity() != 0.5 {
				t.Errorf("similarity %v", got.Similarity())
			}
			if m.Len() != 5 {
				t.Errorf("input changed: %d links", m.Len())
			}
		})
	}
}

func TestUnknownFilter(t *testing.T) {
	if _, err := New("transitive"); err == nil {
		t.Fatal("expected error")
	}
	f, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.(None); !ok {
		t.Errorf("default filter %T", f)
	}
}

// matchTrees runs the full pipeline over two single-branch trees given as
// paths from the root.
func matchTrees(t *testing.T, src, tgt []string) *structure.NodeMap {
	t.Helper()
	ctx := context.Background()
	d, err := lexicon.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	n, err := normalize.New(d)
	if err != nil {
		t.Fatal(err)
	}
	build := func(name string, path []string) *tree.Tree {
		tr := tree.NewTree(name)
		cur := tr.CreateRoot(path[0])
		for _, p := range path[1:] {
			cur = cur.CreateChild(p)
		}
		if err := n.Normalize(ctx, tr); err != nil {
			t.Fatal(err)
		}
		if err := classify.New().Classify(ctx, tr); err != nil {
			t.Fatal(err)
		}
		return tr
	}
	s, g := build("src", src), build("tgt", tgt)
	s.MarkSource(true)
	cmpr, err := sense.NewComparator(d, 0)
	if err != nil {
		t.Fatal(err)
	}
	ms, err := element.NewMatchers(element.DefaultMatchers, cmpr)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := element.New(ms)
	if err != nil {
		t.Fatal(err)
	}
	cmap, err := lib.Match(ctx, s, g)
	if err != nil {
		t.Fatal(err)
	}
	nmap, err := structure.New().Compare(ctx, s, g, cmap)
	if err != nil {
		t.Fatal(err)
	}
	return nmap
}

func TestMinimalDropsEntailedSubsumption(t *testing.T) {
	tests := []struct {
		name     string
		src, tgt []string
		want     []string
	}{
		{"target deeper", []string{"Car"}, []string{"Vehicle", "Car"}, []string{"Car = Car"}},
		{"source deeper", []string{"Vehicle", "Car"}, []string{"Car"}, []string{"Car = Car"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Minimal{}.Filter(matchTrees(t, tc.src, tc.tgt))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, links(got)); diff != "" {
				t.Errorf("links (-want +got):\n%s", diff)
			}
		})
	}
}
