package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/taxmap/lexicon"
	"github.com/signadot/taxmap/normalize"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

func normalized(t *testing.T) *tree.Tree {
	t.Helper()
	d, err := lexicon.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	n, err := normalize.New(d)
	if err != nil {
		t.Fatal(err)
	}
	tr := tree.NewTree("t")
	r := tr.CreateRoot("Vehicles")
	c := r.CreateChild("Cars and Trucks")
	c.CreateChild("Used")
	r.CreateChild("The")
	if err := n.Normalize(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestClassify(t *testing.T) {
	tr := normalized(t)
	if err := New().Classify(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, n := range tr.Nodes() {
		got[n.Name] = n.NodePredicate.String()
		if !n.NodeDone {
			t.Errorf("%s not done", n.Name)
		}
	}
	want := map[string]string{
		"Vehicles":        "n0.0",
		"Cars and Trucks": "n0.0 & (n1.0 | n1.1)",
		"Used":            "n0.0 & (n1.0 | n1.1) & n2.0",
		"The":             "n0.0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("node predicates (-want +got):\n%s", diff)
	}
	if tr.State() != tree.Classified {
		t.Errorf("state %v", tr.State())
	}
}

func TestClassifyIdempotent(t *testing.T) {
	tr := normalized(t)
	c := New()
	ctx := context.Background()
	if err := c.Classify(ctx, tr); err != nil {
		t.Fatal(err)
	}
	first := map[string]string{}
	for _, n := range tr.Nodes() {
		first[n.ID] = n.NodePredicate.String()
	}
	if err := c.Classify(ctx, tr); err != nil {
		t.Fatal(err)
	}
	for _, n := range tr.Nodes() {
		if got := n.NodePredicate.String(); got != first[n.ID] {
			t.Errorf("%s: %q then %q", n.ID, first[n.ID], got)
		}
	}
}

func TestClassifyPreconditions(t *testing.T) {
	tests := []struct {
		name string
		tree func() *tree.Tree
	}{
		{"no root", func() *tree.Tree { return tree.NewTree("empty") }},
		{"not normalized", func() *tree.Tree {
			tr := tree.NewTree("raw")
			tr.CreateRoot("Vehicles")
			return tr
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := New().Classify(context.Background(), tc.tree())
			if !errors.Is(err, taxerr.ErrPrecondition) {
				t.Errorf("got %v, want ErrPrecondition", err)
			}
		})
	}
}
