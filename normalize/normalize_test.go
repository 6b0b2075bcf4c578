package normalize

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/taxmap/lexicon"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

func newNormalizer(t *testing.T, opts ...Option) *Normalizer {
	t.Helper()
	d, err := lexicon.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	n, err := New(d, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestSplit(t *testing.T) {
	stop := map[string]bool{"of": true, "the": true}
	tests := []struct {
		label string
		want  [][]string
	}{
		{"Cars", [][]string{{"cars"}}},
		{"Used Cars", [][]string{{"used", "cars"}}},
		{"Cars and Trucks", [][]string{{"cars"}, {"trucks"}}},
		{"Cars & Trucks / Boats", [][]string{{"cars"}, {"trucks"}, {"boats"}}},
		{"Books, Magazines", [][]string{{"books"}, {"magazines"}}},
		{"History of the World", [][]string{{"history", "world"}}},
		{"The", nil},
		{"", nil},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, err := split(tc.label, stop)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("split (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeNode(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		predicate string
		lemmas    []string
		senses    [][]ling.Sense
	}{
		{
			name:      "single",
			label:     "Cars",
			predicate: "n1.0",
			lemmas:    []string{"car"},
			senses:    [][]ling.Sense{{{POS: ling.Noun, ID: 13}}},
		},
		{
			name:      "conjunction",
			label:     "Used Cars",
			predicate: "n1.0 & n1.1",
			lemmas:    []string{"used", "car"},
			senses:    [][]ling.Sense{{{POS: ling.Adjective, ID: 46}}, {{POS: ling.Noun, ID: 13}}},
		},
		{
			name:      "alternatives",
			label:     "Cars and Trucks",
			predicate: "n1.0 | n1.1",
			lemmas:    []string{"car", "truck"},
			senses:    [][]ling.Sense{{{POS: ling.Noun, ID: 13}}, {{POS: ling.Noun, ID: 18}}},
		},
		{
			name:      "multiword",
			label:     "Motor Vehicles",
			predicate: "n1.0",
			lemmas:    []string{"motor vehicle"},
			senses:    [][]ling.Sense{{{POS: ling.Noun, ID: 15}}},
		},
		{
			name:      "unknown word",
			label:     "Gizmos",
			predicate: "n1.0",
			lemmas:    []string{"gizmos"},
			senses:    [][]ling.Sense{nil},
		},
		{
			name:      "only stop words",
			label:     "The Other",
			predicate: "true",
		},
	}
	n := newNormalizer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := tree.NewTree("t")
			tr.CreateRoot("root")
			node := tr.Root().CreateChild(tc.label)
			if err := n.NormalizeNode(node); err != nil {
				t.Fatal(err)
			}
			if !node.LabelDone {
				t.Error("LabelDone not set")
			}
			if got := node.LabelPredicate.String(); got != tc.predicate {
				t.Errorf("predicate %q, want %q", got, tc.predicate)
			}
			var lemmas []string
			var senses [][]ling.Sense
			for i, c := range node.Concepts {
				if c.ID != i {
					t.Errorf("concept %d has id %d", i, c.ID)
				}
				lemmas = append(lemmas, c.Lemma)
				senses = append(senses, c.Senses)
			}
			if diff := cmp.Diff(tc.lemmas, lemmas); diff != "" {
				t.Errorf("lemmas (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.senses, senses); diff != "" {
				t.Errorf("senses (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newNormalizer(t)
	tr := tree.NewTree("t")
	r := tr.CreateRoot("Vehicles")
	r.CreateChild("Cars and Trucks")
	ctx := context.Background()
	if err := n.Normalize(ctx, tr); err != nil {
		t.Fatal(err)
	}
	first := map[string]string{}
	for _, node := range tr.Nodes() {
		first[node.ID] = node.LabelPredicate.String()
	}
	if err := n.Normalize(ctx, tr); err != nil {
		t.Fatal(err)
	}
	for _, node := range tr.Nodes() {
		if got := node.LabelPredicate.String(); got != first[node.ID] {
			t.Errorf("%s: %q then %q", node.ID, first[node.ID], got)
		}
		if len(node.Concepts) > 2 {
			t.Errorf("%s: concepts accumulated: %v", node.ID, node.Concepts)
		}
	}
	if tr.State() != tree.Normalized {
		t.Errorf("state %v", tr.State())
	}
}

func TestNormalizeEmptyTree(t *testing.T) {
	n := newNormalizer(t)
	err := n.Normalize(context.Background(), tree.NewTree("empty"))
	if !errors.Is(err, taxerr.ErrPrecondition) {
		t.Errorf("got %v, want ErrPrecondition", err)
	}
}

func TestNormalizeCanceled(t *testing.T) {
	n := newNormalizer(t)
	tr := tree.NewTree("t")
	tr.CreateRoot("Vehicles")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Normalize(ctx, tr); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}

func TestCustomStopWords(t *testing.T) {
	n := newNormalizer(t, WithStopWords([]string{"used"}))
	tr := tree.NewTree("t")
	node := tr.CreateRoot("Used Cars")
	if err := n.NormalizeNode(node); err != nil {
		t.Fatal(err)
	}
	if got := node.LabelPredicate.String(); got != "n0.0" {
		t.Errorf("predicate %q", got)
	}
}

func TestNilOracle(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, taxerr.ErrConfigurationMissing) {
		t.Errorf("got %v", err)
	}
}
