// Package mapdiff compares a node map against a reference map, typically a
// hand made one loaded with package reader.
//
// Links are compared by node path, so the two maps may be built over
// different tree instances. A link whose node pair is present in both maps
// with different relations is reported as changed.
package mapdiff

import (
	"fmt"
	"io"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
)

type Link struct {
	Source   string
	Target   string
	Relation relmap.Relation
}

func (l Link) key() string {
	return l.Source + "\t" + l.Target
}

func (l Link) String() string {
	return l.Source + "\t" + l.Relation.String() + "\t" + l.Target
}

type Change struct {
	Source string
	Target string
	From   relmap.Relation
	To     relmap.Relation
}

func (c Change) String() string {
	return fmt.Sprintf("%s\t%s -> %s\t%s", c.Source, c.From, c.To, c.Target)
}

type Report struct {
	// Common counts the links found in both maps with the same relation.
	Common  int
	Removed []Link
	Added   []Link
	Changed []Change

	Precision float64
	Recall    float64
}

// F1 is the harmonic mean of precision and recall.
func (r *Report) F1() float64 {
	if r.Precision+r.Recall == 0 {
		return 0
	}
	return 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
}

func (r *Report) Empty() bool {
	return len(r.Removed) == 0 && len(r.Added) == 0 && len(r.Changed) == 0
}

func Links(m *structure.NodeMap) []Link {
	ins := m.Instances()
	res := make([]Link, len(ins))
	for i, in := range ins {
		res[i] = Link{
			Source:   in.Source.PathString(),
			Target:   in.Target.PathString(),
			Relation: in.Relation,
		}
	}
	return res
}

// Compare reports what must change in want to obtain got. Precision is the
// share of the links of got that are in want, recall the share of the links
// of want that are in got. Either is 1 when its denominator is 0.
func Compare(want, got *structure.NodeMap) *Report {
	return CompareLinks(Links(want), Links(got))
}

func CompareLinks(want, got []Link) *Report {
	m := map[string]rune{}
	fromRunes := runes(m, want)
	toRunes := runes(m, got)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	res := &Report{}
	var removed, added []Link
	fi, ti := 0, 0
	for i := range diffs {
		d := &diffs[i]
		n := len([]rune(d.Text))
		switch d.Type {
		case diffpatch.DiffDelete:
			removed = append(removed, want[fi:fi+n]...)
			fi += n
		case diffpatch.DiffEqual:
			res.Common += n
			fi += n
			ti += n
		case diffpatch.DiffInsert:
			added = append(added, got[ti:ti+n]...)
			ti += n
		}
	}

	byKey := make(map[string]int, len(removed))
	for i, l := range removed {
		byKey[l.key()] = i
	}
	paired := map[int]bool{}
	for _, l := range added {
		if i, ok := byKey[l.key()]; ok && !paired[i] {
			paired[i] = true
			res.Changed = append(res.Changed, Change{
				Source: l.Source,
				Target: l.Target,
				From:   removed[i].Relation,
				To:     l.Relation,
			})
			continue
		}
		res.Added = append(res.Added, l)
	}
	for i, l := range removed {
		if !paired[i] {
			res.Removed = append(res.Removed, l)
		}
	}
	res.Precision = ratio(res.Common, len(got))
	res.Recall = ratio(res.Common, len(want))
	return res
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 1
	}
	return float64(n) / float64(d)
}

func runes(m map[string]rune, links []Link) []rune {
	rs := make([]rune, len(links))
	for i, l := range links {
		s := l.String()
		r, ok := m[s]
		if !ok {
			r = rune(len(m))
			m[s] = r
		}
		rs[i] = r
	}
	return rs
}

// Write prints the report as a line oriented diff followed by the scores.
func (r *Report) Write(w io.Writer) error {
	for _, l := range r.Removed {
		if _, err := fmt.Fprintf(w, "- %s\n", l); err != nil {
			return err
		}
	}
	for _, l := range r.Added {
		if _, err := fmt.Fprintf(w, "+ %s\n", l); err != nil {
			return err
		}
	}
	for _, c := range r.Changed {
		if _, err := fmt.Fprintf(w, "~ %s\n", c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "# common %d precision %.4f recall %.4f f1 %.4f\n",
		r.Common, r.Precision, r.Recall, r.F1())
	return err
}
