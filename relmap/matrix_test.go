package relmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type obj struct {
	name   string
	source bool
	slot   Slot
}

func (o *obj) Slot() Slot     { return o.slot }
func (o *obj) SetSlot(s Slot) { o.slot = s }
func (o *obj) IsSource() bool { return o.source }
func (o *obj) String() string { return o.name }

func objs(source bool, names ...string) []*obj {
	res := make([]*obj, len(names))
	for i, n := range names {
		res[i] = &obj{name: n, source: source, slot: NoSlot}
	}
	return res
}

func names(ins []Instance[*obj]) []string {
	res := make([]string, len(ins))
	for i, in := range ins {
		res[i] = in.String()
	}
	return res
}

var backings = []Backing{Dense, Sparse}

func TestUnsetIsUnknown(t *testing.T) {
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a", "b"), objs(false, "x", "y", "z")
			m := New(src, tgt, b)
			for _, s := range src {
				for _, g := range tgt {
					if r := m.Get(s, g); r != Unknown {
						t.Errorf("Get(%s, %s) = %c, want ?", s, g, r)
					}
				}
			}
			if !m.IsEmpty() || m.Len() != 0 {
				t.Errorf("new matrix has %d instances", m.Len())
			}
		})
	}
}

func TestSetLiveCount(t *testing.T) {
	type step struct {
		s, t int
		r    Relation
		ok   bool
		live int
	}
	steps := []step{
		{0, 0, Equivalent, true, 1},
		{0, 0, Equivalent, false, 1},
		{0, 1, LessGeneral, true, 2},
		{0, 0, Disjoint, true, 2},
		{1, 1, Relation('z'), false, 2},
		{0, 0, Unknown, true, 1},
		{0, 0, Unknown, false, 1},
		{1, 0, ImpliedMoreGeneral, true, 2},
	}
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a", "b"), objs(false, "x", "y")
			m := New(src, tgt, b)
			for i, st := range steps {
				ok := m.Set(src[st.s], tgt[st.t], st.r)
				if ok != st.ok {
					t.Errorf("step %d: Set = %v, want %v", i, ok, st.ok)
				}
				if m.Len() != st.live {
					t.Errorf("step %d: Len = %d, want %d", i, m.Len(), st.live)
				}
			}
		})
	}
}

func TestStaleSlots(t *testing.T) {
	src, tgt := objs(true, "a"), objs(false, "x")
	m1 := New(src, tgt, Dense)
	if !m1.Set(src[0], tgt[0], Equivalent) {
		t.Fatal("set on fresh matrix failed")
	}
	m2 := New(src, tgt, Sparse)
	if r := m1.Get(src[0], tgt[0]); r != Unknown {
		t.Errorf("stale read = %c, want ?", r)
	}
	if m1.Set(src[0], tgt[0], Disjoint) {
		t.Error("stale write accepted")
	}
	if m1.Len() != 1 {
		t.Errorf("stale write changed Len to %d", m1.Len())
	}
	if !m2.Set(src[0], tgt[0], LessGeneral) {
		t.Error("set on current matrix failed")
	}

	// an object that claims a slot it does not own
	impostor := &obj{name: "imp", slot: src[0].Slot()}
	if m2.Set(impostor, tgt[0], Equivalent) {
		t.Error("impostor write accepted")
	}
	if r := m2.Get(impostor, tgt[0]); r != Unknown {
		t.Errorf("impostor read = %c", r)
	}
	// a target passed as a source
	if r := m2.Get(tgt[0], tgt[0]); r != Unknown {
		t.Errorf("target as source read = %c", r)
	}
}

func TestSourcesTargetsRoundTrip(t *testing.T) {
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a", "b", "c"), objs(false, "x", "y")
			m := New(src, tgt, b)
			m.Set(src[0], tgt[1], LessGeneral)
			m.Set(src[2], tgt[1], Equivalent)
			m.Set(src[0], tgt[0], Disjoint)

			if diff := cmp.Diff([]string{"a ! x", "a < y"}, names(m.Sources(src[0]))); diff != "" {
				t.Errorf("Sources(a) (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"a < y", "c = y"}, names(m.Targets(tgt[1]))); diff != "" {
				t.Errorf("Targets(y) (-want +got):\n%s", diff)
			}
			if got := m.Sources(src[1]); len(got) != 0 {
				t.Errorf("Sources(b) = %v", names(got))
			}
		})
	}
}

func TestIterRowMajor(t *testing.T) {
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a", "b"), objs(false, "x", "y", "z")
			m := New(src, tgt, b)
			m.Set(src[1], tgt[0], MoreGeneral)
			m.Set(src[0], tgt[2], Equivalent)
			m.Set(src[0], tgt[0], LessGeneral)
			var got []string
			it := m.Iter()
			for it.Next() {
				got = append(got, it.Instance().String())
			}
			if err := it.Err(); err != nil {
				t.Fatal(err)
			}
			want := []string{"a < x", "a = z", "b > x"}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("iteration (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, names(m.Instances())); diff != "" {
				t.Errorf("Instances (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIterInvalidated(t *testing.T) {
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a"), objs(false, "x", "y")
			m := New(src, tgt, b)
			m.Set(src[0], tgt[0], Equivalent)
			m.Set(src[0], tgt[1], Equivalent)
			it := m.Iter()
			if !it.Next() {
				t.Fatal("expected an instance")
			}
			m.Set(src[0], tgt[1], Disjoint)
			if it.Next() {
				t.Error("Next succeeded after modification")
			}
			if !errors.Is(it.Err(), ErrInvalidated) {
				t.Errorf("Err = %v, want ErrInvalidated", it.Err())
			}
		})
	}
}

func TestIterRemove(t *testing.T) {
	for _, b := range backings {
		t.Run(b.String(), func(t *testing.T) {
			src, tgt := objs(true, "a", "b"), objs(false, "x")
			m := New(src, tgt, b)
			m.Set(src[0], tgt[0], ImpliedLessGeneral)
			m.Set(src[1], tgt[0], Equivalent)
			it := m.Iter()
			if err := it.Remove(); !errors.Is(err, ErrNoCurrent) {
				t.Errorf("Remove before Next = %v", err)
			}
			for it.Next() {
				if it.Instance().Relation.IsImplied() {
					if err := it.Remove(); err != nil {
						t.Fatal(err)
					}
				}
			}
			if err := it.Err(); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"b = x"}, names(m.Instances())); diff != "" {
				t.Errorf("after remove (-want +got):\n%s", diff)
			}
			if m.Len() != 1 {
				t.Errorf("Len = %d", m.Len())
			}
		})
	}
}

func TestDerive(t *testing.T) {
	src, tgt := objs(true, "a"), objs(false, "x")
	m := New(src, tgt, Dense)
	m.Set(src[0], tgt[0], Equivalent)
	d := m.Derive()
	if d.Len() != 0 {
		t.Errorf("derived Len = %d", d.Len())
	}
	if !d.Set(src[0], tgt[0], LessGeneral) {
		t.Error("derived set failed")
	}
	if r := m.Get(src[0], tgt[0]); r != Equivalent {
		t.Errorf("original changed to %c", r)
	}
}

func TestClear(t *testing.T) {
	src, tgt := objs(true, "a"), objs(false, "x")
	m := New(src, tgt, Sparse)
	m.Set(src[0], tgt[0], Equivalent)
	it := m.Iter()
	m.Clear()
	if !m.IsEmpty() {
		t.Error("not empty after Clear")
	}
	if it.Next() || !errors.Is(it.Err(), ErrInvalidated) {
		t.Error("Clear did not invalidate iterator")
	}
}

func TestInverseInstance(t *testing.T) {
	a := &obj{name: "a", source: true}
	b := &obj{name: "b"}
	tests := []struct {
		x, y *obj
		r    Relation
		want string
	}{
		{a, b, LessGeneral, "a < b"},
		{b, a, LessGeneral, "a > b"},
		{b, a, MoreGeneral, "a < b"},
		{b, a, Equivalent, "a = b"},
		{b, a, Disjoint, "a ! b"},
		{b, a, ImpliedLessGeneral, "a M b"},
		{b, a, ImpliedDisjoint, "a X b"},
	}
	for _, tc := range tests {
		got := InverseInstance(tc.x, tc.y, tc.r).String()
		if got != tc.want {
			t.Errorf("InverseInstance(%s, %s, %c) = %q, want %q", tc.x, tc.y, tc.r, got, tc.want)
		}
	}
}

func TestRelationTags(t *testing.T) {
	for _, r := range Relations {
		if r.Primary().IsImplied() {
			t.Errorf("%c.Primary() is implied", r)
		}
		if r.Inverse().Inverse() != r {
			t.Errorf("%c.Inverse is not an involution", r)
		}
		p, err := ParseRelation(r.String())
		if err != nil || p != r {
			t.Errorf("ParseRelation(%q) = %c, %v", r.String(), p, err)
		}
	}
	if _, err := ParseRelation("<>"); err == nil {
		t.Error("ParseRelation accepted two characters")
	}
}
