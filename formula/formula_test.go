package formula

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestString(t *testing.T) {
	a, b, c := NewAtom("n0.0"), NewAtom("n1.0"), NewAtom("n1.1")
	tests := []struct {
		name string
		f    *Formula
		want string
	}{
		{"atom", a, "n0.0"},
		{"and", And(a, b), "n0.0 & n1.0"},
		{"flatten", And(a, And(b, c)), "n0.0 & n1.0 & n1.1"},
		{"or of ands", Or(And(a, b), c), "(n0.0 & n1.0) | n1.1"},
		{"and of or", And(a, Or(b, c)), "n0.0 & (n1.0 | n1.1)"},
		{"not", Not(Or(a, b)), "~(n0.0 | n1.0)"},
		{"double not", Not(Not(a)), "n0.0"},
		{"empty and", And(), "true"},
		{"empty or", Or(), "false"},
		{"unit dropped", And(True(), a), "n0.0"},
		{"zero wins", Or(a, True()), "true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAtoms(t *testing.T) {
	f := Or(And(NewAtom("b"), NewAtom("a")), Not(NewAtom("b")))
	if diff := cmp.Diff([]string{"a", "b"}, f.Atoms()); diff != "" {
		t.Errorf("Atoms (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	x := And(NewAtom("a"), Or(NewAtom("b"), NewAtom("c")))
	y := And(NewAtom("a"), Or(NewAtom("b"), NewAtom("c")))
	z := And(NewAtom("a"), Or(NewAtom("c"), NewAtom("b")))
	if !x.Equal(y) {
		t.Error("structurally equal formulas differ")
	}
	if x.Equal(z) {
		t.Error("argument order ignored")
	}
}
