package ling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSense(t *testing.T) {
	tests := []struct {
		in      string
		want    Sense
		wantErr bool
	}{
		{in: "n#12", want: Sense{POS: Noun, ID: 12}},
		{in: "a#0", want: Sense{POS: Adjective, ID: 0}},
		{in: "x#1", wantErr: true},
		{in: "n12", wantErr: true},
		{in: "n#abc", wantErr: true},
		{in: "nn#1", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSense(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestAddSenseDedup(t *testing.T) {
	c := NewConcept(0, "cars", "car")
	assert.True(t, c.AddSense(Sense{POS: Noun, ID: 1}))
	assert.True(t, c.AddSense(Sense{POS: Noun, ID: 2}))
	assert.False(t, c.AddSense(Sense{POS: Noun, ID: 1}))
	assert.Equal(t, []Sense{{Noun, 1}, {Noun, 2}}, c.Senses)
	assert.Equal(t, -1, c.Slot().Index)
}

func TestAtom(t *testing.T) {
	assert.Equal(t, "n3.1", Atom("n3", 1))
}
