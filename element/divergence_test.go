package element

import (
	"testing"

	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivergence(t *testing.T) {
	f := newFixture(t)
	m, err := NewDivergenceMatcher(f.oracle, DefaultDivergenceThreshold)
	require.NoError(t, err)
	cases := []struct {
		a, b string
		want float64
	}{
		{"car", "car", 0},
		{"car", "automobile", 0},
		{"car", "truck", 0.2},
		{"car", "vehicle", 0.4},
		{"fish", "car", 0.8},
		{"gizmo", "widget", 1},
		{"used car", "car", 0.5},
		{"car", "used car", 0.5},
		{"", "", 0},
	}
	for _, c := range cases {
		t.Run(c.a+"/"+c.b, func(t *testing.T) {
			got, err := m.Divergence(c.a, c.b)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestDivergenceMatcher(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name      string
		src, tgt  string
		threshold float64
		want      relmap.Relation
	}{
		{"synonyms", "car", "automobile", DefaultDivergenceThreshold, relmap.Equivalent},
		{"unknown equal words", "gizmo", "gizmo", DefaultDivergenceThreshold, relmap.Equivalent},
		{"siblings", "car", "truck", DefaultDivergenceThreshold, relmap.Unknown},
		{"siblings loose", "car", "truck", 0.25, relmap.Equivalent},
		{"extra word", "used car", "car", DefaultDivergenceThreshold, relmap.Unknown},
		{"extra word at threshold", "used car", "car", 0.5, relmap.Equivalent},
		{"far apart", "fish", "car", DefaultDivergenceThreshold, relmap.Unknown},
		{"empty lemma", "", "car", 1, relmap.Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := NewDivergenceMatcher(f.oracle, c.threshold)
			require.NoError(t, err)
			got, err := m.Match(ling.NewConcept(0, c.src, c.src), ling.NewConcept(1, c.tgt, c.tgt))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDivergenceCache(t *testing.T) {
	f := newFixture(t)
	m, err := NewDivergenceMatcher(f.oracle, DefaultDivergenceThreshold)
	require.NoError(t, err)
	_, err = m.WordDivergence("car", "truck")
	require.NoError(t, err)
	assert.Equal(t, 1, m.words.Len())
	assert.Positive(t, m.up.Len())
	m.Reset()
	assert.Zero(t, m.words.Len())
	assert.Zero(t, m.up.Len())
}

func TestNewDivergenceMatcher(t *testing.T) {
	f := newFixture(t)
	_, err := NewDivergenceMatcher(nil, DefaultDivergenceThreshold)
	assert.Error(t, err)

	ms, err := NewMatchers([]string{"divergence"}, f.comparator, WithDivergenceThreshold(0.3))
	require.NoError(t, err)
	require.Len(t, ms, 1)
	dm, ok := ms[0].(*DivergenceMatcher)
	require.True(t, ok)
	assert.Equal(t, "divergence", dm.Name())
	assert.Equal(t, 0.3, dm.Threshold())

	_, err = NewMatchers([]string{"divergence"}, nil)
	assert.Error(t, err)
}
