package element

import (
	"fmt"

	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/sense"
)

// Matcher decides the relation between two concepts. Unknown lets the next
// matcher of a Library decide.
type Matcher interface {
	Name() string
	Match(src, tgt *ling.Concept) (relmap.Relation, error)
}

// SenseMatcher compares the sense lists of the concepts.
type SenseMatcher struct {
	Comparator *sense.Comparator
}

func (m *SenseMatcher) Name() string { return "sense" }

func (m *SenseMatcher) Match(src, tgt *ling.Concept) (relmap.Relation, error) {
	return m.Comparator.Relation(src.Senses, tgt.Senses)
}

// Reset clears the comparator memo between runs.
func (m *SenseMatcher) Reset() {
	m.Comparator.Reset()
}

// LemmaMatcher holds concepts with the same lemma equivalent. It decides
// pairs the dictionary has no senses for.
type LemmaMatcher struct{}

func (LemmaMatcher) Name() string { return "lemma" }

func (LemmaMatcher) Match(src, tgt *ling.Concept) (relmap.Relation, error) {
	if src.Lemma != "" && src.Lemma == tgt.Lemma {
		return relmap.Equivalent, nil
	}
	return relmap.Unknown, nil
}

// DefaultMatchers is the matcher order used when none is configured.
var DefaultMatchers = []string{"sense", "lemma"}

// MatcherNames lists the names NewMatchers accepts.
var MatcherNames = []string{"sense", "lemma", "divergence"}

type matcherOpts struct {
	threshold float64
}

type MatcherOption func(*matcherOpts)

// WithDivergenceThreshold sets the threshold of the divergence matcher.
func WithDivergenceThreshold(t float64) MatcherOption {
	return func(o *matcherOpts) {
		o.threshold = t
	}
}

// NewMatchers resolves matcher names in order. The divergence matcher walks
// hypernyms through the oracle of c.
func NewMatchers(names []string, c *sense.Comparator, opts ...MatcherOption) ([]Matcher, error) {
	o := &matcherOpts{threshold: DefaultDivergenceThreshold}
	for _, opt := range opts {
		opt(o)
	}
	res := make([]Matcher, 0, len(names))
	for _, name := range names {
		switch name {
		case "sense":
			if c == nil {
				return nil, fmt.Errorf("matcher %q needs a sense comparator", name)
			}
			res = append(res, &SenseMatcher{Comparator: c})
		case "lemma":
			res = append(res, LemmaMatcher{})
		case "divergence":
			if c == nil {
				return nil, fmt.Errorf("matcher %q needs a sense comparator", name)
			}
			ho, ok := c.Oracle().(sense.HypernymOracle)
			if !ok {
				return nil, fmt.Errorf("matcher %q needs an oracle that lists hypernyms", name)
			}
			m, err := NewDivergenceMatcher(ho, o.threshold)
			if err != nil {
				return nil, err
			}
			res = append(res, m)
		default:
			return nil, fmt.Errorf("unknown matcher %q", name)
		}
	}
	return res, nil
}
