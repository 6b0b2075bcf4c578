package element

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/sense"
	"github.com/signadot/taxmap/taxerr"
)

// DefaultDivergenceThreshold is the largest normalized divergence at which
// the divergence matcher still reports equivalence.
const DefaultDivergenceThreshold = 0.1

const divergenceCacheSize = 1 << 12

// DivergenceMatcher holds two concepts equivalent when the word edit
// distance between their lemmas, divided by the longer word count, is at
// most its threshold.
//
// Inserting or deleting a word costs 1. Substituting one word for another
// costs their divergence: 0 for equal words, else the least d/(r+d) over
// the noun senses of the two words and their common hypernyms, where d is
// the longer of the two distances down from the common hypernym and r is
// the number of synsets on the shortest chain from the common hypernym to
// the top of the hierarchy. Words without a common hypernym diverge by 1.
type DivergenceMatcher struct {
	oracle    sense.HypernymOracle
	threshold float64

	words *lru.Cache[[2]string, float64]
	up    *lru.Cache[ling.Sense, *hypernymTree]
}

// hypernymTree is the upward closure of one sense.
type hypernymTree struct {
	// dist is the shortest number of hypernym steps to each ancestor, the
	// sense itself at 0.
	dist map[ling.Sense]int
	// top counts the synsets on the shortest chain to a root, the sense
	// included.
	top int
}

func NewDivergenceMatcher(o sense.HypernymOracle, threshold float64) (*DivergenceMatcher, error) {
	if o == nil {
		return nil, taxerr.NotConfigured("lexical oracle")
	}
	words, err := lru.New[[2]string, float64](divergenceCacheSize)
	if err != nil {
		return nil, err
	}
	up, err := lru.New[ling.Sense, *hypernymTree](divergenceCacheSize)
	if err != nil {
		return nil, err
	}
	return &DivergenceMatcher{oracle: o, threshold: threshold, words: words, up: up}, nil
}

func (m *DivergenceMatcher) Name() string { return "divergence" }

func (m *DivergenceMatcher) Threshold() float64 { return m.threshold }

func (m *DivergenceMatcher) Match(src, tgt *ling.Concept) (relmap.Relation, error) {
	if src.Lemma == "" || tgt.Lemma == "" {
		return relmap.Unknown, nil
	}
	d, err := m.Divergence(src.Lemma, tgt.Lemma)
	if err != nil {
		return relmap.Unknown, err
	}
	if d <= m.threshold {
		return relmap.Equivalent, nil
	}
	return relmap.Unknown, nil
}

// Reset forgets the memoized word divergences and hypernym closures.
func (m *DivergenceMatcher) Reset() {
	m.words.Purge()
	m.up.Purge()
}

// Divergence is the word edit distance between two phrases divided by the
// longer word count, in [0, 1].
func (m *DivergenceMatcher) Divergence(a, b string) (float64, error) {
	x, y := strings.Fields(a), strings.Fields(b)
	n := max(len(x), len(y))
	if n == 0 {
		return 0, nil
	}
	prev := make([]float64, len(y)+1)
	cur := make([]float64, len(y)+1)
	for j := range prev {
		prev[j] = float64(j)
	}
	for i := 1; i <= len(x); i++ {
		cur[0] = float64(i)
		for j := 1; j <= len(y); j++ {
			sub, err := m.WordDivergence(x[i-1], y[j-1])
			if err != nil {
				return 0, err
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(y)] / float64(n), nil
}

// WordDivergence is the substitution cost of word b for word a.
func (m *DivergenceMatcher) WordDivergence(a, b string) (float64, error) {
	if a == b {
		return 0, nil
	}
	key := [2]string{a, b}
	if v, ok := m.words.Get(key); ok {
		return v, nil
	}
	sa, err := m.nouns(a)
	if err != nil {
		return 0, err
	}
	sb, err := m.nouns(b)
	if err != nil {
		return 0, err
	}
	res := 1.0
	for _, x := range sa {
		for _, y := range sb {
			d, err := m.senseDivergence(x, y)
			if err != nil {
				return 0, err
			}
			res = min(res, d)
		}
	}
	m.words.Add(key, res)
	return res, nil
}

func (m *DivergenceMatcher) nouns(w string) ([]ling.Sense, error) {
	ss, err := m.oracle.LookupSenses(w)
	if err != nil {
		return nil, taxerr.Oracle("looking up "+w, err)
	}
	res := ss[:0:0]
	for _, s := range ss {
		if s.IsNoun() {
			res = append(res, s)
		}
	}
	return res, nil
}

func (m *DivergenceMatcher) senseDivergence(a, b ling.Sense) (float64, error) {
	ua, err := m.hypernyms(a)
	if err != nil {
		return 0, err
	}
	ub, err := m.hypernyms(b)
	if err != nil {
		return 0, err
	}
	res := 1.0
	for c, da := range ua.dist {
		db, ok := ub.dist[c]
		if !ok {
			continue
		}
		leaf := max(da, db)
		if leaf == 0 {
			return 0, nil
		}
		uc, err := m.hypernyms(c)
		if err != nil {
			return 0, err
		}
		res = min(res, float64(leaf)/float64(uc.top+leaf))
	}
	return res, nil
}

// hypernyms walks up from s breadth first.
func (m *DivergenceMatcher) hypernyms(s ling.Sense) (*hypernymTree, error) {
	if h, ok := m.up.Get(s); ok {
		return h, nil
	}
	h := &hypernymTree{dist: map[ling.Sense]int{s: 0}}
	queue := []ling.Sense{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next, err := m.oracle.Hypernyms(cur)
		if err != nil {
			return nil, taxerr.Oracle("hypernyms of "+cur.String(), err)
		}
		if len(next) == 0 && (h.top == 0 || h.dist[cur]+1 < h.top) {
			h.top = h.dist[cur] + 1
		}
		for _, n := range next {
			if _, seen := h.dist[n]; seen {
				continue
			}
			h.dist[n] = h.dist[cur] + 1
			queue = append(queue, n)
		}
	}
	if h.top == 0 {
		// every chain loops back
		h.top = len(h.dist)
	}
	m.up.Add(s, h)
	return h, nil
}
