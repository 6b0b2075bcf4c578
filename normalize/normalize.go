// Package normalize turns node names into atomic label concepts and label
// predicates.
//
// A label is split into alternatives at connectives ("and", "or", "&",
// "/", ","), each alternative into words. Runs of up to three words that
// the oracle knows as one entry become a single concept. The label
// predicate is the disjunction over alternatives of the conjunction of
// their concepts.
package normalize

import (
	"context"
	"strings"

	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/formula"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/sense"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
)

const DefaultMaxGram = 3

type Normalizer struct {
	oracle  sense.Oracle
	stop    map[string]bool
	maxGram int
	metrics *metrics.Collector
}

type Option func(*Normalizer)

// WithStopWords replaces DefaultStopWords.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) {
		n.stop = make(map[string]bool, len(words))
		for _, w := range words {
			n.stop[strings.ToLower(w)] = true
		}
	}
}

func WithMaxGram(k int) Option {
	return func(n *Normalizer) {
		if k > 0 {
			n.maxGram = k
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(n *Normalizer) {
		n.metrics = m
	}
}

func New(o sense.Oracle, opts ...Option) (*Normalizer, error) {
	if o == nil {
		return nil, taxerr.NotConfigured("lexical oracle")
	}
	n := &Normalizer{oracle: o, maxGram: DefaultMaxGram}
	WithStopWords(DefaultStopWords)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Normalize processes every node of t. Earlier results are replaced, so
// running it twice gives the same predicates.
func (n *Normalizer) Normalize(ctx context.Context, t *tree.Tree) error {
	if !t.HasRoot() {
		return taxerr.Preconditionf("tree %q has no root", t.Name)
	}
	for _, node := range t.Nodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.NormalizeNode(node); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeNode sets the concepts and label predicate of a single node.
// A node whose name has no content words gets the predicate true.
func (n *Normalizer) NormalizeNode(node *tree.Node) error {
	groups, err := split(node.Name, n.stop)
	if err != nil {
		return taxerr.Oracle("segmenting "+node.Name, err)
	}
	node.Concepts = nil
	node.LabelDone = false
	node.NodeDone = false
	var alts []*formula.Formula
	for _, words := range groups {
		var conj []*formula.Formula
		for i := 0; i < len(words); {
			c, used, err := n.concept(len(node.Concepts), words[i:])
			if err != nil {
				return err
			}
			i += used
			node.Concepts = append(node.Concepts, c)
			conj = append(conj, formula.NewAtom(ling.Atom(node.ID, c.ID)))
		}
		alts = append(alts, formula.And(conj...))
	}
	if len(alts) == 0 {
		node.LabelPredicate = formula.True()
	} else {
		node.LabelPredicate = formula.Or(alts...)
	}
	node.LabelDone = true
	if debug.Normalize() {
		debug.Logf("normalize %s %q -> %s %v\n", node.ID, node.Name, node.LabelPredicate, node.Concepts)
	}
	return nil
}

// concept builds the concept starting at words[0], preferring the longest
// multiword entry the oracle knows. It returns the number of words used.
func (n *Normalizer) concept(id int, words []string) (*ling.Concept, int, error) {
	for k := min(n.maxGram, len(words)); k > 1; k-- {
		phrase := strings.Join(words[:k], " ")
		senses, err := n.lookup(phrase)
		if err != nil {
			return nil, 0, err
		}
		if len(senses) == 0 {
			continue
		}
		lemma, err := n.lemmatize(phrase)
		if err != nil {
			return nil, 0, err
		}
		return newConcept(id, phrase, lemma, senses), k, nil
	}
	lemma, err := n.lemmatize(words[0])
	if err != nil {
		return nil, 0, err
	}
	senses, err := n.lookup(lemma)
	if err != nil {
		return nil, 0, err
	}
	return newConcept(id, words[0], lemma, senses), 1, nil
}

func newConcept(id int, token, lemma string, senses []ling.Sense) *ling.Concept {
	c := ling.NewConcept(id, token, lemma)
	for _, s := range senses {
		c.AddSense(s)
	}
	return c
}

func (n *Normalizer) lookup(w string) ([]ling.Sense, error) {
	n.metrics.OracleQuery("lookup")
	ss, err := n.oracle.LookupSenses(w)
	if err != nil {
		return nil, taxerr.Oracle("looking up "+w, err)
	}
	return ss, nil
}

func (n *Normalizer) lemmatize(w string) (string, error) {
	n.metrics.OracleQuery("lemmatize")
	l, err := n.oracle.Lemmatize(w)
	if err != nil {
		return "", taxerr.Oracle("lemmatizing "+w, err)
	}
	return l, nil
}
