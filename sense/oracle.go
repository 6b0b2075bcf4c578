// Package sense compares the dictionary senses of two concepts through a
// lexical oracle.
package sense

import (
	"github.com/signadot/taxmap/ling"
)

// Kind is a relation the oracle can be asked about.
type Kind int

const (
	// Equivalent: a and b are synonymous.
	Equivalent Kind = iota
	// Antonym: a and b are opposites.
	Antonym
	// HypernymOf: a is a broader term of b.
	HypernymOf
	// MeronymOf: a is a part of b.
	MeronymOf
	// HolonymOf: a is a whole that b is part of, the converse of MeronymOf.
	HolonymOf
	// Disjoint: no thing is both a and b.
	Disjoint
)

var kindNames = [...]string{
	Equivalent: "equivalent",
	Antonym:    "antonym",
	HypernymOf: "hypernym-of",
	MeronymOf:  "meronym-of",
	HolonymOf:  "holonym-of",
	Disjoint:   "disjoint",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Oracle is the lexical database consulted by normalization and by the
// Comparator. Relations that need a closure over the dictionary graph
// (hypernyms, part-whole) are answered transitively.
type Oracle interface {
	// LookupSenses returns the senses of word, most common first. An
	// unknown word has no senses and no error.
	LookupSenses(word string) ([]ling.Sense, error)
	// Lemmatize returns the base form of word.
	Lemmatize(word string) (string, error)
	// Related reports whether kind holds from a to b.
	Related(a, b ling.Sense, kind Kind) (bool, error)
}

// HypernymOracle is an Oracle that also walks the hypernym graph one step
// at a time.
type HypernymOracle interface {
	Oracle
	// Hypernyms returns the direct hypernyms of s. A sense at the top of
	// the hierarchy, or one the oracle does not know, has none.
	Hypernyms(s ling.Sense) ([]ling.Sense, error)
}
