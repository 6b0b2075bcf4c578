package sense

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/taxerr"
)

const DefaultCacheSize = 1 << 16

type query uint8

const (
	qEquivalent query = iota
	qLessGeneral
	qMoreGeneral
	qDisjoint
)

type pairKey struct {
	q        query
	src, tgt ling.Sense
}

// Comparator derives the relation between two sense lists. Per pair results
// are memoized until Reset; it is safe for concurrent use.
type Comparator struct {
	oracle  Oracle
	cache   *lru.Cache[pairKey, bool]
	metrics *metrics.Collector
}

type Option func(*Comparator)

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Comparator) {
		c.metrics = m
	}
}

// NewComparator builds a Comparator remembering up to size pair results; a
// size <= 0 selects DefaultCacheSize.
func NewComparator(o Oracle, size int, opts ...Option) (*Comparator, error) {
	if o == nil {
		return nil, taxerr.NotConfigured("lexical oracle")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[pairKey, bool](size)
	if err != nil {
		return nil, err
	}
	c := &Comparator{oracle: o, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Comparator) Oracle() Oracle {
	return c.oracle
}

// Reset forgets all memoized pair results. Call it between matching runs.
func (c *Comparator) Reset() {
	c.cache.Purge()
}

// Relation tests equivalence, then less-general, then more-general, then
// disjointness, and returns the first relation held by any pair of senses.
// With no such pair the relation is Unknown.
func (c *Comparator) Relation(src, tgt []ling.Sense) (relmap.Relation, error) {
	checks := []struct {
		rel  relmap.Relation
		test func(a, b ling.Sense) (bool, error)
	}{
		{relmap.Equivalent, c.Equivalent},
		{relmap.LessGeneral, c.LessGeneral},
		{relmap.MoreGeneral, c.MoreGeneral},
		{relmap.Disjoint, c.Disjoint},
	}
	for _, check := range checks {
		for _, a := range src {
			for _, b := range tgt {
				ok, err := check.test(a, b)
				if err != nil {
					return relmap.Unknown, err
				}
				if ok {
					return check.rel, nil
				}
			}
		}
	}
	return relmap.Unknown, nil
}

func (c *Comparator) Equivalent(a, b ling.Sense) (bool, error) {
	if a == b {
		return true, nil
	}
	return c.memo(qEquivalent, a, b, func() (bool, error) {
		return c.ask(a, b, Equivalent)
	})
}

// MoreGeneral reports whether a is broader than b: a hypernym of b, or else
// a whole that b is part of.
func (c *Comparator) MoreGeneral(a, b ling.Sense) (bool, error) {
	return c.memo(qMoreGeneral, a, b, func() (bool, error) {
		ok, err := c.ask(a, b, HypernymOf)
		if err != nil || ok {
			return ok, err
		}
		return c.ask(a, b, HolonymOf)
	})
}

func (c *Comparator) LessGeneral(a, b ling.Sense) (bool, error) {
	return c.memo(qLessGeneral, a, b, func() (bool, error) {
		return c.MoreGeneral(b, a)
	})
}

// Disjoint asks for antonymy unless both senses are nouns, which the
// dictionary relates through explicit disjointness instead.
func (c *Comparator) Disjoint(a, b ling.Sense) (bool, error) {
	return c.memo(qDisjoint, a, b, func() (bool, error) {
		if a.IsNoun() && b.IsNoun() {
			return c.ask(a, b, Disjoint)
		}
		return c.ask(a, b, Antonym)
	})
}

func (c *Comparator) memo(q query, a, b ling.Sense, f func() (bool, error)) (bool, error) {
	k := pairKey{q: q, src: a, tgt: b}
	if v, ok := c.cache.Get(k); ok {
		c.metrics.CacheHit()
		return v, nil
	}
	c.metrics.CacheMiss()
	v, err := f()
	if err != nil {
		return false, err
	}
	c.cache.Add(k, v)
	return v, nil
}

func (c *Comparator) ask(a, b ling.Sense, k Kind) (bool, error) {
	c.metrics.OracleQuery(k.String())
	ok, err := c.oracle.Related(a, b, k)
	if err != nil {
		return false, taxerr.Oracle(fmt.Sprintf("%s(%s, %s)", k, a, b), err)
	}
	if debug.Oracle() {
		debug.Logf("oracle %s(%s, %s) = %t\n", k, a, b, ok)
	}
	return ok, nil
}
