// Package element computes the concept map: the relation between every
// atomic concept of a source tree and every atomic concept of a target
// tree.
package element

import (
	"context"

	"github.com/signadot/taxmap/debug"
	"github.com/signadot/taxmap/ling"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
	"golang.org/x/sync/errgroup"
)

// ConceptMap relates the concepts of two trees.
type ConceptMap = relmap.Matrix[*ling.Concept]

// Library runs an ordered list of Matchers over all concept pairs.
type Library struct {
	matchers []Matcher
	backing  relmap.Backing
	workers  int
}

type Option func(*Library)

func WithBacking(b relmap.Backing) Option {
	return func(l *Library) {
		l.backing = b
	}
}

// WithWorkers sets how many source concepts are compared concurrently.
func WithWorkers(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.workers = n
		}
	}
}

func New(matchers []Matcher, opts ...Option) (*Library, error) {
	if len(matchers) == 0 {
		return nil, taxerr.NotConfigured("element matcher")
	}
	l := &Library{matchers: matchers, workers: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Concepts lists the concepts of all nodes of t in node order.
func Concepts(t *tree.Tree) []*ling.Concept {
	var res []*ling.Concept
	for _, n := range t.Nodes() {
		res = append(res, n.Concepts...)
	}
	return res
}

// CheckPair reports whether two trees can be matched: distinct and both
// classified.
func CheckPair(src, tgt *tree.Tree) error {
	if src == tgt {
		return taxerr.Preconditionf("source and target are the same tree")
	}
	if src.State() != tree.Classified {
		return taxerr.Preconditionf("source context is not normalized")
	}
	if tgt.State() != tree.Classified {
		return taxerr.Preconditionf("target context is not normalized")
	}
	return nil
}

// Match builds a fresh concept map for two classified trees. Every concept
// is re-indexed, so concept maps from earlier runs go stale.
func (l *Library) Match(ctx context.Context, src, tgt *tree.Tree) (*ConceptMap, error) {
	if err := CheckPair(src, tgt); err != nil {
		return nil, err
	}
	for _, m := range l.matchers {
		if r, ok := m.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
	srcC, tgtC := Concepts(src), Concepts(tgt)
	cmap := relmap.New(srcC, tgtC, l.backing)

	rows := make([][]relmap.Relation, len(srcC))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, sc := range srcC {
		g.Go(func() error {
			row := make([]relmap.Relation, len(tgtC))
			for j, tc := range tgtC {
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := l.relation(sc, tc)
				if err != nil {
					return err
				}
				row[j] = r
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, row := range rows {
		for j, r := range row {
			if r == relmap.Unknown {
				continue
			}
			cmap.Set(srcC[i], tgtC[j], r)
			if debug.Element() {
				debug.Logf("element %s %c %s\n", srcC[i], r, tgtC[j])
			}
		}
	}
	return cmap, nil
}

func (l *Library) relation(src, tgt *ling.Concept) (relmap.Relation, error) {
	for _, m := range l.matchers {
		r, err := m.Match(src, tgt)
		if err != nil {
			return relmap.Unknown, err
		}
		if r != relmap.Unknown {
			return r, nil
		}
	}
	return relmap.Unknown, nil
}
