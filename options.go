package taxmap

import (
	"context"
	"log/slog"

	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/filter"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/reader"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/tree"
	"github.com/signadot/taxmap/writer"
)

// Normalizer computes the label concepts and label predicates of a tree.
type Normalizer interface {
	Normalize(ctx context.Context, t *tree.Tree) error
}

// Classifier computes node predicates from label predicates.
type Classifier interface {
	Classify(ctx context.Context, t *tree.Tree) error
}

// ElementMatcher relates the concepts of two classified trees.
type ElementMatcher interface {
	Match(ctx context.Context, src, tgt *tree.Tree) (*element.ConceptMap, error)
}

// TreeComparator relates the nodes of two classified trees given their
// concept map.
type TreeComparator interface {
	Compare(ctx context.Context, src, tgt *tree.Tree, cmap *element.ConceptMap) (*structure.NodeMap, error)
}

type Option func(*Controller)

func WithTreeReader(r reader.TreeReader) Option {
	return func(c *Controller) { c.treeReader = r }
}
func WithTreeWriter(w writer.TreeWriter) Option {
	return func(c *Controller) { c.treeWriter = w }
}
func WithMapReader(r reader.MapReader) Option {
	return func(c *Controller) { c.mapReader = r }
}
func WithMapWriter(w writer.MapWriter) Option {
	return func(c *Controller) { c.mapWriter = w }
}
func WithFilter(f filter.Filter) Option {
	return func(c *Controller) { c.filter = f }
}
func WithNormalizer(n Normalizer) Option {
	return func(c *Controller) { c.normalizer = n }
}
func WithClassifier(cl Classifier) Option {
	return func(c *Controller) { c.classifier = cl }
}
func WithElementMatcher(m ElementMatcher) Option {
	return func(c *Controller) { c.element = m }
}
func WithTreeComparator(tc TreeComparator) Option {
	return func(c *Controller) { c.structure = tc }
}

// WithBacking sets the matrix backing of maps read by ReadMap.
func WithBacking(b relmap.Backing) Option {
	return func(c *Controller) { c.backing = b }
}
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) { c.metrics = m }
}
