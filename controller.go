// Package taxmap matches two taxonomies.
//
// A Controller runs the pipeline in stages. Each tree is first processed
// offline: normalization splits node labels into concepts with dictionary
// senses and classification turns them into node predicates. The online
// stages relate two classified trees, first concept by concept, then node
// by node.
//
//	c := taxmap.New(opts...)
//	nmap, err := c.MapTaxonomy(ctx, src, tgt)
//
// Every failure is a *taxerr.Error naming the operation; the kinds of
// package taxerr are reachable with errors.Is.
package taxmap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/filter"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/reader"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/tree"
	"github.com/signadot/taxmap/writer"
)

type Controller struct {
	log     *slog.Logger
	metrics *metrics.Collector
	backing relmap.Backing

	treeReader reader.TreeReader
	treeWriter writer.TreeWriter
	mapReader  reader.MapReader
	mapWriter  writer.MapWriter
	filter     filter.Filter
	normalizer Normalizer
	classifier Classifier
	element    ElementMatcher
	structure  TreeComparator

	closers []io.Closer
}

// New returns a controller with the given components. Operations whose
// component is missing fail with taxerr.ErrConfigurationMissing.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	return c
}

// Close releases resources held by components, such as an open lexical
// database.
func (c *Controller) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

type runKey struct{}

// WithRun returns a context carrying a fresh run id. Operations started
// with it log under that id; operations started without one make their
// own.
func WithRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey{}, uuid.New().String())
}

func (c *Controller) run(ctx context.Context) (context.Context, *slog.Logger) {
	id, ok := ctx.Value(runKey{}).(string)
	if !ok {
		ctx = WithRun(ctx)
		id = ctx.Value(runKey{}).(string)
	}
	return ctx, c.log.With("run", id)
}

// CreateTree returns an empty tree.
func (c *Controller) CreateTree(name string) *tree.Tree {
	return tree.NewTree(name)
}

func (c *Controller) ReadTree(path string) (*tree.Tree, error) {
	const op = "read tree"
	if c.treeReader == nil {
		return nil, taxerr.Wrap(op, taxerr.NotConfigured("tree reader"))
	}
	c.log.Debug("reading tree", "path", path, "format", c.treeReader.Name())
	t, err := reader.ReadTreeFile(c.treeReader, path)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	c.log.Debug("reading tree finished", "path", path, "nodes", t.Len())
	return t, nil
}

func (c *Controller) WriteTree(w io.Writer, t *tree.Tree) error {
	const op = "write tree"
	if c.treeWriter == nil {
		return taxerr.Wrap(op, taxerr.NotConfigured("tree writer"))
	}
	return taxerr.Wrap(op, c.treeWriter.WriteTree(w, t))
}

// ReadMap loads a node map between src and tgt.
func (c *Controller) ReadMap(path string, src, tgt *tree.Tree) (*structure.NodeMap, error) {
	const op = "read map"
	if c.mapReader == nil {
		return nil, taxerr.Wrap(op, taxerr.NotConfigured("map reader"))
	}
	m, err := reader.ReadMapFile(c.mapReader, path, src, tgt, c.backing)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	c.log.Debug("reading map finished", "path", path, "links", m.Len())
	return m, nil
}

func (c *Controller) WriteMap(w io.Writer, nmap *structure.NodeMap) error {
	const op = "write map"
	if c.mapWriter == nil {
		return taxerr.Wrap(op, taxerr.NotConfigured("map writer"))
	}
	return taxerr.Wrap(op, c.mapWriter.WriteMap(w, nmap))
}

// WriteMapFile writes nmap to path, or to stdout when path is "-".
func (c *Controller) WriteMapFile(path string, nmap *structure.NodeMap) (err error) {
	if path == "-" {
		return c.WriteMap(os.Stdout, nmap)
	}
	f, err := os.Create(path)
	if err != nil {
		return taxerr.Wrap("write map", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = taxerr.Wrap("write map", cerr)
		}
	}()
	return c.WriteMap(f, nmap)
}

func (c *Controller) FilterMap(nmap *structure.NodeMap) (*structure.NodeMap, error) {
	const op = "filter map"
	if c.filter == nil {
		return nil, taxerr.Wrap(op, taxerr.NotConfigured("map filter"))
	}
	res, err := c.filter.Filter(nmap)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	c.log.Debug("filtering map finished", "filter", c.filter.Name(), "before", nmap.Len(), "after", res.Len())
	return res, nil
}

// Normalize computes the label concepts of every node of t.
func (c *Controller) Normalize(ctx context.Context, t *tree.Tree) error {
	const op = "normalize"
	if c.normalizer == nil {
		return taxerr.Wrap(op, taxerr.NotConfigured("normalizer"))
	}
	_, log := c.run(ctx)
	log.Info("normalizing tree", "tree", t.Name)
	defer c.metrics.Stage(op)()
	if err := c.normalizer.Normalize(ctx, t); err != nil {
		return taxerr.Wrap(op, err)
	}
	log.Info("normalizing tree finished", "tree", t.Name, "nodes", t.Len())
	return nil
}

// Classify computes the node predicates of a normalized tree.
func (c *Controller) Classify(ctx context.Context, t *tree.Tree) error {
	const op = "classify"
	if c.classifier == nil {
		return taxerr.Wrap(op, taxerr.NotConfigured("classifier"))
	}
	_, log := c.run(ctx)
	log.Info("classifying tree", "tree", t.Name)
	defer c.metrics.Stage(op)()
	if err := c.classifier.Classify(ctx, t); err != nil {
		return taxerr.Wrap(op, err)
	}
	log.Info("classifying tree finished", "tree", t.Name)
	return nil
}

// ElementLevelMap relates the concepts of two classified trees. Once both
// trees pass the checks, src is marked as the source tree and tgt as the
// target.
func (c *Controller) ElementLevelMap(ctx context.Context, src, tgt *tree.Tree) (*element.ConceptMap, error) {
	const op = "element level map"
	if c.element == nil {
		return nil, taxerr.Wrap(op, taxerr.NotConfigured("element matcher"))
	}
	if err := element.CheckPair(src, tgt); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	_, log := c.run(ctx)
	log.Info("element level comparison", "source", src.Name, "target", tgt.Name)
	defer c.metrics.Stage(op)()
	src.MarkSource(true)
	tgt.MarkSource(false)
	cmap, err := c.element.Match(ctx, src, tgt)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	log.Info("element level comparison finished", "source", src.Name, "target", tgt.Name, "links", cmap.Len())
	return cmap, nil
}

// StructureLevelMap relates the nodes of two classified trees given their
// concept map.
func (c *Controller) StructureLevelMap(ctx context.Context, src, tgt *tree.Tree, cmap *element.ConceptMap) (*structure.NodeMap, error) {
	const op = "structure level map"
	if c.structure == nil {
		return nil, taxerr.Wrap(op, taxerr.NotConfigured("tree comparator"))
	}
	_, log := c.run(ctx)
	log.Info("structure level comparison", "source", src.Name, "target", tgt.Name)
	defer c.metrics.Stage(op)()
	nmap, err := c.structure.Compare(ctx, src, tgt, cmap)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	log.Info("structure level comparison finished",
		"source", src.Name, "target", tgt.Name,
		"links", nmap.Len(), "similarity", nmap.Similarity())
	return nmap, nil
}

// Offline normalizes and classifies t.
func (c *Controller) Offline(ctx context.Context, t *tree.Tree) error {
	ctx, _ = c.run(ctx)
	if err := c.Normalize(ctx, t); err != nil {
		return err
	}
	return c.Classify(ctx, t)
}

// Online matches two classified trees.
func (c *Controller) Online(ctx context.Context, src, tgt *tree.Tree) (*structure.NodeMap, error) {
	ctx, _ = c.run(ctx)
	cmap, err := c.ElementLevelMap(ctx, src, tgt)
	if err != nil {
		return nil, err
	}
	return c.StructureLevelMap(ctx, src, tgt, cmap)
}

// MapTaxonomy processes both trees offline and matches them.
func (c *Controller) MapTaxonomy(ctx context.Context, src, tgt *tree.Tree) (*structure.NodeMap, error) {
	ctx, _ = c.run(ctx)
	if err := c.Offline(ctx, src); err != nil {
		return nil, err
	}
	if err := c.Offline(ctx, tgt); err != nil {
		return nil, err
	}
	return c.Online(ctx, src, tgt)
}
