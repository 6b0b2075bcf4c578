package taxmap

import (
	"fmt"

	"github.com/signadot/taxmap/classify"
	"github.com/signadot/taxmap/config"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/filter"
	"github.com/signadot/taxmap/lexicon"
	"github.com/signadot/taxmap/normalize"
	"github.com/signadot/taxmap/reader"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/sense"
	"github.com/signadot/taxmap/similarity"
	"github.com/signadot/taxmap/structure"
	"github.com/signadot/taxmap/taxerr"
	"github.com/signadot/taxmap/writer"
)

// FromConfig builds a controller with every component selected by
// spec.Config, or config.Default when it is nil. The controller must be
// closed.
func FromConfig(spec *Spec) (_ *Controller, err error) {
	const op = "configure"
	cfg := spec.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	log := spec.Log
	if log == nil {
		log = defaultLogger()
	}
	backing, _ := relmap.ParseBacking(cfg.Matrix)
	c := &Controller{log: log, metrics: spec.Metrics, backing: backing}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	oracle, err := c.openOracle(cfg.Oracle)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	cmp, err := sense.NewComparator(oracle, cfg.SenseCache, sense.WithMetrics(spec.Metrics))
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	matchers, err := element.NewMatchers(cfg.Matchers, cmp,
		element.WithDivergenceThreshold(cfg.DivergenceThreshold))
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.element, err = element.New(matchers,
		element.WithBacking(backing),
		element.WithWorkers(cfg.Workers)); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.normalizer, err = normalize.New(oracle,
		normalize.WithStopWords(cfg.StopWords),
		normalize.WithMaxGram(cfg.MaxGram),
		normalize.WithMetrics(spec.Metrics)); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	c.classifier = classify.New()
	policy, err := similarity.Compile(cfg.Similarity)
	if err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	c.structure = structure.New(
		structure.WithBacking(backing),
		structure.WithScorer(policy),
		structure.WithMetrics(spec.Metrics))

	if c.treeReader, err = reader.NewTreeReader(cfg.Reader); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.mapReader, err = reader.NewMapReader(cfg.Reader); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.treeWriter, err = writer.NewTreeWriter(cfg.Writer); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.mapWriter, err = writer.NewMapWriter(cfg.Writer, spec.Colors); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	if c.filter, err = filter.New(cfg.Filter); err != nil {
		return nil, taxerr.Wrap(op, err)
	}
	log.Debug("configured",
		"oracle", cfg.Oracle.Kind,
		"matchers", cfg.Matchers,
		"matrix", backing.String(),
		"similarity", policy.String())
	return c, nil
}

func (c *Controller) openOracle(oc *config.OracleConfig) (sense.Oracle, error) {
	switch oc.Kind {
	case config.OracleBuiltin:
		return lexicon.Builtin()
	case config.OracleDict:
		return lexicon.LoadDictionary(oc.Path)
	case config.OracleSQLite:
		db, err := lexicon.OpenSQLite(oc.Path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db)
		return db, nil
	}
	return nil, fmt.Errorf("unknown oracle kind %q", oc.Kind)
}
