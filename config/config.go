// Package config holds the serializable settings that select and tune the
// components of a matching run.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/signadot/taxmap/element"
	"github.com/signadot/taxmap/filter"
	"github.com/signadot/taxmap/normalize"
	"github.com/signadot/taxmap/reader"
	"github.com/signadot/taxmap/relmap"
	"github.com/signadot/taxmap/sense"
	"github.com/signadot/taxmap/similarity"
	"github.com/signadot/taxmap/writer"
)

// Oracle kinds.
const (
	OracleBuiltin = "builtin"
	OracleDict    = "dict"
	OracleSQLite  = "sqlite"
)

var OracleKinds = []string{OracleBuiltin, OracleDict, OracleSQLite}

// Config is read from YAML. Field names double as the keys of JSON merge
// patches applied by Overlay.
type Config struct {
	// Reader is the tree and map input format: text or yaml.
	Reader string `json:"reader,omitempty"`
	// Writer is the tree and map output format: text or yaml.
	Writer string `json:"writer,omitempty"`
	// Filter is applied to node maps before they are written.
	Filter string        `json:"filter,omitempty"`
	Oracle *OracleConfig `json:"oracle,omitempty"`

	// SenseCache bounds the memo of sense comparisons.
	SenseCache int      `json:"senseCache,omitempty"`
	Matchers   []string `json:"matchers,omitempty"`
	// DivergenceThreshold is the largest normalized lemma divergence the
	// divergence matcher holds equivalent.
	DivergenceThreshold float64 `json:"divergenceThreshold,omitempty"`
	Workers             int     `json:"workers,omitempty"`
	// Matrix is the relation matrix backing: dense or sparse.
	Matrix string `json:"matrix,omitempty"`
	// Similarity is a preset name or an expression over similarity.Stats.
	Similarity string   `json:"similarity,omitempty"`
	StopWords  []string `json:"stopWords,omitempty"`
	MaxGram    int      `json:"maxGram,omitempty"`
}

// OracleConfig selects the lexical oracle. Path names a YAML dictionary
// for dict and a database file for sqlite.
type OracleConfig struct {
	Kind string `json:"kind,omitempty"`
	Path string `json:"path,omitempty"`
}

func Default() *Config {
	return &Config{
		Reader:              "text",
		Writer:              "text",
		Filter:              "none",
		Oracle:              &OracleConfig{Kind: OracleBuiltin},
		SenseCache:          sense.DefaultCacheSize,
		Matchers:            slices.Clone(element.DefaultMatchers),
		DivergenceThreshold: element.DefaultDivergenceThreshold,
		Workers:             1,
		Matrix:              relmap.Dense.String(),
		Similarity:          similarity.Default,
		StopWords:           slices.Clone(normalize.DefaultStopWords),
		MaxGram:             normalize.DefaultMaxGram,
	}
}

// Load reads a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if !slices.Contains(reader.TreeFormats, c.Reader) {
		add("reader %q is not one of %v", c.Reader, reader.TreeFormats)
	}
	if !slices.Contains(writer.Formats, c.Writer) {
		add("writer %q is not one of %v", c.Writer, writer.Formats)
	}
	if !slices.Contains(filter.Names, c.Filter) {
		add("filter %q is not one of %v", c.Filter, filter.Names)
	}
	switch {
	case c.Oracle == nil:
		add("oracle is missing")
	case !slices.Contains(OracleKinds, c.Oracle.Kind):
		add("oracle kind %q is not one of %v", c.Oracle.Kind, OracleKinds)
	case c.Oracle.Kind != OracleBuiltin && c.Oracle.Path == "":
		add("oracle kind %q needs a path", c.Oracle.Kind)
	}
	if c.SenseCache <= 0 {
		add("senseCache must be positive, got %d", c.SenseCache)
	}
	if len(c.Matchers) == 0 {
		add("matchers is empty")
	}
	for _, m := range c.Matchers {
		if !slices.Contains(element.MatcherNames, m) {
			add("matcher %q is not one of %v", m, element.MatcherNames)
		}
	}
	if c.DivergenceThreshold < 0 || c.DivergenceThreshold > 1 {
		add("divergenceThreshold must be within [0, 1], got %g", c.DivergenceThreshold)
	}
	if c.Workers < 1 {
		add("workers must be at least 1, got %d", c.Workers)
	}
	if _, ok := relmap.ParseBacking(c.Matrix); !ok {
		add("matrix %q is not dense or sparse", c.Matrix)
	}
	if _, err := similarity.Compile(c.Similarity); err != nil {
		errs = append(errs, err)
	}
	if c.MaxGram < 1 {
		add("maxGram must be at least 1, got %d", c.MaxGram)
	}
	return errors.Join(errs...)
}
