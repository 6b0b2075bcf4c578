package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap"
	"github.com/signadot/taxmap/config"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/writer"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (yaml)'"`
	Color      bool   `cli:"name=color desc='color text output'"`
	Verbose    bool   `cli:"name=v desc='log pipeline stages'"`
	Gops       bool   `cli:"name=gops desc='run a gops diagnostics agent'"`
	Metrics    string `cli:"name=metrics desc='write prometheus metrics to this file when done'"`

	// Sets are config overlays, inline or "@file".
	Sets []string

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) setOpt(_ *cli.Context, v string) (any, error) {
	cfg.Sets = append(cfg.Sets, v)
	return nil, nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// loadConfig reads -config, or the defaults, then applies every -set.
func (cfg *MainConfig) loadConfig() (*config.Config, error) {
	c := config.Default()
	if cfg.ConfigFile != "" {
		var err error
		c, err = config.Load(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	}
	for _, s := range cfg.Sets {
		var err error
		if path, ok := strings.CutPrefix(s, "@"); ok {
			c, err = c.OverlayFile(path)
		} else {
			c, err = c.Overlay([]byte(s))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: -set %s: %w", cli.ErrUsage, s, err)
		}
	}
	return c, nil
}

// session is one run of a subcommand with its controller and the
// diagnostics requested on the command line.
type session struct {
	*taxmap.Controller
	cfg *config.Config
	reg *prometheus.Registry
	// metrics file
	out string
}

func (cfg *MainConfig) session(cc *cli.Context) (*session, error) {
	c, err := cfg.loadConfig()
	if err != nil {
		return nil, err
	}
	spec := &taxmap.Spec{
		Config: c,
		Log:    newLog(os.Stderr, cfg.Verbose),
		Colors: writer.ColorsFor(cc.Out),
	}
	if cfg.Color {
		spec.Colors = writer.NewColors()
	}
	s := &session{cfg: c, out: cfg.Metrics}
	if cfg.Metrics != "" {
		s.reg = prometheus.NewRegistry()
		spec.Metrics = metrics.New()
		if err := spec.Metrics.Register(s.reg); err != nil {
			return nil, err
		}
	}
	s.Controller, err = taxmap.FromConfig(spec)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) Close() error {
	err := s.Controller.Close()
	if s.reg != nil {
		err = errors.Join(err, metrics.WriteFile(s.out, s.reg))
	}
	return err
}

func startGops(cfg *MainConfig, cc *cli.Context) func() {
	if !cfg.Gops {
		return func() {}
	}
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		return func() {}
	}
	return agent.Close
}

type MatchConfig struct {
	*MainConfig
	Ref string `cli:"name=ref desc='reference map to score the result against'"`

	Match *cli.Command
}

type OfflineConfig struct {
	*MainConfig
	Offline *cli.Command
}

type FilterConfig struct {
	*MainConfig
	Filter string `cli:"name=f desc='filter: none, minimal or equivalence'"`

	FilterCmd *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

type LexiconConfig struct {
	*MainConfig
	DB string `cli:"name=db desc='sqlite database to create or extend'"`

	Lexicon *cli.Command
}
