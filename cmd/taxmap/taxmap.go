package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "set",
			Description: "config overlay, yaml or json merge patch, json patch, or @file",
			Type:        cli.NamedFuncOpt(cfg.setOpt, "(overlay)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "taxmap").
		WithSynopsis("taxmap [opts] command [opts]").
		WithDescription("taxmap finds the semantic relations between the nodes of two taxonomies.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return taxmapMain(cfg, cc, args)
		}).
		WithSubs(
			MatchCommand(cfg),
			OfflineCommand(cfg),
			FilterCommand(cfg),
			DiffCommand(cfg),
			ViewCommand(cfg),
			LexiconCommand(cfg))
}

func taxmapMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	defer startGops(cfg, cc)()
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func MatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Match, "match").
		WithAliases("m").
		WithSynopsis("match [-ref map] source target").
		WithDescription("match two taxonomy files and write the filtered node map").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return match(cfg, cc, args)
		})
}

func OfflineCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OfflineConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Offline, "offline").
		WithAliases("normalize", "dump").
		WithSynopsis("offline tree").
		WithDescription("normalize and classify a taxonomy and dump its concepts and predicates").
		WithRun(func(cc *cli.Context, args []string) error {
			return offline(cfg, cc, args)
		})
}

func FilterCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FilterConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.FilterCmd, "filter").
		WithAliases("f").
		WithSynopsis("filter [-f filter] source target map").
		WithDescription("filter a node map between two taxonomies").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return filterMap(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff source target want got").
		WithDescription("compare a node map with a reference map; exits 1 when they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view source target map").
		WithDescription("view a node map in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func LexiconCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LexiconConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Lexicon, "lexicon").
		WithSynopsis("lexicon -db file [dictionary.yaml...]").
		WithDescription("import yaml dictionaries, or the builtin one, into a sqlite lexical database").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lexiconImport(cfg, cc, args)
		})
}
