package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap/lexicon"
)

func lexiconImport(cfg *LexiconConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Lexicon.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.DB == "" {
		return fmt.Errorf("%w: lexicon requires -db", cli.ErrUsage)
	}
	var dicts []*lexicon.Dictionary
	if len(args) == 0 {
		d, err := lexicon.Builtin()
		if err != nil {
			return err
		}
		dicts = append(dicts, d)
	}
	for _, p := range args {
		d, err := lexicon.LoadDictionary(p)
		if err != nil {
			return err
		}
		dicts = append(dicts, d)
	}
	db, err := lexicon.OpenSQLite(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()
	for _, d := range dicts {
		if err := db.Import(context.Background(), d); err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "imported %d synsets into %s\n", len(d.Synsets()), cfg.DB)
	}
	return nil
}
