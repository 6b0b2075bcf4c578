package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap/mapdiff"
	"github.com/signadot/taxmap/tree"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Match.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: match requires 2 args, got %v", cli.ErrUsage, args)
	}
	s, err := cfg.session(cc)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	src, tgt, err := readPair(s, args[0], args[1])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	nmap, err := s.MapTaxonomy(ctx, src, tgt)
	if err != nil {
		return err
	}
	res, err := s.FilterMap(nmap)
	if err != nil {
		return err
	}
	if err := s.WriteMap(cc.Out, res); err != nil {
		return err
	}
	if cfg.Ref == "" {
		return nil
	}
	ref, err := s.ReadMap(cfg.Ref, src, tgt)
	if err != nil {
		return err
	}
	return mapdiff.Compare(ref, res).Write(os.Stderr)
}

func readPair(s *session, a, b string) (*tree.Tree, *tree.Tree, error) {
	src, err := s.ReadTree(a)
	if err != nil {
		return nil, nil, err
	}
	tgt, err := s.ReadTree(b)
	if err != nil {
		return nil, nil, err
	}
	return src, tgt, nil
}
