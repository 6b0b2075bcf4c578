package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap/mapdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 4 {
		return fmt.Errorf("%w: diff requires 4 args, got %v", cli.ErrUsage, args)
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
	want, err := s.ReadMap(args[2], src, tgt)
	if err != nil {
		return err
	}
	// reading got re-indexes the nodes; want keeps its own links
	wantLinks := mapdiff.Links(want)
	got, err := s.ReadMap(args[3], src, tgt)
	if err != nil {
		return err
	}
	rep := mapdiff.CompareLinks(wantLinks, mapdiff.Links(got))
	if err := rep.Write(cc.Out); err != nil {
		return err
	}
	if !rep.Empty() {
		return cli.ExitCodeErr(1)
	}
	return nil
}
