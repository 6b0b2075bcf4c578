package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap/writer"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: view requires 3 args, got %v", cli.ErrUsage, args)
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
	nmap, err := s.ReadMap(args[2], src, tgt)
	if err != nil {
		return err
	}
	return writer.TextMap{Colors: writer.NewColors()}.WriteMap(cc.Out, nmap)
}
