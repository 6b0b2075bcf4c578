package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func filterMap(cfg *FilterConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.FilterCmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: filter requires 3 args, got %v", cli.ErrUsage, args)
	}
	if cfg.Filter != "" {
		cfg.Sets = append(cfg.Sets, "filter: "+cfg.Filter)
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
	res, err := s.FilterMap(nmap)
	if err != nil {
		return err
	}
	return s.WriteMap(cc.Out, res)
}
