package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
	"github.com/signadot/taxmap/writer"
)

func offline(cfg *OfflineConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Offline.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: offline requires 1 arg, got %v", cli.ErrUsage, args)
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
	t, err := s.ReadTree(args[0])
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.Offline(ctx, t); err != nil {
		return err
	}
	// the text form has no room for concepts
	return writer.YAMLTree{}.WriteTree(cc.Out, t)
}
