package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/view"
)

func fetch(cfg *FetchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fetch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: fetch requires one argument, a store path", cli.ErrUsage)
	}
	q := &view.QuerySpec{Path: args[0], Fields: splitFields(cfg.Fields)}
	if cfg.Alias != "" {
		alias := cfg.Alias
		q.Alias = &alias
	}
	c, closer, err := cfg.composer()
	if err != nil {
		return err
	}
	defer closer()
	ctx, cancel := interruptible(cc.Out)
	defer cancel()
	recs, err := view.Fetch(ctx, c.Store, q, view.NewResults(1), c.Preds)
	if err != nil {
		return err
	}
	return cfg.write(cc.Out, recs)
}
