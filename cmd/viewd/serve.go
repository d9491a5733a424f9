package main

import (
	"fmt"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/system/viewd/server"
	"github.com/signadot/viewd/view"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	c, err := cfg.config()
	if err != nil {
		return err
	}
	if cfg.Listen != "" {
		c.Listen = cfg.Listen
	}

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		} else {
			defer agent.Close()
		}
	}

	st, closer, err := c.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closer()

	srv := server.New(&server.Spec{
		Config:   c,
		Composer: &view.Composer{Store: st, Scope: c.Scope},
	})
	ctx, cancel := interruptible(cc.Out)
	defer cancel()
	return srv.ListenAndServe(ctx)
}
