package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func importDump(cfg *ImportConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Import.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: import requires one file", cli.ErrUsage)
	}
	v, err := cfg.readInput(cc, args[0])
	if err != nil {
		return err
	}
	c, closer, err := cfg.composer()
	if err != nil {
		return err
	}
	defer closer()
	ctx, cancel := interruptible(cc.Out)
	defer cancel()
	if err := c.Store.Write(ctx, cfg.At, v); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	theLog.Info("imported", "file", args[0], "at", cfg.At)
	return nil
}
