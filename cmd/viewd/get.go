package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/store"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: get requires one argument, a view name", cli.ErrUsage)
	}
	c, closer, err := cfg.composer()
	if err != nil {
		return err
	}
	defer closer()
	v, err := c.Get(context.Background(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("view %q not found", args[0])
	}
	if err != nil {
		return err
	}
	return cfg.write(cc.Out, v)
}
