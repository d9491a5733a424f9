package main

import (
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/view"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	bad := 0
	for _, file := range args {
		raw, err := cfg.readInput(cc, file)
		if err != nil {
			return err
		}
		d, err := view.Parse(raw)
		if err == nil {
			fmt.Fprintf(cc.Out, "%s: ok, %d queries\n", file, len(d))
			continue
		}
		bad++
		fmt.Fprintf(cc.Out, "%s: invalid\n", file)
		var ve *view.ValidationError
		if !errors.As(err, &ve) {
			fmt.Fprintf(cc.Out, "\t%v\n", err)
			continue
		}
		for _, v := range ve.Violations {
			fmt.Fprintf(cc.Out, "\t%v\n", v)
		}
	}
	if bad > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
