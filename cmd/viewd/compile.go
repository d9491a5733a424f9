package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/view"
)

func compile(cfg *CompileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compile.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Results == "" || len(args) != 1 {
		return fmt.Errorf("%w: compile requires -r and one description file", cli.ErrUsage)
	}
	results, err := cfg.readResults(cc)
	if err != nil {
		return err
	}
	raw, err := cfg.readInput(cc, args[0])
	if err != nil {
		return err
	}
	d, err := view.Parse(raw)
	if err != nil {
		return err
	}
	for _, q := range d {
		if q.Filters != nil {
			q.Filters = view.Compile(q.Filters, results)
		}
	}
	return cfg.write(cc.Out, d.Raw())
}

// readResults reads a list of result sets, each a list of records.
func (cfg *CompileConfig) readResults(cc *cli.Context) (*view.Results, error) {
	v, err := cfg.readInput(cc, cfg.Results)
	if err != nil {
		return nil, err
	}
	sets, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: results must be a list of result sets", cfg.Results)
	}
	results := view.NewResults(len(sets))
	for i, s := range sets {
		if _, ok := s.([]any); !ok && s != nil {
			return nil, fmt.Errorf("%s: result set %d is not a list", cfg.Results, i)
		}
		results.Push(record.List(s))
	}
	return results, nil
}
