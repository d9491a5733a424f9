package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/scott-cotton/cli"

	"github.com/signadot/viewd/libdiff"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/view"
)

func create(cfg *CreateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Create.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: create requires description files", cli.ErrUsage)
	}
	if cfg.Name != "" && len(args) > 1 {
		return fmt.Errorf("%w: -n names a single view", cli.ErrUsage)
	}
	jobs := make([]view.Job, len(args))
	for i, file := range args {
		name := cfg.Name
		if name == "" {
			if file == "-" {
				return fmt.Errorf("%w: -n is required to read stdin", cli.ErrUsage)
			}
			name = viewName(file)
		}
		d, err := cfg.readInput(cc, file)
		if err != nil {
			return err
		}
		jobs[i] = view.Job{Name: name, Description: d}
	}

	c, closer, err := cfg.composer()
	if err != nil {
		return err
	}
	defer closer()
	ctx, cancel := interruptible(cc.Out)
	defer cancel()

	prevs := make([]any, len(jobs))
	if cfg.Diff {
		for i, j := range jobs {
			if old, err := c.Get(ctx, j.Name); err == nil {
				prevs[i] = old
			}
		}
	}
	var views [][]record.Record
	if len(jobs) == 1 {
		v, err := c.Create(ctx, jobs[0].Name, jobs[0].Description)
		if err != nil {
			return err
		}
		views = [][]record.Record{v}
	} else {
		views, err = c.CreateAll(ctx, jobs)
		if err != nil {
			return err
		}
	}
	if cfg.Diff {
		return writeDiffs(cfg, cc.Out, jobs, prevs, views)
	}
	out := make([]any, len(views))
	for i, v := range views {
		out[i] = v
	}
	return cfg.write(cc.Out, out...)
}

func writeDiffs(cfg *CreateConfig, w io.Writer, jobs []view.Job, prevs []any, views [][]record.Record) error {
	colors := cfg.colors(w)
	for i, j := range jobs {
		d, err := libdiff.Values(prevs[i], views[i], colors)
		if err != nil {
			return err
		}
		if d == "" {
			fmt.Fprintf(w, "%s: unchanged\n", j.Name)
			continue
		}
		fmt.Fprintf(w, "--- %s\n%s", j.Name, d)
	}
	return nil
}

// interruptible returns a context canceled on SIGINT or SIGTERM.
func interruptible(w io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintf(w, "\nShutting down...\n")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
