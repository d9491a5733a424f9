package view

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/signadot/viewd/pred"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store"
)

// Composer creates views in a store.
type Composer struct {
	Store store.Store
	// Preds resolves filter operations; nil means pred.Default().
	Preds *pred.Registry
	// Scope is the store path views are written under; empty means
	// DefaultScope.
	Scope string
	Log   *slog.Logger
}

// Job is one view to create with CreateAll.
type Job struct {
	Name        string
	Description any
}

func (c *Composer) scope() string {
	if c.Scope == "" {
		return DefaultScope
	}
	return c.Scope
}

func (c *Composer) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

type runKey struct{}

// NewRun returns a fresh composition run id.
func NewRun() string {
	return ulid.Make().String()
}

// WithRun returns a context under which compositions log run as their
// run id.
func WithRun(ctx context.Context, run string) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

func runOf(ctx context.Context) string {
	if run, ok := ctx.Value(runKey{}).(string); ok {
		return run
	}
	return NewRun()
}

// PathOf returns the store path of the view called name.
func (c *Composer) PathOf(name string) string {
	return store.Child(c.scope(), name)
}

// Create validates raw, a decoded description, and creates the view
// called name from it.  See CreateDescription.
func (c *Composer) Create(ctx context.Context, name string, raw any) ([]record.Record, error) {
	d, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return c.CreateDescription(ctx, name, d)
}

// CreateDescription runs the queries of d in order, merges their
// outputs and replaces the view called name with the result, which is
// returned.
func (c *Composer) CreateDescription(ctx context.Context, name string, d Description) ([]record.Record, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	for i, q := range d {
		if q == nil {
			return nil, &ValidationError{Violations: []*Violation{{Index: i, Err: ErrQueryType}}}
		}
	}
	log := c.logger().With("view", name, "run", runOf(ctx))
	ex := &executor{store: c.Store, preds: c.Preds, log: log}
	results := NewResults(len(d))
	outputs := make([][]record.Record, len(d))
	for i, q := range d {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := ex.fetch(ctx, i, q, results)
		if err != nil {
			return nil, fmt.Errorf("query %d (%s): %w", i, q.Path, err)
		}
		outputs[i] = out
	}
	view := Merge(outputs)
	path := c.PathOf(name)
	if err := c.Store.Write(ctx, path, view); err != nil {
		return nil, fmt.Errorf("failed to persist view %q: %w", name, err)
	}
	log.Info("composed view", "path", path, "queries", len(d), "records", len(view))
	return view, nil
}

// CreateAll creates several views concurrently.  Each composition keeps
// its own results; the views must have distinct names.  The outputs are
// returned in job order.
func (c *Composer) CreateAll(ctx context.Context, jobs []Job) ([][]record.Record, error) {
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.Name] {
			return nil, fmt.Errorf("%w: %q given twice", ErrBadName, j.Name)
		}
		seen[j.Name] = true
	}
	res := make([][]record.Record, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			v, err := c.Create(gctx, j.Name, j.Description)
			if err != nil {
				return fmt.Errorf("view %q: %w", j.Name, err)
			}
			res[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Get reads back the view called name.
func (c *Composer) Get(ctx context.Context, name string) ([]record.Record, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	return c.Store.Read(ctx, c.PathOf(name))
}

// CheckName checks that name can name a view: a single non empty path
// segment.
func CheckName(name string) error {
	segs, err := store.Split(name)
	if err != nil || len(segs) != 1 || segs[0] != name {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}
