package view

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/pred"
	"github.com/signadot/viewd/record"
	"github.com/signadot/viewd/store"
)

// Fetch runs q against st and appends its raw result set to results.
// Read failures yield an empty list.  The returned error is non nil only
// when a filter operation fails, is unknown, or ctx is done.
//
// Without an alias the result is the list of (filtered, projected)
// records.  With one it is a single record holding the list under the
// alias, or the sole record if there is exactly one.
func Fetch(ctx context.Context, st store.Store, q *QuerySpec, results *Results, preds *pred.Registry) ([]record.Record, error) {
	ex := &executor{store: st, preds: preds, log: slog.Default()}
	return ex.fetch(ctx, results.Len(), q, results)
}

type executor struct {
	store store.Store
	preds *pred.Registry
	log   *slog.Logger
}

func (ex *executor) fetch(ctx context.Context, i int, q *QuerySpec, results *Results) ([]record.Record, error) {
	recs, err := ex.read(ctx, q.Path)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		if err := results.Put(i, []record.Record{}); err != nil {
			return nil, err
		}
		return shape(q, []record.Record{}), nil
	}
	if q.Filters != nil {
		recs, err = ex.filter(recs, Compile(q.Filters, results))
		if err != nil {
			return nil, err
		}
	}
	if err := results.Put(i, record.CloneList(recs)); err != nil {
		return nil, err
	}
	if q.Fields != nil {
		project(recs, q.Fields)
	}
	if debug.Fetch() {
		debug.Logf("fetch %d %q: %d records\n", i, q.Path, len(recs))
	}
	return shape(q, recs), nil
}

// read degrades every store failure to an empty collection, except the
// cancellation of ctx.
func (ex *executor) read(ctx context.Context, path string) ([]record.Record, error) {
	recs, err := ex.store.Read(ctx, path)
	if err == nil {
		return recs, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	ex.log.Debug("read failed, using empty result", "path", path, "error", err)
	return nil, nil
}

func (ex *executor) filter(recs []record.Record, filters []FilterClause) ([]record.Record, error) {
	preds := ex.preds
	if preds == nil {
		preds = pred.Default()
	}
	for _, c := range filters {
		op, err := preds.Lookup(c.Op)
		if err != nil {
			return nil, err
		}
		recs, err = op.Apply(recs, c.Params.Values())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Op, err)
		}
		if recs == nil {
			recs = []record.Record{}
		}
	}
	return recs, nil
}

// project removes, in place, the fields of each record not in fields.
func project(recs []record.Record, fields []string) {
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	for _, r := range recs {
		for k := range r {
			if !keep[k] {
				delete(r, k)
			}
		}
	}
}

func shape(q *QuerySpec, recs []record.Record) []record.Record {
	if q.Alias == nil {
		return recs
	}
	var v any
	if len(recs) == 1 {
		v = recs[0]
	} else {
		list := make([]any, len(recs))
		for i, r := range recs {
			list[i] = r
		}
		v = list
	}
	return []record.Record{{*q.Alias: v}}
}
