package view

import (
	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/record"
)

// Compile replaces the cross references in filters by the values they
// designate in results.  References which cannot be resolved become
// null.  Clause order is kept, and clauses without references are
// returned as they are.
func Compile(filters []FilterClause, results *Results) []FilterClause {
	res := make([]FilterClause, 0, len(filters))
	for _, c := range filters {
		if !c.Params.HasRefs() {
			res = append(res, c)
			continue
		}
		params := make(Params, len(c.Params))
		for k, p := range c.Params {
			if p.Ref == nil {
				params[k] = p
				continue
			}
			v, ok := results.Resolve(*p.Ref)
			if debug.Compile() {
				debug.Logf("compile %s.%s: ref %d:%s -> %v (resolved %t)\n", c.Op, k, p.Ref.Index, p.Ref.Field, v, ok)
			}
			if !ok {
				params[k] = Literal(nil)
				continue
			}
			params[k] = Literal(record.Clone(v))
		}
		res = append(res, FilterClause{Op: c.Op, Params: params})
	}
	return res
}
