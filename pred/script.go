package pred

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/record"
)

const paramsVar = "params"

// Filter keeps the records for which the expr-lang expression in the
// "expr" param is true.  Record fields are variables of the expression;
// the remaining params are available under "params", so that
//
//	filter: {expr: "born >= params.since", since: {$: 0, ':': born}}
//
// compares against a cross referenced value.
func Filter() Op {
	return Func("filter", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		src, err := stringParam("filter", params, "expr", true)
		if err != nil {
			return nil, err
		}
		prg, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("%w: filter expr %q: %w", ErrParams, src, err)
		}
		vars := make(map[string]any, len(params))
		for k, v := range params {
			if k != "expr" {
				vars[k] = v
			}
		}
		res := make([]record.Record, 0, len(recs))
		for i, r := range recs {
			ok, err := runBool(prg, r, vars)
			if err != nil {
				return nil, fmt.Errorf("filter expr %q on record %d: %w", src, i, err)
			}
			if debug.Fetch() {
				debug.Logf("filter %q on record %d: %t\n", src, i, ok)
			}
			if ok {
				res = append(res, r)
			}
		}
		return res, nil
	})
}

func runBool(prg *vm.Program, r record.Record, vars map[string]any) (bool, error) {
	env := make(map[string]any, len(r)+1)
	for k, v := range r {
		env[k] = v
	}
	env[paramsVar] = vars
	out, err := expr.Run(prg, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, not bool", out)
	}
	return b, nil
}
