package view

import (
	"fmt"
	"math"
	"sort"

	"github.com/signadot/viewd/record"
)

// Validate checks the shape of a decoded description without keeping
// the result.
func Validate(v any) error {
	_, err := Parse(v)
	return err
}

// Parse validates a decoded description (as produced by a JSON or YAML
// decoder) and returns its typed form.  All violations are reported
// together in a *ValidationError.
func Parse(v any) (Description, error) {
	n, err := record.Normalize(v)
	if err != nil {
		return nil, &ValidationError{Violations: []*Violation{
			{Index: -1, Err: fmt.Errorf("%w: %w", ErrSchema, err)},
		}}
	}
	arr, ok := n.([]any)
	if !ok {
		return nil, &ValidationError{Violations: []*Violation{{Index: -1, Err: ErrNotArray}}}
	}
	var (
		vs []*Violation
		d  = make(Description, 0, len(arr))
	)
	for i, e := range arr {
		q, errs := parseQuery(e)
		for _, err := range errs {
			vs = append(vs, &Violation{Index: i, Err: err})
		}
		d = append(d, q)
	}
	if len(vs) != 0 {
		return nil, &ValidationError{Violations: vs}
	}
	return d, nil
}

func parseQuery(v any) (*QuerySpec, []error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, []error{ErrQueryType}
	}
	var (
		q    = &QuerySpec{}
		errs []error
	)
	switch p, ok := m[PathKey]; {
	case !ok:
		errs = append(errs, ErrMissingPath)
	default:
		s, ok := p.(string)
		if !ok {
			errs = append(errs, ErrPathType)
			break
		}
		q.Path = s
	}
	if a, ok := m[AliasKey]; ok {
		s, ok := a.(string)
		if ok {
			q.Alias = &s
		} else {
			errs = append(errs, ErrAliasType)
		}
	}
	if f, ok := m[FieldsKey]; ok {
		fields, err := parseFields(f)
		if err != nil {
			errs = append(errs, err)
		}
		q.Fields = fields
	}
	if f, ok := m[FiltersKey]; ok {
		filters, ferrs := parseFilters(f)
		errs = append(errs, ferrs...)
		q.Filters = filters
	}
	return q, errs
}

func parseFields(v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, ErrFieldsType
	}
	res := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, ErrFieldType
		}
		res = append(res, s)
	}
	return res, nil
}

func parseFilters(v any) ([]FilterClause, []error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, []error{ErrFiltersType}
	}
	var (
		res  = make([]FilterClause, 0, len(arr))
		errs []error
	)
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("filter %d: %w", i, ErrClauseType))
			continue
		}
		ops := make([]string, 0, len(m))
		for op := range m {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for _, op := range ops {
			params, err := parseParams(m[op])
			if err != nil {
				errs = append(errs, fmt.Errorf("filter %d %s: %w", i, op, err))
				continue
			}
			res = append(res, FilterClause{Op: op, Params: params})
		}
	}
	return res, errs
}

func parseParams(v any) (Params, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrParamsType
	}
	res := make(Params, len(m))
	for k, e := range m {
		p, err := parseParam(e)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", k, err)
		}
		res[k] = p
	}
	return res, nil
}

// parseParam recognizes a cross reference by the presence of IndexKey.
// Anything else, including objects without it, is a literal.
func parseParam(v any) (Param, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Literal(v), nil
	}
	idx, ok := m[IndexKey]
	if !ok {
		return Literal(v), nil
	}
	f, ok := idx.(float64)
	if !ok || f < 0 || f != math.Trunc(f) {
		return Param{}, ErrRefType
	}
	// past any result count, so it resolves to null.
	f = min(f, math.MaxInt32)
	var field string
	if fv, ok := m[RefFieldKey]; ok {
		field, ok = fv.(string)
		if !ok {
			return Param{}, ErrRefType
		}
	}
	return Ref(int(f), field), nil
}
