package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Record is one child record of a store collection.
type Record = map[string]any

// Normalize converts v to canonical JSON form.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			res[k] = n
		}
		return res, nil
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", k, err)
			}
			res[fmt.Sprint(k)] = n
		}
		return res, nil
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res[i] = n
		}
		return res, nil
	case []Record:
		res := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res[i] = n
		}
		return res, nil
	}
	// structs, typed slices and maps: go through json.
	d, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize %T: %w", v, err)
	}
	var res any
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// MustNormalize is like Normalize but panics on error.  It is meant
// for literals in tests and fixtures.
func MustNormalize(v any) any {
	n, err := Normalize(v)
	if err != nil {
		panic(err)
	}
	return n
}

// List converts a canonical array into records, skipping elements which
// are not objects.
func List(v any) []Record {
	switch x := v.(type) {
	case []Record:
		return x
	case []any:
		res := make([]Record, 0, len(x))
		for _, e := range x {
			if r, ok := e.(map[string]any); ok {
				res = append(res, r)
			}
		}
		return res
	}
	return nil
}

// Clone returns a deep copy of a canonical value.
func Clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = Clone(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = Clone(e)
		}
		return res
	case []Record:
		return CloneList(x)
	default:
		return x
	}
}

// CloneList deep copies a list of records.  The result is never nil.
func CloneList(recs []Record) []Record {
	res := make([]Record, len(recs))
	for i, r := range recs {
		res[i] = Clone(r).(map[string]any)
	}
	return res
}

// Lookup returns the value of field in r and whether it is present.
func Lookup(r Record, field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[field]
	return v, ok
}

// Equal reports whether a and b are the same value, comparing numbers
// by value regardless of their Go type.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two canonical scalars: nil < bool < number < string.
// Composite values compare equal to each other and after scalars.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 1:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case 2:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 3:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		return 3
	}
	if _, ok := toFloat(v); ok {
		return 2
	}
	return 4
}

// Key returns a comparable key for v, suitable for grouping.
func Key(v any) string {
	if f, ok := toFloat(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return fmt.Sprintf("n:%d", int64(f))
		}
		return fmt.Sprintf("n:%g", f)
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + x
	case bool:
		return fmt.Sprintf("b:%t", x)
	}
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("x:%v", v)
	}
	return "j:" + string(d)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}
