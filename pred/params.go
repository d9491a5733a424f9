package pred

import (
	"fmt"
	"math"
)

func stringParam(op string, params map[string]any, key string, required bool) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%w: %s requires %q", ErrParams, op, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s %q must be a string, got %T", ErrParams, op, key, v)
	}
	return s, nil
}

func countParam(op string, params map[string]any, key string, dflt int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return dflt, nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, fmt.Errorf("%w: %s %q must be a number, got %T", ErrParams, op, key, v)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s %q must be a non-negative integer, got %v", ErrParams, op, key, v)
	}
	if f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %q is too large, got %v", ErrParams, op, key, v)
	}
	return int(f), nil
}

func checkKeys(op string, params map[string]any, allowed ...string) error {
outer:
	for k := range params {
		for _, a := range allowed {
			if k == a {
				continue outer
			}
		}
		return fmt.Errorf("%w: %s does not take %q", ErrParams, op, k)
	}
	return nil
}
