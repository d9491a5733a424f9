package pred

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/viewd/record"
)

// Patch rewrites every record.  The "merge" param is applied as an RFC
// 7386 merge patch, then the "ops" param, if any, as an RFC 6902 patch.
func Patch() Op {
	return Func("patch", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		if err := checkKeys("patch", params, "merge", "ops"); err != nil {
			return nil, err
		}
		var (
			merge []byte
			ops   jsonpatch.Patch
		)
		if m, ok := params["merge"]; ok && m != nil {
			if _, isObj := m.(map[string]any); !isObj {
				return nil, fmt.Errorf("%w: patch merge must be an object, got %T", ErrParams, m)
			}
			d, err := json.Marshal(m)
			if err != nil {
				return nil, err
			}
			merge = d
		}
		if o, ok := params["ops"]; ok && o != nil {
			if _, isArr := o.([]any); !isArr {
				return nil, fmt.Errorf("%w: patch ops must be an array, got %T", ErrParams, o)
			}
			d, err := json.Marshal(o)
			if err != nil {
				return nil, err
			}
			ops, err = jsonpatch.DecodePatch(d)
			if err != nil {
				return nil, fmt.Errorf("%w: patch ops: %w", ErrParams, err)
			}
		}
		res := make([]record.Record, 0, len(recs))
		for i, r := range recs {
			p, err := patchRecord(r, merge, ops)
			if err != nil {
				return nil, fmt.Errorf("patch record %d: %w", i, err)
			}
			res = append(res, p)
		}
		return res, nil
	})
}

func patchRecord(r record.Record, merge []byte, ops jsonpatch.Patch) (record.Record, error) {
	d, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if merge != nil {
		d, err = jsonpatch.MergePatch(d, merge)
		if err != nil {
			return nil, err
		}
	}
	if ops != nil {
		d, err = ops.Apply(d)
		if err != nil {
			return nil, err
		}
	}
	var out any
	if err := json.Unmarshal(d, &out); err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("patched record is a %T, not an object", out)
	}
	return m, nil
}
