package pred

import (
	"github.com/signadot/viewd/record"
)

// Matches reports whether r has every field of attrs with an equal
// value.  A null attribute only matches a field explicitly holding null.
func Matches(r record.Record, attrs map[string]any) bool {
	for k, want := range attrs {
		got, ok := r[k]
		if !ok || !record.Equal(got, want) {
			return false
		}
	}
	return true
}

func Where() Op {
	return Func("where", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		res := make([]record.Record, 0, len(recs))
		for _, r := range recs {
			if Matches(r, params) {
				res = append(res, r)
			}
		}
		return res, nil
	})
}

func FindWhere() Op {
	return Func("findWhere", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		for _, r := range recs {
			if Matches(r, params) {
				return []record.Record{r}, nil
			}
		}
		return []record.Record{}, nil
	})
}

func Reject() Op {
	return Func("reject", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		res := make([]record.Record, 0, len(recs))
		for _, r := range recs {
			if !Matches(r, params) {
				res = append(res, r)
			}
		}
		return res, nil
	})
}
