package pred

import (
	"fmt"
	"sort"

	"github.com/signadot/viewd/record"
)

func SortBy() Op {
	return Func("sortBy", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		if err := checkKeys("sortBy", params, "by", "order"); err != nil {
			return nil, err
		}
		by, err := stringParam("sortBy", params, "by", true)
		if err != nil {
			return nil, err
		}
		order, err := stringParam("sortBy", params, "order", false)
		if err != nil {
			return nil, err
		}
		var desc bool
		switch order {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return nil, fmt.Errorf("%w: sortBy order must be asc or desc, got %q", ErrParams, order)
		}
		res := append([]record.Record(nil), recs...)
		sort.SliceStable(res, func(i, j int) bool {
			c := record.Compare(res[i][by], res[j][by])
			if desc {
				return c > 0
			}
			return c < 0
		})
		return res, nil
	})
}

func First() Op {
	return Func("first", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		n, err := sliceCount("first", params)
		if err != nil {
			return nil, err
		}
		return recs[:min(n, len(recs))], nil
	})
}

func Last() Op {
	return Func("last", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		n, err := sliceCount("last", params)
		if err != nil {
			return nil, err
		}
		return recs[len(recs)-min(n, len(recs)):], nil
	})
}

func Rest() Op {
	return Func("rest", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		n, err := sliceCount("rest", params)
		if err != nil {
			return nil, err
		}
		return recs[min(n, len(recs)):], nil
	})
}

func sliceCount(op string, params map[string]any) (int, error) {
	if err := checkKeys(op, params, "n"); err != nil {
		return 0, err
	}
	return countParam(op, params, "n", 1)
}

func Uniq() Op {
	return Func("uniq", func(recs []record.Record, params map[string]any) ([]record.Record, error) {
		if err := checkKeys("uniq", params, "by"); err != nil {
			return nil, err
		}
		by, err := stringParam("uniq", params, "by", true)
		if err != nil {
			return nil, err
		}
		seen := map[string]bool{}
		res := make([]record.Record, 0, len(recs))
		for _, r := range recs {
			k := record.Key(r[by])
			if seen[k] {
				continue
			}
			seen[k] = true
			res = append(res, r)
		}
		return res, nil
	})
}
