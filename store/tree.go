package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/signadot/viewd/record"
)

// Leaves maps leaf keys (joined paths) to scalar values.
type Leaves map[string]any

// Flatten normalizes v and returns its leaves placed under segs.
func Flatten(segs []string, v any) (Leaves, error) {
	n, err := record.Normalize(v)
	if err != nil {
		return nil, err
	}
	res := Leaves{}
	if err := flatten(res, append([]string(nil), segs...), n); err != nil {
		return nil, err
	}
	return res, nil
}

func flatten(dst Leaves, segs []string, v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, e := range x {
			if err := checkSegment(k); err != nil {
				return fmt.Errorf("%w: key in %q: %w", ErrBadPath, Join(segs...), err)
			}
			if err := flatten(dst, append(segs, k), e); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, e := range x {
			if err := flatten(dst, append(segs, strconv.Itoa(i)), e); err != nil {
				return err
			}
		}
		return nil
	default:
		dst[Join(segs...)] = x
		return nil
	}
}

// Within reports whether leaf key lies at or below the node at key.
func Within(leaf, key string) bool {
	if key == "" {
		return true
	}
	return leaf == key || strings.HasPrefix(leaf, key+"/")
}

// Ancestors returns the keys of the strict ancestors of segs, root
// included.  A write below a scalar leaf removes that leaf.
func Ancestors(segs []string) []string {
	res := make([]string, 0, len(segs))
	for i := 0; i < len(segs); i++ {
		res = append(res, Join(segs[:i]...))
	}
	return res
}

// Build reconstructs the value stored at segs from leaves.  Leaves
// outside segs are ignored.  The second result is false when nothing is
// stored at segs.
func Build(segs []string, leaves Leaves) (any, bool) {
	key := Join(segs...)
	if v, ok := leaves[key]; ok {
		return v, true
	}
	var (
		root  map[string]any
		found bool
	)
	for leaf, v := range leaves {
		if !Within(leaf, key) {
			continue
		}
		rel := leaf
		if key != "" {
			rel = leaf[len(key)+1:]
		}
		if root == nil {
			root = map[string]any{}
		}
		insert(root, strings.Split(rel, "/"), v)
		found = true
	}
	if !found {
		return nil, false
	}
	return arrayify(root), true
}

func insert(m map[string]any, segs []string, v any) {
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = v
}

// arrayify turns objects whose keys are mostly dense indices back into
// arrays, recursively.  Missing indices become null.
func arrayify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, e := range m {
		m[k] = arrayify(e)
	}
	hi := -1
	for k := range m {
		i, ok := index(k)
		if !ok {
			return m
		}
		if i > hi {
			hi = i
		}
	}
	if hi < 0 || len(m)*2 <= hi {
		return m
	}
	arr := make([]any, hi+1)
	for k, e := range m {
		i, _ := index(k)
		arr[i] = e
	}
	return arr
}

func index(k string) (int, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(k)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Collection returns the ordered object children of a built value.
func Collection(v any) ([]record.Record, error) {
	switch x := v.(type) {
	case []any:
		return record.List(x), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return KeyLess(keys[i], keys[j])
		})
		res := make([]record.Record, 0, len(keys))
		for _, k := range keys {
			if r, ok := x[k].(map[string]any); ok {
				res = append(res, r)
			}
		}
		return res, nil
	}
	return nil, ErrNotCollection
}

// KeyLess orders child keys: integers first by value, then strings.
func KeyLess(a, b string) bool {
	ia, aok := index(a)
	ib, bok := index(b)
	switch {
	case aok && bok:
		return ia < ib
	case aok:
		return true
	case bok:
		return false
	}
	return a < b
}

// ReadLeaves implements Store.Read semantics over a leaf set.
func ReadLeaves(segs []string, leaves Leaves) ([]record.Record, error) {
	v, ok := Build(segs, leaves)
	if !ok {
		return nil, fmt.Errorf("%q: %w", Join(segs...), ErrNotFound)
	}
	recs, err := Collection(v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", Join(segs...), err)
	}
	return recs, nil
}
