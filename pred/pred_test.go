package pred

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/viewd/record"
)

func heros() []record.Record {
	return record.List(record.MustNormalize([]any{
		map[string]any{"firstname": "Rosa", "lastname": "Parks", "born": 1913},
		map[string]any{"firstname": "Rosa Louise", "lastname": "McCauley Parks", "born": 1913},
		map[string]any{"firstname": "Martin Luther", "lastname": "King Jr.", "born": 1929},
		map[string]any{"firstname": "George", "lastname": "Washington", "born": 1732},
		map[string]any{"firstname": "William", "lastname": "Shakespeare", "born": 1564},
	}))
}

func firstnames(recs []record.Record) []string {
	res := []string{}
	for _, r := range recs {
		res = append(res, r["firstname"].(string))
	}
	return res
}

func apply(t *testing.T, name string, recs []record.Record, params map[string]any) []record.Record {
	t.Helper()
	op, err := Default().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	out, err := op.Apply(recs, params)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}

func TestOps(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		params map[string]any
		want   []string
	}{
		{"where", "where", map[string]any{"born": 1913}, []string{"Rosa", "Rosa Louise"}},
		{"where int vs float", "where", map[string]any{"born": 1913.0, "lastname": "Parks"}, []string{"Rosa"}},
		{"where null", "where", map[string]any{"born": nil}, []string{}},
		{"where empty", "where", map[string]any{}, []string{"Rosa", "Rosa Louise", "Martin Luther", "George", "William"}},
		{"findWhere", "findWhere", map[string]any{"born": 1913}, []string{"Rosa"}},
		{"findWhere none", "findWhere", map[string]any{"born": 2000}, []string{}},
		{"reject", "reject", map[string]any{"born": 1913}, []string{"Martin Luther", "George", "William"}},
		{"sortBy", "sortBy", map[string]any{"by": "born"}, []string{"William", "George", "Rosa", "Rosa Louise", "Martin Luther"}},
		{"sortBy desc", "sortBy", map[string]any{"by": "born", "order": "desc"}, []string{"Martin Luther", "Rosa", "Rosa Louise", "George", "William"}},
		{"first", "first", map[string]any{}, []string{"Rosa"}},
		{"first n", "first", map[string]any{"n": 2.0}, []string{"Rosa", "Rosa Louise"}},
		{"first many", "first", map[string]any{"n": 10.0}, []string{"Rosa", "Rosa Louise", "Martin Luther", "George", "William"}},
		{"last", "last", map[string]any{"n": 2.0}, []string{"George", "William"}},
		{"rest", "rest", map[string]any{"n": 3.0}, []string{"George", "William"}},
		{"rest all", "rest", map[string]any{"n": 9.0}, []string{}},
		{"uniq", "uniq", map[string]any{"by": "born"}, []string{"Rosa", "Martin Luther", "George", "William"}},
		{"filter", "filter", map[string]any{"expr": "born > 1900 && lastname != 'Parks'"}, []string{"Rosa Louise", "Martin Luther"}},
		{"filter params", "filter", map[string]any{"expr": "born < params.before", "before": 1800.0}, []string{"George", "William"}},
		{"filter undefined", "filter", map[string]any{"expr": "died == nil"}, []string{"Rosa", "Rosa Louise", "Martin Luther", "George", "William"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firstnames(apply(t, tt.op, heros(), tt.params))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestBadParams(t *testing.T) {
	tests := []struct {
		op     string
		params map[string]any
	}{
		{"sortBy", map[string]any{}},
		{"sortBy", map[string]any{"by": 1.0}},
		{"sortBy", map[string]any{"by": "born", "order": "up"}},
		{"first", map[string]any{"n": -1.0}},
		{"first", map[string]any{"n": 1.5}},
		{"first", map[string]any{"n": 1e19}},
		{"last", map[string]any{"n": 1e19}},
		{"rest", map[string]any{"n": 1e19}},
		{"last", map[string]any{"n": float64(math.MaxInt32) + 1}},
		{"rest", map[string]any{"count": 1.0}},
		{"uniq", map[string]any{}},
		{"filter", map[string]any{}},
		{"filter", map[string]any{"expr": "born >"}},
		{"patch", map[string]any{"merge": "x"}},
		{"patch", map[string]any{"ops": []any{map[string]any{"op": "nope"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			op, err := Default().Lookup(tt.op)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := op.Apply(heros(), tt.params); err == nil {
				t.Errorf("%s(%v): expected an error", tt.op, tt.params)
			}
		})
	}
}

func TestFilterNotBool(t *testing.T) {
	op, _ := Default().Lookup("filter")
	if _, err := op.Apply(heros(), map[string]any{"expr": "born"}); err == nil {
		t.Error("expected an error for a non boolean expression")
	}
}

func TestPatch(t *testing.T) {
	recs := record.List(record.MustNormalize([]any{
		map[string]any{"code": "sa", "name": "South Africa", "tmp": 1},
	}))
	got := apply(t, "patch", recs, map[string]any{
		"merge": map[string]any{"tmp": nil, "region": "africa"},
		"ops": []any{
			map[string]any{"op": "replace", "path": "/code", "value": "za"},
		},
	})
	want := []record.Record{{"code": "za", "name": "South Africa", "region": "africa"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, ok := recs[0]["region"]; ok {
		t.Error("patch modified its input")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrBadOp) {
		t.Errorf("nil op: got %v", err)
	}
	if err := r.Register(Func("", nil)); !errors.Is(err, ErrBadOp) {
		t.Errorf("empty name: got %v", err)
	}
	if err := r.Register(Where()); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Where()); !errors.Is(err, ErrOpExists) {
		t.Errorf("duplicate: got %v", err)
	}
	if _, err := r.Lookup("max"); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("unknown: got %v", err)
	}
	if diff := cmp.Diff([]string{"where"}, r.Names()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	want := []string{"filter", "findWhere", "first", "last", "patch", "reject", "rest", "sortBy", "uniq", "where"}
	if diff := cmp.Diff(want, Default().Names()); diff != "" {
		t.Errorf("builtins (-want +got):\n%s", diff)
	}
}
