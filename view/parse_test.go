package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		desc any
		want error
	}{
		{"object", map[string]any{}, ErrNotArray},
		{"string", "heros", ErrNotArray},
		{"nil", nil, ErrNotArray},
		{"missing path", []any{map[string]any{}}, ErrMissingPath},
		{"alias not a string", []any{map[string]any{"@": "people", "~": true}}, ErrAliasType},
		{"fields not an array", []any{map[string]any{"@": "people", ":": map[string]any{}}}, ErrFieldsType},
		{"filters not an array", []any{map[string]any{"@": "people", "?": map[string]any{}}}, ErrFiltersType},
		{"query not an object", []any{"people"}, ErrQueryType},
		{"path not a string", []any{map[string]any{"@": 1}}, ErrPathType},
		{"field not a string", []any{map[string]any{"@": "people", ":": []any{"name", 1}}}, ErrFieldType},
		{"clause not an object", []any{map[string]any{"@": "people", "?": []any{1}}}, ErrClauseType},
		// a bare field name is not shorthand for a clause.
		{"clause a field name", []any{map[string]any{"@": "people", "?": []any{"name"}}}, ErrClauseType},
		{"params not an object", []any{map[string]any{"@": "people", "?": []any{map[string]any{"where": 1}}}}, ErrParamsType},
		{"negative ref", []any{map[string]any{"@": "people", "?": []any{
			map[string]any{"where": map[string]any{"a": map[string]any{"$": -1, ":": "a"}}},
		}}}, ErrRefType},
		{"fractional ref", []any{map[string]any{"@": "people", "?": []any{
			map[string]any{"where": map[string]any{"a": map[string]any{"$": 0.5}}},
		}}}, ErrRefType},
		{"ref field not a string", []any{map[string]any{"@": "people", "?": []any{
			map[string]any{"where": map[string]any{"a": map[string]any{"$": 0, ":": 3}}},
		}}}, ErrRefType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.desc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateKinds(t *testing.T) {
	if err := Validate(map[string]any{}); !errors.Is(err, ErrSchema) || !strings.Contains(err.Error(), "not an array") {
		t.Errorf("got %v", err)
	}
	if err := Validate([]any{map[string]any{}}); !errors.Is(err, ErrSchema) || !strings.Contains(err.Error(), "missing path") {
		t.Errorf("got %v", err)
	}
	err := Validate([]any{map[string]any{"@": "p", "~": 1}})
	if !errors.Is(err, ErrType) || errors.Is(err, ErrSchema) {
		t.Errorf("got %v", err)
	}
	if !strings.Contains(err.Error(), "alias must be a string") {
		t.Errorf("got %q", err)
	}
}

func TestValidateCollectsAll(t *testing.T) {
	err := Validate([]any{
		map[string]any{"~": 1, ":": "x"},
		map[string]any{"@": "ok"},
		map[string]any{"@": "p", "?": "x"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *ValidationError, got %v", err)
	}
	var got []string
	for _, v := range verr.Violations {
		got = append(got, v.Error())
	}
	want := []string{
		"query 0: schema error: missing path",
		"query 0: type error: alias must be a string",
		"query 0: type error: fields must be an array",
		"query 2: type error: filters must be an array",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	for _, want := range []error{ErrMissingPath, ErrAliasType, ErrFieldsType, ErrFiltersType} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestValidateOK(t *testing.T) {
	for _, desc := range []any{
		[]any{},
		[]any{map[string]any{"@": "people", "~": "users"}},
		[]any{map[string]any{"@": "people", ":": []any{"name"}}},
		[]any{map[string]any{"@": "people", "?": []any{}}},
		[]any{map[string]any{"@": "people", "?": []any{map[string]any{"where": map[string]any{"name": "x"}}}}},
	} {
		if err := Validate(desc); err != nil {
			t.Errorf("Validate(%v): %v", desc, err)
		}
	}
}

func TestParse(t *testing.T) {
	d, err := Parse([]any{
		map[string]any{
			"@": "heros",
			":": []any{"firstname", "born"},
			"?": []any{
				map[string]any{"where": map[string]any{"born": 1787}},
				map[string]any{"sortBy": map[string]any{"by": "born"}, "first": map[string]any{}},
			},
		},
		map[string]any{
			"@": "countries",
			"~": "country",
			"?": []any{
				map[string]any{"where": map[string]any{
					"code":  map[string]any{"$": 0, ":": "countryCode"},
					"other": map[string]any{"k": "v"},
					"list":  []any{1},
				}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	alias := "country"
	want := Description{
		{
			Path:   "heros",
			Fields: []string{"firstname", "born"},
			Filters: []FilterClause{
				{Op: "where", Params: Params{"born": Literal(1787.0)}},
				{Op: "first", Params: Params{}},
				{Op: "sortBy", Params: Params{"by": Literal("born")}},
			},
		},
		{
			Path:  "countries",
			Alias: &alias,
			Filters: []FilterClause{
				{Op: "where", Params: Params{
					"code":  Ref(0, "countryCode"),
					"other": Literal(map[string]any{"k": "v"}),
					"list":  Literal([]any{1.0}),
				}},
			},
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	again, err := Parse(d.Raw())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d, again); diff != "" {
		t.Errorf("Raw round trip (-want +got):\n%s", diff)
	}
}

func TestParseLargeRefIndex(t *testing.T) {
	d, err := Parse([]any{
		map[string]any{"@": "heros"},
		map[string]any{"@": "countries", "?": []any{
			map[string]any{"where": map[string]any{"code": map[string]any{"$": 3e9, ":": "countryCode"}}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := Compile(d[1].Filters, kingResults())
	want := []FilterClause{{Op: "where", Params: Params{"code": Literal(nil)}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseEmptyFields(t *testing.T) {
	d, err := Parse([]any{map[string]any{"@": "p", ":": []any{}}})
	if err != nil {
		t.Fatal(err)
	}
	if d[0].Fields == nil || len(d[0].Fields) != 0 {
		t.Errorf("expected empty, non nil fields, got %#v", d[0].Fields)
	}
	if d[0].Filters != nil {
		t.Errorf("expected nil filters, got %#v", d[0].Filters)
	}
}
