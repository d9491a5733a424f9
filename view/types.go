package view

// Keys of the description DSL.
const (
	PathKey    = "@"
	AliasKey   = "~"
	FieldsKey  = ":"
	FiltersKey = "?"

	// IndexKey and RefFieldKey make up a cross reference object.
	IndexKey    = "$"
	RefFieldKey = ":"
)

// DefaultScope is where views are persisted unless told otherwise.
const DefaultScope = "@views"

// Description is an ordered list of queries.  The order determines both
// the merge order and the indices cross references use.
type Description []*QuerySpec

// QuerySpec is one query of a description.  Nil Fields or Filters mean
// the key was absent; an empty, non nil Fields keeps no field at all.
type QuerySpec struct {
	Path    string
	Alias   *string
	Fields  []string
	Filters []FilterClause
}

// FilterClause applies the predicate operation Op with Params.
type FilterClause struct {
	Op     string
	Params Params
}

// Params are the named parameters of a filter clause.
type Params map[string]Param

// Param is a literal value or, when Ref is set, a cross reference.
type Param struct {
	Value any
	Ref   *CrossRef
}

// CrossRef refers to Field of the first record produced by the query at
// Index of the same description.
type CrossRef struct {
	Index int
	Field string
}

// Literal returns a literal param.
func Literal(v any) Param {
	return Param{Value: v}
}

// Ref returns a cross reference param.
func Ref(index int, field string) Param {
	return Param{Ref: &CrossRef{Index: index, Field: field}}
}

// Values returns the literal values of ps.  Unresolved cross references
// are null.
func (ps Params) Values() map[string]any {
	res := make(map[string]any, len(ps))
	for k, p := range ps {
		if p.Ref != nil {
			res[k] = nil
			continue
		}
		res[k] = p.Value
	}
	return res
}

// HasRefs reports whether any param is a cross reference.
func (ps Params) HasRefs() bool {
	for _, p := range ps {
		if p.Ref != nil {
			return true
		}
	}
	return false
}

// Raw returns p in DSL form.
func (p Param) Raw() any {
	if p.Ref == nil {
		return p.Value
	}
	return map[string]any{IndexKey: float64(p.Ref.Index), RefFieldKey: p.Ref.Field}
}

// Raw returns c in DSL form.
func (c FilterClause) Raw() map[string]any {
	params := make(map[string]any, len(c.Params))
	for k, p := range c.Params {
		params[k] = p.Raw()
	}
	return map[string]any{c.Op: params}
}

// Raw returns q in DSL form.
func (q *QuerySpec) Raw() map[string]any {
	res := map[string]any{PathKey: q.Path}
	if q.Alias != nil {
		res[AliasKey] = *q.Alias
	}
	if q.Fields != nil {
		fields := make([]any, len(q.Fields))
		for i, f := range q.Fields {
			fields[i] = f
		}
		res[FieldsKey] = fields
	}
	if q.Filters != nil {
		res[FiltersKey] = RawFilters(q.Filters)
	}
	return res
}

// RawFilters returns filters in DSL form, one object per clause.
func RawFilters(filters []FilterClause) []any {
	res := make([]any, len(filters))
	for i, c := range filters {
		res[i] = c.Raw()
	}
	return res
}

// Raw returns d in DSL form.  Parse(d.Raw()) yields d.
func (d Description) Raw() []any {
	res := make([]any, len(d))
	for i, q := range d {
		res[i] = q.Raw()
	}
	return res
}
