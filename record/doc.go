// Package record provides the value model shared by the store, the
// predicate library and the view composer.
//
// A [Record] is a string keyed mapping whose values are canonical JSON
// values: map[string]any, []any, float64, string, bool and nil. Values
// decoded from YAML or built by hand in Go are brought into this form by
// [Normalize] so that equality and encoding behave the same whatever the
// source of the data.
package record
