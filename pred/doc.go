// Package pred provides the predicate library used by view filters.
//
// A filter clause names an operation and gives it a parameter object:
//
//	?:
//	- where: {born: 1913}
//	- sortBy: {by: lastname, order: desc}
//	- first: {n: 2}
//
// Clauses run as a pipeline, each operation receiving the records the
// previous one produced.  Operations are looked up by name in a
// [Registry]; [Default] returns a registry holding the builtins:
//
//   - where, findWhere, reject: field equality against every param
//   - sortBy: stable sort on a field
//   - first, last, rest: slicing
//   - uniq: first record per distinct field value
//   - filter: an expr-lang boolean expression evaluated per record
//   - patch: JSON merge patch and JSON patch applied to every record
//
// Looking up a name which is not registered fails with [ErrUnknownOp].
package pred
