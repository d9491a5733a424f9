// Package view composes named views out of queries against a
// hierarchical store.
//
// # Descriptions
//
// A view description is an ordered list of queries.  Each query reads
// the collection at a store path and may filter, project and alias it:
//
//	- '@': heros                       # path, required
//	  ':': [firstname, lastname, born] # fields to keep
//	  '?':                             # filters, applied in order
//	  - where: {born: 1787}
//	- '@': countries
//	  '~': country                     # alias
//	  '?':
//	  - where: {code: {'$': 0, ':': countryCode}}
//
// A filter param of the form {'$': index, ':': field} is a cross
// reference: it is replaced by the value of field in the first record
// the query at index produced, after filtering and before projection.
// References which cannot be satisfied resolve to null.
//
// # Composition
//
// [Composer.Create] validates the description, runs the queries one
// after the other, merges their outputs position by position and writes
// the merged list to <scope>/<name> in the store, replacing whatever was
// there.  Queries run sequentially so that a cross reference always sees
// the result of the query it names.
//
// Store read failures are not errors: the query contributes no records.
// Validation errors abort before any I/O and unknown filter operations
// abort before anything is written.
package view
