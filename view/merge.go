package view

import (
	"github.com/signadot/viewd/debug"
	"github.com/signadot/viewd/record"
)

// Merge combines query outputs position by position: record i of the
// first output absorbs the fields of record i of each later output, in
// order, later fields overwriting earlier ones.  Outputs shorter than
// the first leave the remaining records alone and records beyond the
// length of the first output are dropped.  The records of the first
// output are modified and returned.
func Merge(outputs [][]record.Record) []record.Record {
	if len(outputs) == 0 || outputs[0] == nil {
		return []record.Record{}
	}
	base := outputs[0]
	for j, other := range outputs[1:] {
		if debug.Merge() {
			debug.Logf("merge output %d: %d records into %d\n", j+1, len(other), len(base))
		}
		for i, r := range base {
			if i >= len(other) {
				break
			}
			for k, v := range other[i] {
				r[k] = v
			}
		}
	}
	return base
}
