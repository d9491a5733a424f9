package view

import (
	"errors"
	"fmt"

	"github.com/signadot/viewd/record"
)

// ErrOutOfOrder is returned when a result set is stored before the
// result sets of all earlier queries.
var ErrOutOfOrder = errors.New("result set out of order")

// Results accumulates the raw (filtered, unprojected) result set of each
// query of one composition.  Slot i may only be filled once slots 0..i-1
// are, so that cross references always see earlier results.  A Results
// belongs to a single composition and is not safe for concurrent use.
type Results struct {
	slots [][]record.Record
	n     int
}

// NewResults returns an accumulator with room for size result sets.
func NewResults(size int) *Results {
	return &Results{slots: make([][]record.Record, size)}
}

// Len returns the number of result sets stored.
func (r *Results) Len() int {
	return r.n
}

// Put stores recs in slot i, which must be the next unfilled one.
func (r *Results) Put(i int, recs []record.Record) error {
	if i != r.n {
		return fmt.Errorf("%w: slot %d, next is %d", ErrOutOfOrder, i, r.n)
	}
	if recs == nil {
		recs = []record.Record{}
	}
	if i < len(r.slots) {
		r.slots[i] = recs
	} else {
		r.slots = append(r.slots, recs)
	}
	r.n++
	return nil
}

// Push stores recs in the next slot.
func (r *Results) Push(recs []record.Record) {
	_ = r.Put(r.n, recs)
}

// At returns the result set in slot i if it is filled.
func (r *Results) At(i int) ([]record.Record, bool) {
	if i < 0 || i >= r.n {
		return nil, false
	}
	return r.slots[i], true
}

// Resolve returns the value ref designates.  The second result is false
// when the result set is not there, is empty, or its first record lacks
// the field.
func (r *Results) Resolve(ref CrossRef) (any, bool) {
	recs, ok := r.At(ref.Index)
	if !ok || len(recs) == 0 {
		return nil, false
	}
	return record.Lookup(recs[0], ref.Field)
}
