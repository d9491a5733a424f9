package view

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema = errors.New("schema error")
	ErrType   = errors.New("type error")
)

var (
	ErrNotArray    = fmt.Errorf("%w: not an array", ErrSchema)
	ErrMissingPath = fmt.Errorf("%w: missing path", ErrSchema)

	ErrAliasType   = fmt.Errorf("%w: alias must be a string", ErrType)
	ErrFieldsType  = fmt.Errorf("%w: fields must be an array", ErrType)
	ErrFiltersType = fmt.Errorf("%w: filters must be an array", ErrType)
	ErrQueryType   = fmt.Errorf("%w: query must be an object", ErrType)
	ErrPathType    = fmt.Errorf("%w: path must be a string", ErrType)
	ErrFieldType   = fmt.Errorf("%w: field names must be strings", ErrType)
	ErrClauseType  = fmt.Errorf("%w: filter clause must be an object", ErrType)
	ErrParamsType  = fmt.Errorf("%w: filter params must be an object", ErrType)
	ErrRefType     = fmt.Errorf("%w: cross reference must have a non-negative integer index and a string field", ErrType)
)

// ErrBadName is returned for view names which are not a single path
// segment.
var ErrBadName = errors.New("bad view name")

// Violation is one problem found in a description.  Index is the
// position of the offending query, or -1 for the description itself.
type Violation struct {
	Index int
	Err   error
}

func (v *Violation) Error() string {
	if v.Index < 0 {
		return v.Err.Error()
	}
	return fmt.Sprintf("query %d: %s", v.Index, v.Err)
}

func (v *Violation) Unwrap() error { return v.Err }

// ValidationError lists every violation found in a description.
type ValidationError struct {
	Violations []*Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].Error()
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Error()
	}
	return fmt.Sprintf("%d violations: %s", len(parts), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	res := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		res[i] = v
	}
	return res
}
