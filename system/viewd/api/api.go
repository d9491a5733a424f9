package api

import (
	"github.com/signadot/viewd/record"
)

// Violation is one problem found in a description.  Index is the query
// position, -1 when the problem concerns the whole description.
type Violation struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// CreateResponse answers a PUT of a view.
type CreateResponse struct {
	Name string          `json:"name"`
	View []record.Record `json:"view"`
	// Diff is a line diff from the previous content of the view, empty
	// if it did not change.
	Diff string `json:"diff,omitempty"`
}

// GetResponse answers a GET of a view.
type GetResponse struct {
	Name string          `json:"name"`
	View []record.Record `json:"view"`
}

// ValidateResponse answers a POST to /validate.
type ValidateResponse struct {
	Valid      bool        `json:"valid"`
	Queries    int         `json:"queries"`
	Violations []Violation `json:"violations,omitempty"`
}

// ViewEvent is sent to watchers each time a view is composed.
type ViewEvent struct {
	Name string          `json:"name"`
	Run  string          `json:"run,omitempty"`
	View []record.Record `json:"view"`
}
