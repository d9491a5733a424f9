package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signadot/viewd/pred"
	"github.com/signadot/viewd/system/viewd/api"
	"github.com/signadot/viewd/view"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, e *api.Error) {
	writeJSON(w, status, e)
}

// violations lists the problems err reports about a description.
func violations(err error) []api.Violation {
	var ve *view.ValidationError
	if !errors.As(err, &ve) {
		return []api.Violation{{Index: -1, Message: err.Error()}}
	}
	res := make([]api.Violation, len(ve.Violations))
	for i, v := range ve.Violations {
		res[i] = api.Violation{Index: v.Index, Message: v.Err.Error()}
	}
	return res
}

// composeError maps a composition failure to a status and an api.Error.
func composeError(err error) (int, *api.Error) {
	var ve *view.ValidationError
	switch {
	case errors.As(err, &ve):
		e := api.NewError(api.ErrCodeInvalidDescription, err.Error())
		e.Violations = violations(err)
		return http.StatusBadRequest, e
	case errors.Is(err, view.ErrBadName):
		return http.StatusBadRequest, api.NewError(api.ErrCodeInvalidName, err.Error())
	case errors.Is(err, pred.ErrUnknownOp):
		return http.StatusUnprocessableEntity, api.NewError(api.ErrCodeUnknownOp, err.Error())
	case errors.Is(err, pred.ErrParams):
		return http.StatusUnprocessableEntity, api.NewError(api.ErrCodeBadParams, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, api.NewError(api.ErrCodeCanceled, err.Error())
	}
	return http.StatusInternalServerError, api.NewError(api.ErrCodeInternal, err.Error())
}
