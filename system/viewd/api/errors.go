package api

import (
	"fmt"
)

// Error represents an API error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Violations lists the problems of an invalid description.
	Violations []Violation `json:"violations,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Is matches errors by code, or by message when the target has no code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	if t.Message != "" {
		return e.Message == t.Message
	}
	return false
}

// Common error codes
const (
	ErrCodeInvalidDescription = "invalid_description"
	ErrCodeInvalidName        = "invalid_name"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeUnknownOp          = "unknown_op"
	ErrCodeBadParams          = "bad_params"
	ErrCodeCanceled           = "canceled"
	ErrCodeInternal           = "internal"
)

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}
