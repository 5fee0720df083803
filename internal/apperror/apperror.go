// Package apperror defines the error taxonomy surfaced by the domain
// managers. Storage-layer failures are translated into these before they
// reach the HTTP layer; handlers map them to status codes with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)

// Error carries a sentinel for classification plus a human-readable message.
type Error struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel to errors.Is
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that the referenced entity does not exist.
func NotFound(resource, id string) *Error {
	return &Error{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %s does not exist", resource, id),
	}
}

// Forbidden reports that the caller lacks the required relationship
// (owner, author, self) to the target entity.
func Forbidden(message string) *Error {
	return &Error{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{
		Err:     ErrConflict,
		Message: message,
	}
}

// BadRequest reports a malformed request: an empty partial update, an
// invalid reference on create, or an unknown sort field.
func BadRequest(message string) *Error {
	return &Error{
		Err:     ErrBadRequest,
		Message: message,
	}
}
