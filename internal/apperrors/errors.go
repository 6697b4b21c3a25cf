// Package apperrors defines the error taxonomy shared by services and
// handlers. Every error crossing the service boundary is an *Error so the
// HTTP layer can map it to a status code without string matching.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// Validation: missing or malformed input.
	Validation Kind = iota + 1
	// Conflict: uniqueness violation or a no-op update.
	Conflict
	// Authorization: actor authenticated but lacks rights over the target.
	Authorization
	// NotFound: referenced entity does not exist. Takes precedence over
	// Authorization when the target itself is absent.
	NotFound
	// State: operation violates the task state machine.
	State
	// Unexpected: persistence or infrastructure failure.
	Unexpected
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to Unexpected for anything
// that did not originate in a service.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// Message returns the client-facing message for err. Unexpected errors get a
// generic message so infrastructure detail never leaks into a response.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Unexpected {
		return e.Message
	}
	return "Server error"
}

// HTTPStatus maps the taxonomy onto status classes: validation, conflict and
// state errors are client errors the caller must fix before resubmitting.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Conflict, State:
		return http.StatusBadRequest
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
