package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(Validation, "missing field"), http.StatusBadRequest},
		{"conflict", New(Conflict, "duplicate title"), http.StatusBadRequest},
		{"state", New(State, "cannot revert"), http.StatusBadRequest},
		{"authorization", New(Authorization, "not yours"), http.StatusForbidden},
		{"not found", New(NotFound, "no such project"), http.StatusNotFound},
		{"unexpected", New(Unexpected, "db down"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", Wrap(NotFound, "no such task", errors.New("sql: no rows")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessage_HidesUnexpectedDetail(t *testing.T) {
	if got := Message(Wrap(Unexpected, "storage failure", errors.New("dsn secret"))); got != "Server error" {
		t.Errorf("Message() = %q, want generic server error", got)
	}
	if got := Message(New(Conflict, "User already exists")); got != "User already exists" {
		t.Errorf("Message() = %q, want the client-facing text", got)
	}
}
