package greeting

import (
	"errors"
	"net/http"
)

// StatusError is an error that carries the HTTP status it should be reported with
type StatusError struct {
	status  int
	message string
}

func (e *StatusError) Error() string {
	return e.message
}

// StatusCode implements the status coder used by the HTTP transport
func (e *StatusError) StatusCode() int {
	return e.status
}

var (
	// Lookup errors
	ErrUserNotFound = &StatusError{status: http.StatusNotFound, message: "User not found"}
	ErrMalformedID  = &StatusError{status: http.StatusBadRequest, message: "Invalid identifier"}

	// Registration errors
	ErrIdentifierExhausted = errors.New("failed to allocate a unique identifier")
)
