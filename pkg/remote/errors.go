package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches API errors with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the content API.
type APIError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("remote returned %d: %s", e.Status, e.Message)
}

// Is reports whether target is ErrNotFound and the status is 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// TransportError is a failure to reach the API or read its response.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
