// Package errs defines the error kinds surfaced by the product store and
// how each one maps onto an HTTP status.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest marks a request body with a missing or mistyped field.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound marks a lookup of an id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a violation of the unique product name constraint.
	ErrConflict = errors.New("conflict")
)

// StatusCode maps an error to the HTTP status reported to the caller.
// Anything that is not one of the client error kinds is an internal error.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether err is a storage or other server-side failure.
func IsInternal(err error) bool {
	return err != nil && StatusCode(err) == http.StatusInternalServerError
}
