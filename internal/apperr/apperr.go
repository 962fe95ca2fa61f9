// Package apperr defines the error kinds the HTTP layer maps to status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for bad credentials or a missing token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when the target resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned for duplicate usernames, emails or slugs.
	ErrConflict = errors.New("conflict")
	// ErrInvalidToken is returned for unknown, expired or consumed reset
	// tokens. The three cases are deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInternal marks failures outside storage, such as hashing or token
	// generation. Clients only see a generic message.
	ErrInternal = errors.New("internal error")
)

// Status maps err to an HTTP status code. Unknown errors are treated as
// storage failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
