package oracle

import (
	"errors"
	"net/http"
)

// Failure modes of the external oracle. Callers fall back to heuristics on any of them.
var (
	ErrDisabled   = errors.New("oracle disabled")
	ErrRequest    = errors.New("oracle request failed")
	ErrMalformed  = errors.New("oracle response malformed")
	ErrIncomplete = errors.New("oracle response incomplete")
)

// MapHTTPStatus maps oracle errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRequest), errors.Is(err, ErrMalformed), errors.Is(err, ErrIncomplete):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
