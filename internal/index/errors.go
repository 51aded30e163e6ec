package index

import (
	"errors"
	"net/http"
)

// Domain errors for index operations.
var (
	ErrNotFound  = errors.New("index not found")
	ErrInvalidID = errors.New("invalid index id")
)

// MapHTTPStatus maps index domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
