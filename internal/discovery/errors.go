package discovery

import (
	"errors"
	"net/http"
)

// ErrInvalidRequest is returned when a discovery request fails validation.
var ErrInvalidRequest = errors.New("invalid discovery request")

// MapHTTPStatus maps discovery domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
