package risk

import (
	"errors"
	"net/http"
)

// Domain errors for risk assessment.
var (
	ErrInvalidRequest      = errors.New("invalid assessment request")
	ErrIncompleteAlignment = errors.New("alignments do not cover the catalog")
	ErrInvalidAlignment    = errors.New("alignment has an invalid value")
)

// MapHTTPStatus maps risk domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
