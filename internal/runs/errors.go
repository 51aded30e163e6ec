package runs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lawfinder/internal/discovery"
)

// Domain errors for feature runs.
var (
	ErrNotFound       = errors.New("run not found")
	ErrDuplicate      = errors.New("run already exists")
	ErrInvalidCommand = errors.New("title and description are required")
)

// MapHTTPStatus maps run domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, discovery.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
