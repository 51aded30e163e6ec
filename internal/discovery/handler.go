package discovery

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lawfinder/pkg/handlers"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/routes"
)

// Handler provides HTTP endpoints for source discovery.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "discovery"),
	}
}

// Routes returns the route group for discovery endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sources",
		Tags:   []string{"Sources"},
		Routes: []routes.Route{
			{
				Method: "POST", Pattern: "/discover", Handler: h.Discover,
				OpenAPI: &openapi.Operation{
					Summary:     "Discover and rank legal sources for a feature",
					RequestBody: openapi.RequestBodyJSON("DiscoverRequest", true),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Ranked sources", "DiscoverResult"),
						400: openapi.ResponseRef("BadRequest"),
						503: openapi.ResponseRef("Unavailable"),
					},
				},
			},
		},
	}
}

// Discover runs a discovery request.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	result, err := h.sys.Discover(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
