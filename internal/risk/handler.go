package risk

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lawfinder/pkg/handlers"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/routes"
)

// Handler provides HTTP endpoints for risk assessment.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "risk"),
	}
}

// Routes returns the route group for risk endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/risk",
		Tags:   []string{"Risk"},
		Routes: []routes.Route{
			{
				Method: "POST", Pattern: "/assess", Handler: h.Assess,
				OpenAPI: &openapi.Operation{
					Summary:     "Assess a feature description against the obligation catalog",
					RequestBody: openapi.RequestBodyJSON("AssessRequest", false),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Risk report", "RiskReport"),
						400: openapi.ResponseRef("BadRequest"),
						503: openapi.ResponseRef("Unavailable"),
					},
				},
			},
			{
				Method: "GET", Pattern: "/obligations", Handler: h.Obligations,
				OpenAPI: &openapi.Operation{
					Summary: "List the obligation catalog",
					Responses: map[int]*openapi.Response{
						200: {Description: "Obligations"},
					},
				},
			},
		},
	}
}

// Assess decodes a Request and returns the risk report.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	report, err := h.sys.Assess(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Obligations returns the catalog's obligations.
func (h *Handler) Obligations(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Catalog().Obligations)
}
