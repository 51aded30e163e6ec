package index

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lawfinder/pkg/handlers"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/routes"
	"github.com/JaimeStill/lawfinder/pkg/storage"
)

// Handler provides HTTP endpoints for stored indices.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxListSize int32
}

// NewHandler creates a Handler. A zero maxListSize falls back to 50.
func NewHandler(sys System, logger *slog.Logger, maxListSize int32) *Handler {
	if maxListSize <= 0 {
		maxListSize = 50
	}
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "indices"),
		maxListSize: maxListSize,
	}
}

// Routes returns the route group for index endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/indices",
		Tags:   []string{"Indices"},
		Routes: []routes.Route{
			{
				Method: "GET", Pattern: "", Handler: h.List,
				OpenAPI: &openapi.Operation{
					Summary: "List stored index manifests",
					Parameters: []*openapi.Parameter{
						{Name: "marker", In: "query", Schema: &openapi.Schema{Type: "string"}},
						{Name: "max_results", In: "query", Schema: &openapi.Schema{Type: "integer"}},
					},
					Responses: map[int]*openapi.Response{
						200: {Description: "Manifest blobs"},
						400: openapi.ResponseRef("BadRequest"),
					},
				},
			},
			{
				Method: "GET", Pattern: "/{id}", Handler: h.Find,
				OpenAPI: &openapi.Operation{
					Summary:    "Retrieve an index and its chunks",
					Parameters: []*openapi.Parameter{openapi.StringPathParam("id", "Index identifier")},
					Responses: map[int]*openapi.Response{
						200: {Description: "Index"},
						400: openapi.ResponseRef("BadRequest"),
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

// List returns one page of stored index manifests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	maxResults, err := storage.ParseMaxResults(r.URL.Query().Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), r.URL.Query().Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns an index by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	idx, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, idx)
}
