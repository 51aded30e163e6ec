package prompts

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/pkg/handlers"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/pagination"
	"github.com/JaimeStill/lawfinder/pkg/routes"
)

// Handler serves prompt overrides and the effective prompt of each stage.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the prompt route group.
func (h *Handler) Routes() routes.Group {
	idParam := []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")}
	stageParam := []*openapi.Parameter{openapi.PathParam("stage", "Oracle stage: rank or align")}
	written := map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prompt", "Prompt"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
		422: {Description: "Instructions conflict with the stage response contract"},
	}

	return routes.Group{
		Prefix: "/prompts",
		Tags:   []string{"Prompts"},
		Routes: []routes.Route{
			{
				Method: "GET", Pattern: "/stages", Handler: h.Views,
				OpenAPI: &openapi.Operation{
					Summary:   "Effective prompt of every oracle stage",
					Responses: map[int]*openapi.Response{200: {Description: "Stage views"}},
				},
			},
			{
				Method: "GET", Pattern: "/stages/{stage}", Handler: h.View,
				OpenAPI: &openapi.Operation{
					Summary:    "Effective prompt of one oracle stage",
					Parameters: stageParam,
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("StageView", "StageView"),
						400: openapi.ResponseRef("BadRequest"),
					},
				},
			},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.withID(h.find)},
			{
				Method: "POST", Pattern: "", Handler: h.Create,
				OpenAPI: &openapi.Operation{
					Summary:     "Store an instruction override",
					RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
					Responses:   written,
				},
			},
			{
				Method: "PUT", Pattern: "/{id}", Handler: h.withID(h.update),
				OpenAPI: &openapi.Operation{
					Summary:     "Replace an instruction override",
					Parameters:  idParam,
					RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
					Responses:   written,
				},
			},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.withID(h.delete)},
			{
				Method: "POST", Pattern: "/{id}/activate", Handler: h.withID(h.activate),
				OpenAPI: &openapi.Operation{
					Summary:    "Make an override the active instructions of its stage",
					Parameters: idParam,
					Responses:  written,
				},
			},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.withID(h.deactivate)},
		},
	}
}

// Views returns the effective prompt of every stage.
func (h *Handler) Views(w http.ResponseWriter, r *http.Request) {
	views, err := h.sys.Views(r.Context())
	h.respond(w, http.StatusOK, views, err)
}

// View returns the effective prompt of the stage in the path.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		h.respond(w, 0, nil, err)
		return
	}

	views, err := h.sys.Views(r.Context())
	if err != nil {
		h.respond(w, 0, nil, err)
		return
	}
	for _, v := range views {
		if v.Stage == stage {
			handlers.RespondJSON(w, http.StatusOK, v)
			return
		}
	}
	h.respond(w, 0, nil, ErrInvalidStage)
}

// List pages through overrides filtered by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		h.respond(w, 0, nil, err)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.List(r.Context(), page, filters)
	h.respond(w, http.StatusOK, result, err)
}

// Search pages through overrides using a JSON body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	h.respond(w, http.StatusOK, result, err)
}

// Create stores a new override.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.decode(w, r)
	if !ok {
		return
	}
	p, err := h.sys.Create(r.Context(), cmd)
	h.respond(w, http.StatusCreated, p, err)
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.sys.Find(r.Context(), id)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	cmd, ok := h.decode(w, r)
	if !ok {
		return
	}
	p, err := h.sys.Update(r.Context(), id, cmd)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.respond(w, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.sys.Activate(r.Context(), id)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.sys.Deactivate(r.Context(), id)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) withID(next func(http.ResponseWriter, *http.Request, uuid.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
			return
		}
		next(w, r, id)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Command, bool) {
	var cmd Command
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return Command{}, false
	}
	return cmd, true
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, status, body)
}
