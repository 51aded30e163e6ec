package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/lawfinder/pkg/openapi"
)

func newSpec(t *testing.T) *openapi.Spec {
	t.Helper()
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return openapi.NewSpec(&cfg, "0.4.0", "/api")
}

func TestNewSpec(t *testing.T) {
	spec := newSpec(t)

	if spec.OpenAPI != openapi.Version {
		t.Errorf("openapi: got %s, want %s", spec.OpenAPI, openapi.Version)
	}
	if spec.Info.Title != "Lawfinder API" || spec.Info.Version != "0.4.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Info.Description == "" {
		t.Error("description should carry the configured default")
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v, want [/api]", spec.Servers)
	}
	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "Unavailable"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("components: missing response %s", name)
		}
	}
}

func TestAdd(t *testing.T) {
	spec := newSpec(t)
	discover := &openapi.Operation{Summary: "Discover sources"}
	update := &openapi.Operation{Summary: "Update prompt"}
	activate := &openapi.Operation{Summary: "Activate prompt"}

	for _, tt := range []struct {
		method, path string
		op           *openapi.Operation
	}{
		{"POST", "/discover", discover},
		{"put", "/prompts/{id}", update},
		{"PATCH", "/prompts/{id}", activate},
	} {
		if err := spec.Add(tt.method, tt.path, tt.op); err != nil {
			t.Fatalf("Add(%s %s): %v", tt.method, tt.path, err)
		}
	}

	if spec.Paths["/discover"].Post != discover {
		t.Error("POST /discover not recorded")
	}
	item := spec.Paths["/prompts/{id}"]
	if item.Put != update || item.Patch != activate || item.Get != nil {
		t.Errorf("prompts item: got %+v", item)
	}
}

func TestAddRejectsUnknownMethod(t *testing.T) {
	spec := newSpec(t)
	if err := spec.Add("OPTIONS", "/risk/assess", &openapi.Operation{}); err == nil {
		t.Fatal("expected error for OPTIONS")
	}
	if _, ok := spec.Paths["/risk/assess"]; ok {
		t.Error("rejected operation should not create a path")
	}
}

func TestHandler(t *testing.T) {
	spec := newSpec(t)
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"RiskReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"level": {Type: "string", Enum: []any{"LOW", "MODERATE", "HIGH", "CRITICAL"}},
			},
		},
	})
	spec.Add("POST", "/risk/assess", &openapi.Operation{
		Summary:     "Assess compliance risk",
		RequestBody: openapi.RequestBodyJSON("RiskRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Risk report", "RiskReport"),
			400: openapi.ResponseRef("BadRequest"),
		},
	})

	serve, err := spec.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}

	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	var doc struct {
		Paths map[string]map[string]struct {
			Responses map[string]struct {
				Ref string `json:"$ref"`
			} `json:"responses"`
		} `json:"paths"`
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	assess := doc.Paths["/risk/assess"]["post"]
	if got := assess.Responses["400"].Ref; got != "#/components/responses/BadRequest" {
		t.Errorf("400 ref: got %q", got)
	}
	if _, ok := doc.Components.Schemas["RiskReport"]; !ok {
		t.Error("added schema missing from document")
	}
	if _, ok := doc.Components.Schemas["PageRequest"]; !ok {
		t.Error("shared schema missing from document")
	}
}

func TestHandlerServesSnapshot(t *testing.T) {
	spec := newSpec(t)
	serve, err := spec.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}

	spec.Add("GET", "/runs", &openapi.Operation{Summary: "late"})

	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc.Paths["/runs"]; ok {
		t.Error("operations added after Handler should not be served")
	}
}

func TestParams(t *testing.T) {
	tests := []struct {
		name     string
		param    *openapi.Parameter
		in       string
		required bool
		format   string
	}{
		{"run id", openapi.PathParam("id", "Run ID"), "path", true, "uuid"},
		{"blob key", openapi.StringPathParam("key", "Chunk blob key"), "path", true, ""},
		{"stage filter", openapi.QueryParam("stage", "string", "rank or align", false), "query", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.param.In != tt.in || tt.param.Required != tt.required {
				t.Errorf("in/required: got %s/%v, want %s/%v", tt.param.In, tt.param.Required, tt.in, tt.required)
			}
			if tt.param.Schema.Format != tt.format {
				t.Errorf("format: got %q, want %q", tt.param.Schema.Format, tt.format)
			}
		})
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("LAWFINDER_TEST_OPENAPI_TITLE", "Lawfinder Staging")

	cfg := openapi.Config{Description: "from file"}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "LAWFINDER_TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Lawfinder Staging" {
		t.Errorf("title: got %s, want Lawfinder Staging", cfg.Title)
	}
	if cfg.Description != "from file" {
		t.Errorf("description: got %s, want from file", cfg.Description)
	}

	cfg.Merge(&openapi.Config{Description: "overlay"})
	if cfg.Title != "Lawfinder Staging" || cfg.Description != "overlay" {
		t.Errorf("merge: got %+v", cfg)
	}
}
