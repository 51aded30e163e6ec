// Package openapi assembles the OpenAPI 3.1 document served beside the API.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const Version = "3.1.0"

// Spec is the root OpenAPI document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec starts a document from cfg with the shared components registered.
// Each server entry is a base URL or path the operations are relative to.
func NewSpec(cfg *Config, version string, servers ...string) *Spec {
	spec := &Spec{
		OpenAPI: Version,
		Info: &Info{
			Title:       cfg.Title,
			Version:     version,
			Description: cfg.Description,
		},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
	for _, url := range servers {
		spec.Servers = append(spec.Servers, &Server{URL: url})
	}
	return spec
}

// Add documents op under method and path. A second operation for the same
// method and path replaces the first.
func (s *Spec) Add(method, path string, op *Operation) error {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodDelete:
		item.Delete = op
	default:
		return fmt.Errorf("unsupported method %q for %s", method, path)
	}

	s.Paths[path] = item
	return nil
}

// Handler serializes the document once and serves the bytes on every request.
func (s *Spec) Handler() (http.HandlerFunc, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(data)
	}, nil
}
