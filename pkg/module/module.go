// Package module mounts self-contained HTTP surfaces (the API and the
// Scalar reference page) under single-segment prefixes of one server.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/lawfinder/pkg/middleware"
)

// Module serves one prefix. Requests reach the inner router with the prefix
// removed and pass through the module's own middleware first.
type Module struct {
	prefix string
	router http.Handler
	chain  middleware.Chain

	once    sync.Once
	handler http.Handler
}

// New creates a Module for a prefix such as "/api". It panics on an empty,
// relative or multi-segment prefix since those are wiring mistakes.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, router: router}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string { return m.prefix }

// Use appends middleware. The chain is fixed by the first request, so all
// Use calls belong to module construction.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.chain = append(m.chain, mw)
}

// Handler returns the inner router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() { m.handler = m.chain.Then(m.router) })
	return m.handler
}

// Serve strips the prefix and dispatches to Handler.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	inner := req.Clone(req.Context())
	inner.URL.Path = strings.TrimPrefix(req.URL.Path, m.prefix)
	inner.URL.RawPath = ""
	if inner.URL.Path == "" {
		inner.URL.Path = "/"
	}
	m.Handler().ServeHTTP(w, inner)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
