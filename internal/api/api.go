// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/infrastructure"
	"github.com/JaimeStill/lawfinder/pkg/middleware"
	"github.com/JaimeStill/lawfinder/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// When an OIDC issuer is configured every route except the skip paths and
// the OpenAPI document requires a bearer token.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	logger := infra.Logger.With("module", "api")
	domain := NewDomain(cfg, infra, logger)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(logger))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	if cfg.Auth.Enabled() {
		verifier, err := middleware.NewVerifier(infra.Lifecycle.Context(), &cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		skip := append([]string{SpecPath}, cfg.Auth.SkipPaths...)
		m.Use(middleware.Auth(verifier, skip, logger))
	}

	return m, nil
}
