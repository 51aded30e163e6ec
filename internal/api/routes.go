package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/routes"
)

// SpecPath serves the generated OpenAPI document within the module.
const SpecPath = "/openapi.json"

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Discovery.Handler().Routes(),
		domain.Risk.Handler().Routes(),
		domain.Runs.Handler().Routes(),
		domain.Indices.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version, cfg.API.BasePath)
	spec.Components.AddSchemas(schemas())
	if err := routes.Describe(spec, "", groups...); err != nil {
		return fmt.Errorf("describe routes: %w", err)
	}

	serve, err := spec.Handler()
	if err != nil {
		return err
	}
	mux.HandleFunc("GET "+SpecPath, serve)
	return nil
}
