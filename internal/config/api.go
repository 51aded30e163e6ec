package config

import (
	"fmt"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
	"github.com/JaimeStill/lawfinder/pkg/middleware"
	"github.com/JaimeStill/lawfinder/pkg/openapi"
	"github.com/JaimeStill/lawfinder/pkg/pagination"
	"github.com/JaimeStill/lawfinder/pkg/settings"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "LAWFINDER_CORS_ENABLED",
	Origins:          "LAWFINDER_CORS_ORIGINS",
	AllowedMethods:   "LAWFINDER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "LAWFINDER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "LAWFINDER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "LAWFINDER_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "LAWFINDER_OPENAPI_TITLE",
	Description: "LAWFINDER_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "LAWFINDER_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "LAWFINDER_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the request body ceiling in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	settings.Default(&c.BasePath, "/api")
	settings.Default(&c.MaxBodySize, "1MB")
	settings.String("LAWFINDER_API_BASE_PATH", &c.BasePath)
	settings.String("LAWFINDER_API_MAX_BODY_SIZE", &c.MaxBodySize)

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	settings.Overlay(&c.BasePath, overlay.BasePath)
	settings.Overlay(&c.MaxBodySize, overlay.MaxBodySize)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}
