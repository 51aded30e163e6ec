// Package pagination carries the page request and result envelopes of the
// runs and prompts listing endpoints.
package pagination

import (
	"fmt"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

// Config bounds listing page sizes.
type Config struct {
	DefaultPageSize int `json:"default_page_size" toml:"default_page_size"`
	MaxPageSize     int `json:"max_page_size"     toml:"max_page_size"`
}

// ConfigEnv names the environment variables that override each field.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	settings.Default(&c.DefaultPageSize, 20)
	settings.Default(&c.MaxPageSize, 100)
	if env != nil {
		settings.Int(env.DefaultPageSize, &c.DefaultPageSize)
		settings.Int(env.MaxPageSize, &c.MaxPageSize)
	}

	switch {
	case c.DefaultPageSize < 1 || c.MaxPageSize < 1:
		return fmt.Errorf("page sizes must be positive: default_page_size=%d max_page_size=%d", c.DefaultPageSize, c.MaxPageSize)
	case c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.DefaultPageSize, overlay.DefaultPageSize)
	settings.Overlay(&c.MaxPageSize, overlay.MaxPageSize)
}
