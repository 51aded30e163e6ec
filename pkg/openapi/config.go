package openapi

import "github.com/JaimeStill/lawfinder/pkg/settings"

// Config holds the info block of the generated document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override each field.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	settings.Default(&c.Title, "Lawfinder API")
	settings.Default(&c.Description, "Regulatory source discovery and compliance risk scoring for product features.")
	if env != nil {
		settings.String(env.Title, &c.Title)
		settings.String(env.Description, &c.Description)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Title, overlay.Title)
	settings.Overlay(&c.Description, overlay.Description)
}
