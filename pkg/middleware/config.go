package middleware

import "github.com/JaimeStill/lawfinder/pkg/settings"

// CORSConfig holds the browser access policy for the API module.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override each field.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides. The default
// methods cover the prompt override routes and the headers cover bearer auth.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Authorization", "Content-Type"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}

	if env != nil {
		settings.Bool(env.Enabled, &c.Enabled)
		settings.List(env.Origins, &c.Origins)
		settings.List(env.AllowedMethods, &c.AllowedMethods)
		settings.List(env.AllowedHeaders, &c.AllowedHeaders)
		settings.Bool(env.AllowCredentials, &c.AllowCredentials)
		settings.Int(env.MaxAge, &c.MaxAge)
	}
	return nil
}

// Merge applies an overlay. The booleans always take the overlay's value,
// so an environment file can switch CORS off; lists replace when present.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials
	settings.OverlaySlice(&c.Origins, overlay.Origins)
	settings.OverlaySlice(&c.AllowedMethods, overlay.AllowedMethods)
	settings.OverlaySlice(&c.AllowedHeaders, overlay.AllowedHeaders)
	settings.Overlay(&c.MaxAge, overlay.MaxAge)
}
