package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvSearchEndpoint = "LAWFINDER_SEARCH_ENDPOINT"
	EnvSearchTimeout  = "LAWFINDER_SEARCH_TIMEOUT"
	EnvSearchWorkers  = "LAWFINDER_SEARCH_WORKERS"
	EnvSearchPerQuery = "LAWFINDER_SEARCH_PER_QUERY"
	EnvSearchRPS      = "LAWFINDER_SEARCH_RPS"
	EnvSearchDisabled = "LAWFINDER_SEARCH_DISABLED"
)

// SearchConfig holds the web search endpoint and its pacing. RPS of zero
// leaves requests unpaced.
type SearchConfig struct {
	Endpoint string  `toml:"endpoint"`
	Timeout  string  `toml:"timeout"`
	Workers  int     `toml:"workers"`
	PerQuery int     `toml:"per_query"`
	RPS      float64 `toml:"rps"`
	Disabled bool    `toml:"disabled"`
}

func (c *SearchConfig) TimeoutDuration() time.Duration { return settings.Duration(c.Timeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SearchConfig) Finalize() error {
	settings.Default(&c.Timeout, "10s")
	settings.Default(&c.Workers, 6)
	settings.Default(&c.PerQuery, 6)

	settings.String(EnvSearchEndpoint, &c.Endpoint)
	settings.String(EnvSearchTimeout, &c.Timeout)
	settings.Int(EnvSearchWorkers, &c.Workers)
	settings.Int(EnvSearchPerQuery, &c.PerQuery)
	settings.Float(EnvSearchRPS, &c.RPS)
	settings.Bool(EnvSearchDisabled, &c.Disabled)

	switch {
	case c.Workers < 1 || c.PerQuery < 1:
		return fmt.Errorf("workers and per_query must be positive")
	case c.RPS < 0:
		return fmt.Errorf("rps must not be negative")
	}
	return settings.CheckDuration("timeout", c.Timeout)
}

// Merge overwrites non-zero fields from overlay. Disabled only ever turns on.
func (c *SearchConfig) Merge(overlay *SearchConfig) {
	settings.Overlay(&c.Endpoint, overlay.Endpoint)
	settings.Overlay(&c.Timeout, overlay.Timeout)
	settings.Overlay(&c.Workers, overlay.Workers)
	settings.Overlay(&c.PerQuery, overlay.PerQuery)
	settings.Overlay(&c.RPS, overlay.RPS)
	settings.Overlay(&c.Disabled, overlay.Disabled)
}
