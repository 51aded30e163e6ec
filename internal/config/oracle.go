package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvOracleBaseURL     = "LAWFINDER_ORACLE_BASE_URL"
	EnvOracleAPIKey      = "LAWFINDER_ORACLE_API_KEY"
	EnvOracleModel       = "LAWFINDER_ORACLE_MODEL"
	EnvOracleTemperature = "LAWFINDER_ORACLE_TEMPERATURE"
	EnvOracleMaxTokens   = "LAWFINDER_ORACLE_MAX_TOKENS"
	EnvOracleTimeout     = "LAWFINDER_ORACLE_TIMEOUT"
	EnvOracleDisabled    = "LAWFINDER_ORACLE_DISABLED"
)

// OracleConfig holds the OpenAI-compatible endpoint used for ranking and
// obligation alignment. The oracle is off when no API key is set.
// Temperature applies to obligation alignment; ranking always runs at 0.
type OracleConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Disabled    bool    `toml:"disabled"`
}

// Enabled reports whether oracle calls should be attempted.
func (c *OracleConfig) Enabled() bool {
	return !c.Disabled && c.APIKey != ""
}

func (c *OracleConfig) TimeoutDuration() time.Duration { return settings.Duration(c.Timeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OracleConfig) Finalize() error {
	settings.Default(&c.Model, "gpt-4o-mini")
	settings.Default(&c.MaxTokens, 2048)
	settings.Default(&c.Timeout, "60s")

	settings.String(EnvOracleBaseURL, &c.BaseURL)
	settings.String(EnvOracleAPIKey, &c.APIKey)
	settings.String(EnvOracleModel, &c.Model)
	settings.String(EnvOracleTimeout, &c.Timeout)
	settings.Float(EnvOracleTemperature, &c.Temperature)
	settings.Int(EnvOracleMaxTokens, &c.MaxTokens)
	settings.Bool(EnvOracleDisabled, &c.Disabled)

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %v", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return settings.CheckDuration("timeout", c.Timeout)
}

// Merge overwrites non-zero fields from overlay. Disabled only ever turns on.
func (c *OracleConfig) Merge(overlay *OracleConfig) {
	settings.Overlay(&c.BaseURL, overlay.BaseURL)
	settings.Overlay(&c.APIKey, overlay.APIKey)
	settings.Overlay(&c.Model, overlay.Model)
	settings.Overlay(&c.Temperature, overlay.Temperature)
	settings.Overlay(&c.MaxTokens, overlay.MaxTokens)
	settings.Overlay(&c.Timeout, overlay.Timeout)
	settings.Overlay(&c.Disabled, overlay.Disabled)
}
