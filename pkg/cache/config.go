package cache

import (
	"fmt"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

// Config holds Redis connection parameters. The cache is disabled when Addr is empty.
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Addr     string
	Password string
	DB       string
	Prefix   string
	TTL      string
}

// Enabled reports whether a Redis address is configured.
func (c *Config) Enabled() bool {
	return c.Addr != ""
}

func (c *Config) TTLDuration() time.Duration { return settings.Duration(c.TTL) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.Prefix, "lawfinder:")
	settings.Default(&c.TTL, "6h")
	if env != nil {
		settings.String(env.Addr, &c.Addr)
		settings.String(env.Password, &c.Password)
		settings.Int(env.DB, &c.DB)
		settings.String(env.Prefix, &c.Prefix)
		settings.String(env.TTL, &c.TTL)
	}

	if err := settings.CheckDuration("ttl", c.TTL); err != nil {
		return err
	}
	if c.TTLDuration() <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	if c.DB < 0 {
		return fmt.Errorf("db must not be negative")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Addr, overlay.Addr)
	settings.Overlay(&c.Password, overlay.Password)
	settings.Overlay(&c.DB, overlay.DB)
	settings.Overlay(&c.Prefix, overlay.Prefix)
	settings.Overlay(&c.TTL, overlay.TTL)
}
