package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvCrawlTimeout        = "LAWFINDER_CRAWL_TIMEOUT"
	EnvCrawlMaxConns       = "LAWFINDER_CRAWL_MAX_CONNS"
	EnvCrawlMaxIdle        = "LAWFINDER_CRAWL_MAX_IDLE"
	EnvCrawlMaxBody        = "LAWFINDER_CRAWL_MAX_BODY"
	EnvCrawlUserAgent      = "LAWFINDER_CRAWL_USER_AGENT"
	EnvCrawlNormalizeLimit = "LAWFINDER_CRAWL_NORMALIZE_LIMIT"
	EnvCrawlSnippetLength  = "LAWFINDER_CRAWL_SNIPPET_LENGTH"
)

// CrawlConfig holds fetch client limits and text shaping parameters.
type CrawlConfig struct {
	Timeout        string `toml:"timeout"`
	MaxConns       int    `toml:"max_conns"`
	MaxIdle        int    `toml:"max_idle"`
	MaxBody        string `toml:"max_body"`
	UserAgent      string `toml:"user_agent"`
	NormalizeLimit int    `toml:"normalize_limit"`
	SnippetLength  int    `toml:"snippet_length"`
}

func (c *CrawlConfig) TimeoutDuration() time.Duration { return settings.Duration(c.Timeout) }

// MaxBodyBytes returns MaxBody in bytes.
func (c *CrawlConfig) MaxBodyBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxBody)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CrawlConfig) Finalize() error {
	settings.Default(&c.Timeout, "10s")
	settings.Default(&c.MaxConns, 20)
	settings.Default(&c.MaxIdle, 10)
	settings.Default(&c.MaxBody, "5MB")
	settings.Default(&c.UserAgent, "Mozilla/5.0")
	settings.Default(&c.NormalizeLimit, 80000)
	settings.Default(&c.SnippetLength, 220)

	settings.String(EnvCrawlTimeout, &c.Timeout)
	settings.String(EnvCrawlMaxBody, &c.MaxBody)
	settings.String(EnvCrawlUserAgent, &c.UserAgent)
	settings.Int(EnvCrawlMaxConns, &c.MaxConns)
	settings.Int(EnvCrawlMaxIdle, &c.MaxIdle)
	settings.Int(EnvCrawlNormalizeLimit, &c.NormalizeLimit)
	settings.Int(EnvCrawlSnippetLength, &c.SnippetLength)

	switch {
	case c.TimeoutDuration() <= 0:
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	case c.MaxConns < 1 || c.MaxIdle < 0:
		return fmt.Errorf("invalid connection limits: max_conns=%d max_idle=%d", c.MaxConns, c.MaxIdle)
	case c.MaxBodyBytes() <= 0:
		return fmt.Errorf("invalid max_body: %q", c.MaxBody)
	case c.NormalizeLimit < 1 || c.SnippetLength < 1:
		return fmt.Errorf("normalize_limit and snippet_length must be positive")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *CrawlConfig) Merge(overlay *CrawlConfig) {
	settings.Overlay(&c.Timeout, overlay.Timeout)
	settings.Overlay(&c.MaxConns, overlay.MaxConns)
	settings.Overlay(&c.MaxIdle, overlay.MaxIdle)
	settings.Overlay(&c.MaxBody, overlay.MaxBody)
	settings.Overlay(&c.UserAgent, overlay.UserAgent)
	settings.Overlay(&c.NormalizeLimit, overlay.NormalizeLimit)
	settings.Overlay(&c.SnippetLength, overlay.SnippetLength)
}
