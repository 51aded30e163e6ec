package config

import (
	"fmt"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvDiscoveryMinYear      = "LAWFINDER_DISCOVERY_MIN_YEAR"
	EnvDiscoveryTopN         = "LAWFINDER_DISCOVERY_TOP_N"
	EnvDiscoverySearchURLs   = "LAWFINDER_DISCOVERY_SEARCH_URLS"
	EnvDiscoveryChunkSize    = "LAWFINDER_DISCOVERY_CHUNK_SIZE"
	EnvDiscoveryChunkOverlap = "LAWFINDER_DISCOVERY_CHUNK_OVERLAP"
)

// DiscoveryConfig holds ranking limits and index chunking.
type DiscoveryConfig struct {
	MinYear      int `toml:"min_year"`
	TopN         int `toml:"top_n"`
	SearchURLs   int `toml:"search_urls"`
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DiscoveryConfig) Finalize() error {
	settings.Default(&c.MinYear, 2023)
	settings.Default(&c.TopN, 10)
	settings.Default(&c.SearchURLs, 6)
	settings.Default(&c.ChunkSize, 1200)
	settings.Default(&c.ChunkOverlap, 200)

	settings.Int(EnvDiscoveryMinYear, &c.MinYear)
	settings.Int(EnvDiscoveryTopN, &c.TopN)
	settings.Int(EnvDiscoverySearchURLs, &c.SearchURLs)
	settings.Int(EnvDiscoveryChunkSize, &c.ChunkSize)
	settings.Int(EnvDiscoveryChunkOverlap, &c.ChunkOverlap)

	if c.TopN < 1 || c.SearchURLs < 1 {
		return fmt.Errorf("top_n and search_urls must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size): %d", c.ChunkOverlap)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *DiscoveryConfig) Merge(overlay *DiscoveryConfig) {
	settings.Overlay(&c.MinYear, overlay.MinYear)
	settings.Overlay(&c.TopN, overlay.TopN)
	settings.Overlay(&c.SearchURLs, overlay.SearchURLs)
	settings.Overlay(&c.ChunkSize, overlay.ChunkSize)
	settings.Overlay(&c.ChunkOverlap, overlay.ChunkOverlap)
}
