package storage

import (
	"fmt"
	"strconv"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

// MaxListCap is the Azure-imposed ceiling on results per list page.
const MaxListCap int32 = 5000

// Config holds Azure Blob Storage connection parameters.
// Either ConnectionString or ServiceURL must be set; ServiceURL authenticates
// with the ambient Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.ContainerName, "indices")
	settings.Default(&c.MaxListSize, 50)

	if env != nil {
		settings.String(env.ContainerName, &c.ContainerName)
		settings.String(env.ConnectionString, &c.ConnectionString)
		settings.String(env.ServiceURL, &c.ServiceURL)

		size := int(c.MaxListSize)
		settings.Int(env.MaxListSize, &size)
		if size > 0 {
			c.MaxListSize = int32(min(size, int(MaxListCap)))
		}
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)

	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.ServiceURL == "" {
		return fmt.Errorf("connection_string or service_url required")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.ContainerName, overlay.ContainerName)
	settings.Overlay(&c.ConnectionString, overlay.ConnectionString)
	settings.Overlay(&c.ServiceURL, overlay.ServiceURL)
	settings.Overlay(&c.MaxListSize, overlay.MaxListSize)
}

// ParseMaxResults parses a max_results query value, returning fallback when empty
// and clamping to MaxListCap.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidListSize, s)
	}

	return int32(min(n, int(MaxListCap))), nil
}
