package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/lawfinder/pkg/cache"
	"github.com/JaimeStill/lawfinder/pkg/database"
	"github.com/JaimeStill/lawfinder/pkg/middleware"
	"github.com/JaimeStill/lawfinder/pkg/settings"
	"github.com/JaimeStill/lawfinder/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLawfinderEnv             = "LAWFINDER_ENV"
	EnvLawfinderShutdownTimeout = "LAWFINDER_SHUTDOWN_TIMEOUT"
	EnvLawfinderVersion         = "LAWFINDER_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "LAWFINDER_DB_HOST",
	Port:            "LAWFINDER_DB_PORT",
	Name:            "LAWFINDER_DB_NAME",
	User:            "LAWFINDER_DB_USER",
	Password:        "LAWFINDER_DB_PASSWORD",
	SSLMode:         "LAWFINDER_DB_SSL_MODE",
	MaxOpenConns:    "LAWFINDER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "LAWFINDER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "LAWFINDER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "LAWFINDER_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "LAWFINDER_STORAGE_CONTAINER_NAME",
	ConnectionString: "LAWFINDER_STORAGE_CONNECTION_STRING",
	ServiceURL:       "LAWFINDER_STORAGE_SERVICE_URL",
	MaxListSize:      "LAWFINDER_STORAGE_MAX_LIST_SIZE",
}

var cacheEnv = &cache.Env{
	Addr:     "LAWFINDER_CACHE_ADDR",
	Password: "LAWFINDER_CACHE_PASSWORD",
	DB:       "LAWFINDER_CACHE_DB",
	Prefix:   "LAWFINDER_CACHE_PREFIX",
	TTL:      "LAWFINDER_CACHE_TTL",
}

var authEnv = &middleware.AuthEnv{
	Issuer:   "LAWFINDER_AUTH_ISSUER",
	Audience: "LAWFINDER_AUTH_AUDIENCE",
}

// Config is the root configuration for the lawfinder service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Storage         storage.Config        `toml:"storage"`
	API             APIConfig             `toml:"api"`
	Auth            middleware.AuthConfig `toml:"auth"`
	Cache           cache.Config          `toml:"cache"`
	Crawl           CrawlConfig           `toml:"crawl"`
	Search          SearchConfig          `toml:"search"`
	Discovery       DiscoveryConfig       `toml:"discovery"`
	Oracle          OracleConfig          `toml:"oracle"`
	Risk            RiskConfig            `toml:"risk"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the LAWFINDER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLawfinderEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration bounds the whole lifecycle teardown.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return settings.Duration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadPipeline finalizes only the sections the discovery and risk
// pipeline needs. The CLI uses it to run without a database or storage.
func LoadPipeline() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalizePipeline(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	settings.Overlay(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Cache.Merge(&overlay.Cache)
	c.Crawl.Merge(&overlay.Crawl)
	c.Search.Merge(&overlay.Search)
	c.Discovery.Merge(&overlay.Discovery)
	c.Oracle.Merge(&overlay.Oracle)
	c.Risk.Merge(&overlay.Risk)
}

func (c *Config) finalize() error {
	settings.Default(&c.ShutdownTimeout, "30s")
	settings.Default(&c.Version, "0.1.0")
	settings.String(EnvLawfinderShutdownTimeout, &c.ShutdownTimeout)
	settings.String(EnvLawfinderVersion, &c.Version)

	if err := settings.CheckDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return c.finalizePipeline()
}

func (c *Config) finalizePipeline() error {
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Crawl.Finalize(); err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	if err := c.Search.Finalize(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Discovery.Finalize(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := c.Oracle.Finalize(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if err := c.Risk.Finalize(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	return nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLawfinderEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
