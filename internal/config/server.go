package config

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvServerHost            = "LAWFINDER_SERVER_HOST"
	EnvServerPort            = "LAWFINDER_SERVER_PORT"
	EnvServerReadTimeout     = "LAWFINDER_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "LAWFINDER_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "LAWFINDER_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. WriteTimeout stays long
// because a discovery run holds its response open across search, crawl,
// and oracle ranking.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Grace is how long in-flight requests get to drain on shutdown.
func (c *ServerConfig) Grace() time.Duration {
	return settings.Duration(c.ShutdownTimeout)
}

// HTTP builds the listener for handler.
func (c *ServerConfig) HTTP(handler http.Handler) *http.Server {
	read := settings.Duration(c.ReadTimeout)
	return &http.Server{
		Addr:              c.Addr(),
		Handler:           handler,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      settings.Duration(c.WriteTimeout),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	settings.Default(&c.Host, "0.0.0.0")
	settings.Default(&c.Port, 8080)
	settings.Default(&c.ReadTimeout, "1m")
	settings.Default(&c.WriteTimeout, "15m")
	settings.Default(&c.ShutdownTimeout, "30s")

	settings.String(EnvServerHost, &c.Host)
	settings.Int(EnvServerPort, &c.Port)
	settings.String(EnvServerReadTimeout, &c.ReadTimeout)
	settings.String(EnvServerWriteTimeout, &c.WriteTimeout)
	settings.String(EnvServerShutdownTimeout, &c.ShutdownTimeout)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if err := settings.CheckDuration("read_timeout", c.ReadTimeout); err != nil {
		return err
	}
	if err := settings.CheckDuration("write_timeout", c.WriteTimeout); err != nil {
		return err
	}
	return settings.CheckDuration("shutdown_timeout", c.ShutdownTimeout)
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	settings.Overlay(&c.Host, overlay.Host)
	settings.Overlay(&c.Port, overlay.Port)
	settings.Overlay(&c.ReadTimeout, overlay.ReadTimeout)
	settings.Overlay(&c.WriteTimeout, overlay.WriteTimeout)
	settings.Overlay(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}
