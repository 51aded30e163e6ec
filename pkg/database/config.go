package database

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

// Config holds PostgreSQL connection parameters for the prompt store.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override each field.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration { return settings.Duration(c.ConnMaxLifetime) }

func (c *Config) ConnTimeoutDuration() time.Duration { return settings.Duration(c.ConnTimeout) }

// URL returns the postgres:// form of the connection. The server pool and
// golang-migrate both open from it.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.Host, "localhost")
	settings.Default(&c.Port, 5432)
	settings.Default(&c.SSLMode, "disable")
	settings.Default(&c.MaxOpenConns, 25)
	settings.Default(&c.MaxIdleConns, 5)
	settings.Default(&c.ConnMaxLifetime, "15m")
	settings.Default(&c.ConnTimeout, "5s")

	if env != nil {
		settings.String(env.Host, &c.Host)
		settings.Int(env.Port, &c.Port)
		settings.String(env.Name, &c.Name)
		settings.String(env.User, &c.User)
		settings.String(env.Password, &c.Password)
		settings.String(env.SSLMode, &c.SSLMode)
		settings.Int(env.MaxOpenConns, &c.MaxOpenConns)
		settings.Int(env.MaxIdleConns, &c.MaxIdleConns)
		settings.String(env.ConnMaxLifetime, &c.ConnMaxLifetime)
		settings.String(env.ConnTimeout, &c.ConnTimeout)
	}

	switch {
	case c.Name == "":
		return errors.New("name required")
	case c.User == "":
		return errors.New("user required")
	case c.MaxIdleConns > c.MaxOpenConns:
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if err := settings.CheckDuration("conn_max_lifetime", c.ConnMaxLifetime); err != nil {
		return err
	}
	return settings.CheckDuration("conn_timeout", c.ConnTimeout)
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Host, overlay.Host)
	settings.Overlay(&c.Port, overlay.Port)
	settings.Overlay(&c.Name, overlay.Name)
	settings.Overlay(&c.User, overlay.User)
	settings.Overlay(&c.Password, overlay.Password)
	settings.Overlay(&c.SSLMode, overlay.SSLMode)
	settings.Overlay(&c.MaxOpenConns, overlay.MaxOpenConns)
	settings.Overlay(&c.MaxIdleConns, overlay.MaxIdleConns)
	settings.Overlay(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	settings.Overlay(&c.ConnTimeout, overlay.ConnTimeout)
}
