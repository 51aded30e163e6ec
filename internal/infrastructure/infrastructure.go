// Package infrastructure builds the shared systems behind the API: the
// prompt and run store in Postgres, the index container in blob storage,
// and the Redis page cache.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/pkg/cache"
	"github.com/JaimeStill/lawfinder/pkg/database"
	"github.com/JaimeStill/lawfinder/pkg/lifecycle"
	"github.com/JaimeStill/lawfinder/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
}

// New constructs every system without touching the network. Start
// registers their connection attempts with the lifecycle.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger()

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Cache:     cache.New(&cfg.Cache, logger),
	}, nil
}

// NewLogger is the service-wide text logger on stderr. LAWFINDER_LOG_LEVEL
// accepts debug, info, warn, or error.
func NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LAWFINDER_LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type starter interface {
	Start(lc *lifecycle.Coordinator) error
}

// Start hands each system to the lifecycle. The database and cache gate
// readiness; a missing index container only fails the index routes.
func (i *Infrastructure) Start() error {
	systems := []struct {
		name string
		sys  starter
	}{
		{"database", i.Database},
		{"storage", i.Storage},
		{"cache", i.Cache},
	}
	for _, s := range systems {
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("start %s: %w", s.name, err)
		}
	}

	i.Lifecycle.Track("database", i.Database)
	i.Lifecycle.Track("cache", i.Cache)
	return nil
}
