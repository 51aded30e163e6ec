package api

import (
	"log/slog"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/index"
	"github.com/JaimeStill/lawfinder/internal/infrastructure"
	"github.com/JaimeStill/lawfinder/internal/pipeline"
	"github.com/JaimeStill/lawfinder/internal/prompts"
	"github.com/JaimeStill/lawfinder/internal/risk"
	"github.com/JaimeStill/lawfinder/internal/runs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts   prompts.System
	Indices   index.System
	Discovery discovery.System
	Risk      risk.System
	Runs      runs.System
}

// NewDomain wires the prompt store and index store into the discovery and
// risk pipeline, and records runs of both in Postgres.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure, logger *slog.Logger) *Domain {
	db := infra.Database.Connection()
	paging := cfg.API.Pagination

	promptsSystem := prompts.New(db, logger, paging)

	indexSystem := index.New(
		infra.Storage,
		cfg.Discovery.ChunkSize,
		cfg.Discovery.ChunkOverlap,
		cfg.Storage.MaxListSize,
		logger,
	)

	p := pipeline.New(cfg, pipeline.Deps{
		Cache:   infra.Cache,
		Index:   indexSystem,
		Prompts: promptsSystem,
		Logger:  logger,
	})

	runsSystem := runs.New(db, p.Discovery, p.Risk, logger, paging)

	return &Domain{
		Prompts:   promptsSystem,
		Indices:   indexSystem,
		Discovery: p.Discovery,
		Risk:      p.Risk,
		Runs:      runsSystem,
	}
}
