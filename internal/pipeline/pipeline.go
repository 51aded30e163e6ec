// Package pipeline assembles the discovery and risk engines from configuration.
// The HTTP service and the CLI share it; only the index store and prompt
// source differ between them.
package pipeline

import (
	"log/slog"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/fetch"
	"github.com/JaimeStill/lawfinder/internal/index"
	"github.com/JaimeStill/lawfinder/internal/normalize"
	"github.com/JaimeStill/lawfinder/internal/oracle"
	"github.com/JaimeStill/lawfinder/internal/prompts"
	"github.com/JaimeStill/lawfinder/internal/risk"
	"github.com/JaimeStill/lawfinder/internal/search"
	"github.com/JaimeStill/lawfinder/pkg/cache"
)

// Deps are the environment-specific collaborators of a pipeline.
// A nil Cache disables fetch caching and a nil Index skips persistence.
type Deps struct {
	Cache   cache.System
	Index   index.System
	Prompts prompts.Source
	Logger  *slog.Logger
}

// Pipeline holds the assembled engines.
type Pipeline struct {
	Discovery discovery.System
	Risk      risk.System
	Oracle    *oracle.Client
}

// New wires fetch, crawl, search, oracle, discovery and risk from cfg.
func New(cfg *config.Config, deps Deps) *Pipeline {
	logger := deps.Logger
	if deps.Prompts == nil {
		deps.Prompts = prompts.Defaults()
	}

	var fetcher fetch.Service = fetch.New(fetch.Options{
		Timeout:   cfg.Crawl.TimeoutDuration(),
		MaxConns:  cfg.Crawl.MaxConns,
		MaxIdle:   cfg.Crawl.MaxIdle,
		MaxBody:   cfg.Crawl.MaxBodyBytes(),
		UserAgent: cfg.Crawl.UserAgent,
	}, logger)
	if deps.Cache != nil && cfg.Cache.Enabled() {
		fetcher = fetch.Cached(fetcher, deps.Cache, cfg.Cache.TTLDuration(), logger)
	}

	crawler := crawl.New(
		fetcher,
		normalize.New(cfg.Crawl.NormalizeLimit),
		cfg.Crawl.SnippetLength,
		logger,
	)

	client := oracle.New(oracle.Options{
		BaseURL:     cfg.Oracle.BaseURL,
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		Temperature: cfg.Oracle.Temperature,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Timeout:     cfg.Oracle.TimeoutDuration(),
		Disabled:    cfg.Oracle.Disabled,
	}, logger)

	discoveryDeps := discovery.Deps{
		Crawler: crawler,
		Index:   deps.Index,
	}
	if !cfg.Search.Disabled {
		discoveryDeps.Search = search.NewRunner(
			search.NewDuckDuckGo(cfg.Search.Endpoint, cfg.Search.TimeoutDuration()),
			search.Options{
				Workers:  cfg.Search.Workers,
				PerQuery: cfg.Search.PerQuery,
				RPS:      cfg.Search.RPS,
			},
			logger,
		)
	}

	var classifier risk.Classifier
	if client.Enabled() {
		discoveryDeps.Scorer = oracle.NewScorer(client, deps.Prompts, logger)
		classifier = oracle.NewClassifier(client, deps.Prompts, logger)
	}

	disc := discovery.New(discoveryDeps, discovery.Options{
		MinYear:    cfg.Discovery.MinYear,
		TopN:       cfg.Discovery.TopN,
		SearchURLs: cfg.Discovery.SearchURLs,
	}, logger)

	assess := risk.New(risk.UtahCatalog(), classifier, risk.Options{
		Region:   cfg.Risk.Region,
		External: cfg.Risk.External(),
	}, logger)

	logger.Info(
		"pipeline assembled",
		"oracle", client.Enabled(),
		"model", client.Model(),
		"search", !cfg.Search.Disabled,
		"fetch_cache", cfg.Cache.Enabled(),
		"strategy", cfg.Risk.Strategy,
	)

	return &Pipeline{
		Discovery: disc,
		Risk:      assess,
		Oracle:    client,
	}
}
