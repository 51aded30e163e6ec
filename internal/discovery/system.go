package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/guard"
	"github.com/JaimeStill/lawfinder/internal/index"
	"github.com/JaimeStill/lawfinder/internal/planner"
	"github.com/JaimeStill/lawfinder/internal/seeds"
)

// DefaultCurated is the last-resort source list.
var DefaultCurated = []string{"https://www.missingkids.org/"}

// Deps are the collaborators of a discovery engine. A nil Search skips the
// search tier and a nil Scorer ranks by host weight alone.
type Deps struct {
	Policy  *guard.Policy
	Seeds   *seeds.Catalog
	Planner *planner.Planner
	Search  Searcher
	Crawler Crawler
	Scorer  Scorer
	Index   index.System
	Curated []string
}

// Options tunes ranking and fallback.
type Options struct {
	MinYear    int
	TopN       int
	SearchURLs int
}

type engine struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New creates a discovery engine. Nil table dependencies use their defaults.
func New(deps Deps, opts Options, logger *slog.Logger) System {
	if deps.Policy == nil {
		deps.Policy = guard.DefaultPolicy()
	}
	if deps.Seeds == nil {
		deps.Seeds = seeds.Default()
	}
	if deps.Planner == nil {
		deps.Planner = planner.Default()
	}
	if deps.Curated == nil {
		deps.Curated = DefaultCurated
	}

	logger = logger.With("system", "discovery")
	if deps.Index == nil {
		deps.Index = index.Noop(logger)
	}

	if opts.MinYear < 0 {
		opts.MinYear = 0
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.SearchURLs <= 0 {
		opts.SearchURLs = DefaultSearchURLs
	}

	return &engine{
		deps:   deps,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

func (e *engine) Handler() *Handler {
	return NewHandler(e, e.logger)
}

func (e *engine) Discover(ctx context.Context, req Request) (*Result, error) {
	req.FeatureSummary = strings.TrimSpace(req.FeatureSummary)
	if req.FeatureSummary == "" {
		return nil, fmt.Errorf("%w: feature_summary is required", ErrInvalidRequest)
	}

	minYear := e.opts.MinYear
	if req.MinYear != nil {
		minYear = *req.MinYear
	}

	var docs []crawl.Document
	for _, tier := range e.tiers() {
		if !tier.Needed(docs) {
			continue
		}
		urls := tier.URLs(ctx, req)
		crawled := e.deps.Crawler.Crawl(ctx, urls, minYear, tier.AllowWiki)
		e.logger.InfoContext(ctx, "tier crawled", "tier", tier.Name, "urls", len(urls), "documents", len(crawled))
		docs = append(docs, crawled...)
	}

	id := index.NewID(req.FeatureSummary, req.Regions, e.now())

	candidates := Candidates(docs, e.deps.Policy, req.Regions)
	e.persist(ctx, id, req, candidates, docs)

	ranked := Rank(candidates, e.score(ctx, req, candidates), e.opts.TopN)

	sources := make([]Source, 0, len(ranked))
	for _, c := range ranked {
		sources = append(sources, c.Source)
	}

	e.logger.InfoContext(ctx, "discovery complete", "index_id", id, "candidates", len(candidates), "sources", len(sources))
	return &Result{IndexID: id, Sources: sources}, nil
}

func (e *engine) score(ctx context.Context, req Request, candidates []Candidate) []float64 {
	if e.deps.Scorer == nil || len(candidates) == 0 {
		return nil
	}

	scores, err := e.deps.Scorer.Score(ctx, req.FeatureSummary, req.Regions, metadata(candidates))
	if err != nil {
		e.logger.WarnContext(ctx, "relevance scoring failed, ranking by host weight", "error", err)
		return nil
	}
	return scores
}

// persist stores the crawled corpus in the background. Failures are logged only.
func (e *engine) persist(ctx context.Context, id string, req Request, candidates []Candidate, docs []crawl.Document) {
	if len(docs) == 0 {
		return
	}

	jurisdiction := make(map[string]string, len(candidates))
	for _, c := range candidates {
		jurisdiction[c.URL] = c.Jurisdiction
	}

	seen := make(map[string]bool, len(docs))
	items := make([]index.Document, 0, len(candidates))
	for _, d := range docs {
		if seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		items = append(items, index.Document{
			URL:          d.URL,
			Title:        d.Title,
			Jurisdiction: jurisdiction[d.URL],
			Text:         d.Text,
		})
	}

	manifest := index.Manifest{
		ID:        id,
		Summary:   req.FeatureSummary,
		Regions:   req.Regions,
		CreatedAt: e.now().UTC(),
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		if err := e.deps.Index.Put(bg, manifest, items); err != nil {
			e.logger.WarnContext(bg, "index persistence failed", "index_id", id, "error", err)
		}
	}()
}
