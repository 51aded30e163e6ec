// Package search runs planned queries against a web search engine.
package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Hit is a single search result.
type Hit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Engine executes one query and returns at most k hits.
type Engine interface {
	Search(ctx context.Context, query string, k int) ([]Hit, error)
}

// Options bounds query fan-out.
type Options struct {
	Workers  int
	PerQuery int
	RPS      float64
	Burst    int
}

// Runner fans queries out across a bounded worker pool, pacing requests
// through a shared rate limiter.
type Runner struct {
	engine  Engine
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRunner creates a Runner. Non-positive Workers and PerQuery default to 6;
// a non-positive RPS disables pacing.
func NewRunner(engine Engine, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 6
	}
	if opts.PerQuery <= 0 {
		opts.PerQuery = 6
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.Workers
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}

	return &Runner{
		engine:  engine,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.Burst),
		logger:  logger.With("system", "search"),
	}
}

// Parallel runs each distinct query and returns the hits flattened in query order.
// A failed query contributes no hits.
func (r *Runner) Parallel(ctx context.Context, queries []string) []Hit {
	queries = distinct(queries)
	slots := make([][]Hit, len(queries))

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)

	for i, q := range queries {
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				r.logger.Warn("search paced out", "query", q, "error", err)
				return nil
			}
			hits, err := r.engine.Search(ctx, q, r.opts.PerQuery)
			if err != nil {
				r.logger.Warn("search failed", "query", q, "error", err)
				return nil
			}
			if len(hits) > r.opts.PerQuery {
				hits = hits[:r.opts.PerQuery]
			}
			slots[i] = hits
			return nil
		})
	}

	g.Wait()

	var out []Hit
	for _, hits := range slots {
		out = append(out, hits...)
	}
	return out
}

func distinct(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
