package discovery

import (
	"context"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/guard"
	"github.com/JaimeStill/lawfinder/internal/seeds"
)

// Tier is one step of the ordered source fallback. A tier runs only when
// Needed reports true for the documents crawled by earlier tiers.
type Tier struct {
	Name      string
	AllowWiki bool
	Needed    func(docs []crawl.Document) bool
	URLs      func(ctx context.Context, req Request) []string
}

// Always is a Tier predicate that always runs.
func Always([]crawl.Document) bool { return true }

// NoEvidence reports whether docs lack any non-Wikipedia document.
func NoEvidence(docs []crawl.Document) bool {
	for _, d := range docs {
		if !guard.IsWikipedia(d.URL) {
			return false
		}
	}
	return true
}

// Empty reports whether nothing has been crawled.
func Empty(docs []crawl.Document) bool {
	return len(docs) == 0
}

func (e *engine) tiers() []Tier {
	return []Tier{
		{Name: "seeds", AllowWiki: true, Needed: Always, URLs: e.seedURLs},
		{Name: "search", Needed: NoEvidence, URLs: e.searchURLs},
		{Name: "curated", Needed: Empty, URLs: e.curatedURLs},
	}
}

func (e *engine) seedURLs(_ context.Context, req Request) []string {
	var urls []string
	for _, u := range e.deps.Seeds.ForRegions(req.Regions) {
		if e.deps.Policy.Allowed(u, req.Regions) {
			urls = append(urls, u)
		}
	}
	return urls
}

func (e *engine) searchURLs(ctx context.Context, req Request) []string {
	if e.deps.Search == nil {
		return nil
	}

	queries := e.deps.Planner.Queries(req.FeatureSummary, req.Regions)
	hits := e.deps.Search.Parallel(ctx, queries)

	seen := make(map[string]bool, len(hits))
	var urls []string
	for _, h := range hits {
		key := seeds.Key(h.URL)
		if key == "" || seen[key] {
			continue
		}
		if !e.deps.Policy.Allowed(h.URL, req.Regions) {
			continue
		}
		seen[key] = true
		urls = append(urls, h.URL)
		if len(urls) >= e.opts.SearchURLs {
			break
		}
	}
	return urls
}

func (e *engine) curatedURLs(context.Context, Request) []string {
	return e.deps.Curated
}
