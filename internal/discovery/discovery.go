// Package discovery finds, filters and ranks jurisdiction-specific legal
// sources for a product feature.
package discovery

import (
	"context"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/search"
)

// Defaults for discovery runs.
const (
	DefaultMinYear    = 2023
	DefaultTopN       = 10
	DefaultSearchURLs = 6
)

// Request describes a discovery run. A nil MinYear uses the configured
// default; an explicit zero disables the recency filter.
type Request struct {
	FeatureSummary string   `json:"feature_summary"`
	Regions        []string `json:"regions"`
	MinYear        *int     `json:"min_year,omitempty"`
}

// Source is a ranked legal source.
type Source struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Jurisdiction string `json:"jurisdiction"`
	Snippet      string `json:"snippet"`
}

// Candidate is a deduplicated crawled source annotated with ranking fields.
type Candidate struct {
	Source
	HostScore  int     `json:"host_score"`
	Relevance  float64 `json:"relevance"`
	FinalScore float64 `json:"final_score"`
}

// Result is the outcome of a discovery run.
type Result struct {
	IndexID string   `json:"index_id"`
	Sources []Source `json:"sources"`
}

// Scorer rates candidates from 0 to 10 for a feature, one score per candidate.
type Scorer interface {
	Score(ctx context.Context, feature string, regions []string, candidates []crawl.Metadata) ([]float64, error)
}

// Searcher runs planned queries concurrently.
type Searcher interface {
	Parallel(ctx context.Context, queries []string) []search.Hit
}

// Crawler fetches, normalizes and filters a batch of URLs.
type Crawler interface {
	Crawl(ctx context.Context, urls []string, minYear int, allowWiki bool) []crawl.Document
}

// System runs discovery.
type System interface {
	Handler() *Handler

	Discover(ctx context.Context, req Request) (*Result, error)
}
