// Package crawl drives URLs through the fetch service, normalizes HTML,
// and applies the recency filter.
package crawl

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/JaimeStill/lawfinder/internal/fetch"
	"github.com/JaimeStill/lawfinder/internal/guard"
	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// DefaultSnippet is the snippet length in characters.
const DefaultSnippet = 220

const fetchedTitle = "Fetched"

var yearToken = regexp.MustCompile(`\b(20\d{2})\b`)

// Metadata describes a crawled document.
type Metadata struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Document pairs crawl metadata with the document's full text.
type Document struct {
	Metadata
	Text string `json:"-"`
}

// Normalizer converts raw HTML to plain text.
type Normalizer interface {
	Text(html string) string
}

// Coordinator crawls URL batches.
type Coordinator struct {
	fetch   fetch.Service
	norm    Normalizer
	snippet int
	logger  *slog.Logger
}

// New creates a Coordinator. A non-positive snippet length uses DefaultSnippet.
func New(f fetch.Service, norm Normalizer, snippet int, logger *slog.Logger) *Coordinator {
	if snippet <= 0 {
		snippet = DefaultSnippet
	}
	return &Coordinator{
		fetch:   f,
		norm:    norm,
		snippet: snippet,
		logger:  logger.With("system", "crawl"),
	}
}

// Crawl fetches urls and returns the documents that carry text and pass the
// recency filter. A minYear of zero disables the filter. When allowWiki is set,
// Wikipedia documents pass regardless of the years they mention.
func (c *Coordinator) Crawl(ctx context.Context, urls []string, minYear int, allowWiki bool) []Document {
	if len(urls) == 0 {
		return nil
	}

	var docs []Document
	for _, res := range c.fetch.Fetch(ctx, urls) {
		if res.Text == "" {
			continue
		}

		text := res.Text
		if !strings.Contains(strings.ToLower(res.MIME), "pdf") {
			text = c.norm.Text(text)
		}

		if !Recent(res.URL, text, minYear, allowWiki) {
			c.logger.DebugContext(ctx, "document filtered by year", "url", res.URL, "min_year", minYear)
			continue
		}

		docs = append(docs, Document{
			Metadata: Metadata{
				URL:     res.URL,
				Title:   fetchedTitle,
				Snippet: formatting.Truncate(text, c.snippet),
			},
			Text: text,
		})
	}

	c.logger.InfoContext(ctx, "crawl complete", "requested", len(urls), "kept", len(docs))
	return docs
}

// Recent reports whether text satisfies the minimum-year rule for url.
func Recent(url, text string, minYear int, allowWiki bool) bool {
	if minYear <= 0 {
		return true
	}
	if allowWiki && guard.IsWikipedia(url) {
		return true
	}
	for _, m := range yearToken.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y >= minYear {
			return true
		}
	}
	return false
}
