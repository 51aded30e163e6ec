package crawl_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/fetch"
	"github.com/JaimeStill/lawfinder/internal/normalize"
)

type stubFetch struct {
	results map[string]fetch.Result
	seen    []string
}

func (s *stubFetch) Fetch(_ context.Context, urls []string) []fetch.Result {
	s.seen = append(s.seen, urls...)
	out := make([]fetch.Result, len(urls))
	for i, u := range urls {
		if r, ok := s.results[u]; ok {
			out[i] = r
		} else {
			out[i] = fetch.Result{URL: u}
		}
	}
	return out
}

type upperNormalizer struct{ calls int }

func (u *upperNormalizer) Text(s string) string {
	u.calls++
	return strings.ToUpper(s)
}

func newCoordinator(f fetch.Service, n crawl.Normalizer) *crawl.Coordinator {
	return crawl.New(f, n, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCrawl(t *testing.T) {
	f := &stubFetch{results: map[string]fetch.Result{
		"https://le.utah.gov/a":           {URL: "https://le.utah.gov/a", Text: "enacted 2024", MIME: "text/html"},
		"https://dcp.utah.gov/b.pdf":      {URL: "https://dcp.utah.gov/b.pdf", Text: "effective 2023", MIME: fetch.MIMEPDF},
		"https://old.gov/c":               {URL: "https://old.gov/c", Text: "repealed 2021", MIME: "text/html"},
		"https://en.wikipedia.org/wiki/X": {URL: "https://en.wikipedia.org/wiki/X", Text: "no years here", MIME: "text/html"},
	}}
	norm := &upperNormalizer{}
	c := newCoordinator(f, norm)

	urls := []string{
		"https://le.utah.gov/a",
		"https://dcp.utah.gov/b.pdf",
		"https://old.gov/c",
		"https://en.wikipedia.org/wiki/X",
		"https://empty.gov/",
	}

	t.Run("wiki bypass", func(t *testing.T) {
		docs := c.Crawl(context.Background(), urls, 2023, true)
		got := urlsOf(docs)
		want := []string{"https://le.utah.gov/a", "https://dcp.utah.gov/b.pdf", "https://en.wikipedia.org/wiki/X"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("got %v, want %v", got, want)
		}
		if docs[0].Text != "ENACTED 2024" {
			t.Errorf("html normalized: got %q", docs[0].Text)
		}
		if docs[1].Text != "effective 2023" {
			t.Errorf("pdf untouched: got %q", docs[1].Text)
		}
		if docs[0].Title != "Fetched" {
			t.Errorf("title: got %q, want Fetched", docs[0].Title)
		}
	})

	t.Run("no bypass", func(t *testing.T) {
		docs := c.Crawl(context.Background(), urls, 2023, false)
		if len(docs) != 2 {
			t.Errorf("len: got %d, want 2 (%v)", len(docs), urlsOf(docs))
		}
	})

	t.Run("no min year", func(t *testing.T) {
		docs := c.Crawl(context.Background(), urls, 0, false)
		if len(docs) != 4 {
			t.Errorf("len: got %d, want 4", len(docs))
		}
	})
}

func TestCrawlEmpty(t *testing.T) {
	f := &stubFetch{}
	c := newCoordinator(f, normalize.New(0))

	if docs := c.Crawl(context.Background(), nil, 2023, true); docs != nil {
		t.Errorf("got %v, want nil", docs)
	}
	if len(f.seen) != 0 {
		t.Errorf("fetch called with %v", f.seen)
	}
}

func TestCrawlSnippet(t *testing.T) {
	long := strings.Repeat("ß", 300) + " 2025"
	f := &stubFetch{results: map[string]fetch.Result{
		"https://a.gov/": {URL: "https://a.gov/", Text: long, MIME: fetch.MIMEPDF},
	}}
	docs := newCoordinator(f, normalize.New(0)).Crawl(context.Background(), []string{"https://a.gov/"}, 2023, false)

	if len(docs) != 1 {
		t.Fatalf("len: got %d, want 1", len(docs))
	}
	if n := utf8.RuneCountInString(docs[0].Snippet); n != crawl.DefaultSnippet {
		t.Errorf("snippet runes: got %d, want %d", n, crawl.DefaultSnippet)
	}
}

func TestRecent(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		text      string
		minYear   int
		allowWiki bool
		want      bool
	}{
		{"older year rejected", "https://a.gov/", "signed 2021", 2023, false, false},
		{"mixed years accepted", "https://a.gov/", "1999 and 2023", 2023, false, true},
		{"embedded digits ignored", "https://a.gov/", "id 120245", 2023, false, false},
		{"no filter", "https://a.gov/", "", 0, false, true},
		{"wiki bypass", "https://en.wikipedia.org/wiki/X", "", 2023, true, true},
		{"wiki without bypass", "https://en.wikipedia.org/wiki/X", "", 2023, false, false},
		{"bypass ignored for others", "https://a.gov/", "", 2023, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crawl.Recent(tt.url, tt.text, tt.minYear, tt.allowWiki); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func urlsOf(docs []crawl.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.URL
	}
	return out
}
