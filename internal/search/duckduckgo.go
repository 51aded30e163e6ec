package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultEndpoint is the DuckDuckGo HTML results page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML results page.
type DuckDuckGo struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

// NewDuckDuckGo returns an engine for endpoint, or DefaultEndpoint when empty.
func NewDuckDuckGo(endpoint string, timeout time.Duration) *DuckDuckGo {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &DuckDuckGo{
		Endpoint:  endpoint,
		UserAgent: "Mozilla/5.0",
		Client:    &http.Client{Timeout: timeout},
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	form := url.Values{"q": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	var hits []Hit
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(hits) >= k {
			return false
		}
		link := s.Find(".result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := resolve(href)
		if target == "" {
			return true
		}
		hits = append(hits, Hit{
			URL:     target,
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
		return true
	})

	return hits, nil
}

// resolve unwraps DuckDuckGo redirect links to their target URL.
func resolve(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		return u.Query().Get("uddg")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
