// Package fetch retrieves documents over HTTP, extracting PDF text in-process.
// Every URL resolves to a Result; failures yield an empty Result rather than an error.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// MIMEPDF is the media type reported for extracted PDF text.
const MIMEPDF = "application/pdf"

// PDFLimit caps the bytes of a PDF handed to the extractor.
const PDFLimit = 500000

// Result is a fetched document. Text is empty when the fetch failed.
type Result struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	MIME string `json:"mime"`
}

// Service fetches a batch of URLs, returning one Result per input in input order.
type Service interface {
	Fetch(ctx context.Context, urls []string) []Result
}

// Options configures the HTTP client.
type Options struct {
	Timeout   time.Duration
	MaxConns  int
	MaxIdle   int
	MaxBody   int64
	UserAgent string
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxConns <= 0 {
		o.MaxConns = 20
	}
	if o.MaxIdle <= 0 {
		o.MaxIdle = 10
	}
	if o.MaxBody <= 0 {
		o.MaxBody = 5 << 20
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0"
	}
}

type client struct {
	http   *http.Client
	opts   Options
	logger *slog.Logger
}

// New creates an HTTP fetch service. Zero-valued options take defaults.
func New(opts Options, logger *slog.Logger) Service {
	opts.defaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = opts.MaxConns
	transport.MaxIdleConns = opts.MaxIdle
	transport.MaxIdleConnsPerHost = opts.MaxIdle

	return &client{
		http:   &http.Client{Transport: transport},
		opts:   opts,
		logger: logger.With("system", "fetch"),
	}
}

func (c *client) Fetch(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(c.opts.MaxConns)

	for i, u := range urls {
		g.Go(func() error {
			res, err := c.fetchOne(ctx, u)
			if err != nil {
				c.logger.Warn("fetch failed", "url", u, "error", err)
				res = Result{URL: u}
			}
			results[i] = res
			return nil
		})
	}

	g.Wait()
	return results
}

func (c *client) fetchOne(ctx context.Context, u string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")

	if IsPDF(u, contentType) {
		data, err := io.ReadAll(io.LimitReader(resp.Body, PDFLimit))
		if err != nil {
			return Result{}, fmt.Errorf("read pdf: %w", err)
		}
		text, err := ExtractPDF(data)
		if err != nil {
			return Result{}, err
		}
		return Result{URL: u, Text: text, MIME: MIMEPDF}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBody))
	if err != nil {
		return Result{}, fmt.Errorf("read body: %w", err)
	}

	return Result{URL: u, Text: string(body), MIME: contentType}, nil
}

// IsPDF reports whether a response should be treated as PDF.
func IsPDF(u, contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), MIMEPDF) ||
		strings.HasSuffix(strings.ToLower(u), ".pdf")
}
