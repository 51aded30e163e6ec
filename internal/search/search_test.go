package search_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/lawfinder/internal/search"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubEngine struct {
	calls  atomic.Int32
	active atomic.Int32
	peak   atomic.Int32
	hits   map[string][]search.Hit
}

func (s *stubEngine) Search(_ context.Context, q string, _ int) ([]search.Hit, error) {
	s.calls.Add(1)
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if q == "fail" {
		return nil, errors.New("boom")
	}
	return s.hits[q], nil
}

func TestParallel(t *testing.T) {
	engine := &stubEngine{hits: map[string][]search.Hit{
		"a": {{URL: "https://a.gov/1"}, {URL: "https://a.gov/2"}},
		"b": {{URL: "https://b.gov/1"}},
	}}
	r := search.NewRunner(engine, search.Options{Workers: 2, PerQuery: 6}, discard())

	got := r.Parallel(context.Background(), []string{"a", "fail", "b", "a"})

	if engine.calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", engine.calls.Load())
	}

	want := []string{"https://a.gov/1", "https://a.gov/2", "https://b.gov/1"}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i, h := range got {
		if h.URL != want[i] {
			t.Errorf("hits[%d]: got %q, want %q", i, h.URL, want[i])
		}
	}
}

func TestParallelBoundsWorkers(t *testing.T) {
	engine := &stubEngine{hits: map[string][]search.Hit{}}
	r := search.NewRunner(engine, search.Options{Workers: 2}, discard())

	r.Parallel(context.Background(), []string{"1", "2", "3", "4", "5", "6"})

	if p := engine.peak.Load(); p > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", p)
	}
}

func TestParallelCapsPerQuery(t *testing.T) {
	engine := &stubEngine{hits: map[string][]search.Hit{
		"a": {{URL: "1"}, {URL: "2"}, {URL: "3"}},
	}}
	r := search.NewRunner(engine, search.Options{PerQuery: 2}, discard())

	if got := r.Parallel(context.Background(), []string{"a"}); len(got) != 2 {
		t.Errorf("len: got %d, want 2", len(got))
	}
}

const resultsPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fle.utah.gov%2Fbill&amp;rut=x">Utah <b>Bill</b></a>
  <a class="result__snippet">Minors and  social media.</a>
</div>
<div class="result">
  <a class="result__a" href="https://www.flsenate.gov/Session/Bill/2024/3">HB 3</a>
  <div class="result__snippet">Online protections for minors</div>
</div>
<div class="result"><a class="result__a" href="javascript:void(0)">ad</a></div>
<div class="result">
  <a class="result__a" href="https://oag.ca.gov/privacy">CA AG</a>
</div>
</body></html>`

func TestDuckDuckGo(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		io.WriteString(w, resultsPage)
	}))
	defer srv.Close()

	engine := search.NewDuckDuckGo(srv.URL, time.Second)

	hits, err := engine.Search(context.Background(), "age verification site:le.utah.gov", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != "age verification site:le.utah.gov" {
		t.Errorf("query: got %q", gotQuery)
	}
	if len(hits) != 2 {
		t.Fatalf("len: got %d, want 2", len(hits))
	}

	want := []search.Hit{
		{URL: "https://le.utah.gov/bill", Title: "Utah Bill", Snippet: "Minors and  social media."},
		{URL: "https://www.flsenate.gov/Session/Bill/2024/3", Title: "HB 3", Snippet: "Online protections for minors"},
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("hits[%d]: got %+v, want %+v", i, hits[i], want[i])
		}
	}
}

func TestDuckDuckGoSkipsNonHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, resultsPage)
	}))
	defer srv.Close()

	hits, err := search.NewDuckDuckGo(srv.URL, time.Second).Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("len: got %d, want 3", len(hits))
	}
}

func TestDuckDuckGoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := search.NewDuckDuckGo(srv.URL, time.Second).Search(context.Background(), "q", 5); err == nil {
		t.Error("Search: expected error")
	}
}
