package oracle_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/oracle"
	"github.com/JaimeStill/lawfinder/internal/prompts"
	"github.com/JaimeStill/lawfinder/internal/risk"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type chatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type fakeOracle struct {
	mu       sync.Mutex
	status   int
	content  string
	requests []chatRequest
}

func (f *fakeOracle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	var req chatRequest
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	status, content := f.status, f.content
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	})
}

func newClient(t *testing.T, f *fakeOracle) *oracle.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return oracle.New(oracle.Options{
		BaseURL: srv.URL + "/v1/",
		APIKey:  "test-key",
		Model:   "test-model",
	}, discard())
}

func TestTemperatureScope(t *testing.T) {
	c := risk.UtahCatalog()
	f := &fakeOracle{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client := oracle.New(oracle.Options{
		BaseURL:     srv.URL + "/v1/",
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.7,
	}, discard())

	f.content = `{"scores":[5]}`
	if _, err := oracle.NewScorer(client, prompts.Defaults(), discard()).Score(context.Background(), "feature", nil, candidates(1)); err != nil {
		t.Fatalf("score: %v", err)
	}

	f.content = alignContent(t, c, nil)
	if _, err := oracle.NewClassifier(client, prompts.Defaults(), discard()).Classify(context.Background(), "text", nil, c); err != nil {
		t.Fatalf("classify: %v", err)
	}

	if len(f.requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(f.requests))
	}
	tests := []struct {
		name string
		req  chatRequest
		want float64
	}{
		{"rank", f.requests[0], oracle.RankTemperature},
		{"align", f.requests[1], 0.7},
	}
	for _, tt := range tests {
		if tt.req.Temperature == nil {
			t.Errorf("%s: temperature missing", tt.name)
			continue
		}
		if *tt.req.Temperature != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, *tt.req.Temperature, tt.want)
		}
	}
}

func candidates(n int) []crawl.Metadata {
	out := make([]crawl.Metadata, n)
	for i := range out {
		out[i] = crawl.Metadata{URL: "https://le.utah.gov/" + string(rune('a'+i)), Title: "Fetched", Snippet: "minors"}
	}
	return out
}

func TestDisabled(t *testing.T) {
	c := oracle.New(oracle.Options{}, discard())
	if c.Enabled() {
		t.Fatal("client without key should be disabled")
	}

	_, err := oracle.NewScorer(c, prompts.Defaults(), discard()).Score(context.Background(), "f", nil, candidates(1))
	if !errors.Is(err, oracle.ErrDisabled) {
		t.Errorf("got %v, want %v", err, oracle.ErrDisabled)
	}

	_, err = oracle.NewClassifier(c, prompts.Defaults(), discard()).Classify(context.Background(), "t", nil, risk.UtahCatalog())
	if !errors.Is(err, oracle.ErrDisabled) {
		t.Errorf("got %v, want %v", err, oracle.ErrDisabled)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []float64
	}{
		{"object clamps and zeroes", `{"scores":[12,"4","x"]}`, 4, []float64{10, 4, 0, 0}},
		{"fenced bare array", "```json\n[3, 5.5]\n```", 2, []float64{3, 5.5}},
		{"negative clamps", `{"scores":[-2]}`, 1, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeOracle{content: tt.content}
			s := oracle.NewScorer(newClient(t, f), prompts.Defaults(), discard())

			got, err := s.Score(context.Background(), "PF for minors under ASL", []string{"Utah"}, candidates(tt.n))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d scores, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("score %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScorePrompt(t *testing.T) {
	f := &fakeOracle{content: `{"scores":[1]}`}
	s := oracle.NewScorer(newClient(t, f), prompts.Defaults(), discard())

	long := crawl.Metadata{URL: "https://le.utah.gov/x", Title: "Act", Snippet: strings.Repeat("s", 500)}
	if _, err := s.Score(context.Background(), "Curfew via GH", []string{"Utah", "EU"}, []crawl.Metadata{long}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(f.requests))
	}
	req := f.requests[0]
	if req.Model != "test-model" {
		t.Errorf("model: got %s, want test-model", req.Model)
	}
	if req.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format: got %s, want json_schema", req.ResponseFormat.Type)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}

	user := req.Messages[1].Content
	for _, want := range []string{"Jellybean = ", "Jurisdiction(s): Utah, EU", "1. https://le.utah.gov/x", "Title: Act"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	if strings.Contains(user, strings.Repeat("s", oracle.SnippetLimit+1)) {
		t.Error("snippet not truncated")
	}
}

func TestScoreEmptyCandidates(t *testing.T) {
	f := &fakeOracle{content: `{"scores":[]}`}
	s := oracle.NewScorer(newClient(t, f), prompts.Defaults(), discard())

	got, err := s.Score(context.Background(), "f", nil, nil)
	if err != nil || got != nil {
		t.Errorf("got %v, %v, want nil, nil", got, err)
	}
	if len(f.requests) != 0 {
		t.Errorf("got %d requests, want 0", len(f.requests))
	}
}

func TestScoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		oracle *fakeOracle
		want   error
	}{
		{"server error", &fakeOracle{status: http.StatusInternalServerError}, oracle.ErrRequest},
		{"not json", &fakeOracle{content: "I think page one is great"}, oracle.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := oracle.NewScorer(newClient(t, tt.oracle), prompts.Defaults(), discard())
			_, err := s.Score(context.Background(), "f", nil, candidates(2))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if tt.name == "server error" && len(tt.oracle.requests) != 1 {
				t.Errorf("got %d requests, want 1 (no retries)", len(tt.oracle.requests))
			}
		})
	}
}

func alignContent(t *testing.T, c *risk.Catalog, mutate func([]map[string]string) []map[string]string) string {
	t.Helper()
	items := make([]map[string]string, 0, len(c.Obligations))
	for _, o := range c.Obligations {
		items = append(items, map[string]string{
			"regulation_id": c.RegulationID,
			"obligation_id": o.ID,
			"title":         o.Title,
			"coverage":      "sufficient",
			"severity":      string(o.Severity),
			"reason":        strings.Repeat("r", 250),
		})
	}
	if mutate != nil {
		items = mutate(items)
	}
	data, err := json.Marshal(map[string]any{"obligation_alignments": items})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestClassify(t *testing.T) {
	c := risk.UtahCatalog()
	f := &fakeOracle{content: alignContent(t, c, nil)}
	cl := oracle.NewClassifier(newClient(t, f), prompts.Defaults(), discard())

	sources := []risk.LawSource{{URL: "https://le.utah.gov/a", Title: "SB 152"}}
	aligns, err := cl.Classify(context.Background(), "parental consent", sources, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(aligns) != len(c.Obligations) {
		t.Fatalf("got %d alignments, want %d", len(aligns), len(c.Obligations))
	}
	for _, a := range aligns {
		if a.Coverage != risk.CoverageSufficient {
			t.Errorf("%s coverage: got %s, want sufficient", a.ObligationID, a.Coverage)
		}
		if len(a.Reason) != risk.MaxReason {
			t.Errorf("reason length: got %d, want %d", len(a.Reason), risk.MaxReason)
		}
	}

	user := f.requests[0].Messages[1].Content
	for _, want := range []string{`"PRODUCT_TEXT":"parental consent"`, `"AGE_VERIFICATION"`, `"SB 152"`} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %s", want)
		}
	}
}

func TestClassifyErrors(t *testing.T) {
	c := risk.UtahCatalog()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name: "missing obligation",
			content: alignContent(t, c, func(items []map[string]string) []map[string]string {
				return items[:len(items)-1]
			}),
			want: oracle.ErrIncomplete,
		},
		{
			name: "invented obligation",
			content: alignContent(t, c, func(items []map[string]string) []map[string]string {
				return append(items, map[string]string{"obligation_id": "MADE_UP"})
			}),
			want: oracle.ErrIncomplete,
		},
		{
			name: "bad coverage",
			content: alignContent(t, c, func(items []map[string]string) []map[string]string {
				items[0]["coverage"] = "maybe"
				return items
			}),
			want: oracle.ErrMalformed,
		},
		{name: "wrong key", content: `{"alignments":[]}`, want: oracle.ErrMalformed},
		{name: "not json", content: "sorry", want: oracle.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeOracle{content: tt.content}
			cl := oracle.NewClassifier(newClient(t, f), prompts.Defaults(), discard())

			_, err := cl.Classify(context.Background(), "text", nil, c)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClassifierFeedsRiskFallback(t *testing.T) {
	c := risk.UtahCatalog()
	f := &fakeOracle{status: http.StatusBadGateway}
	cl := oracle.NewClassifier(newClient(t, f), prompts.Defaults(), discard())

	sys := risk.New(c, cl, risk.Options{External: true}, discard())
	report, err := sys.Assess(context.Background(), risk.Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.UsedExternalOracle {
		t.Error("used_external_oracle: got true, want false")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{oracle.ErrDisabled, http.StatusServiceUnavailable},
		{oracle.ErrRequest, http.StatusBadGateway},
		{oracle.ErrMalformed, http.StatusBadGateway},
		{oracle.ErrIncomplete, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := oracle.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}
