package runs_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/risk"
	"github.com/JaimeStill/lawfinder/internal/runs"
	"github.com/JaimeStill/lawfinder/pkg/pagination"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sourceURL = "https://le.utah.gov/~2023/bills/static/SB0152.html"

type stubDiscovery struct {
	requests []discovery.Request
}

func (s *stubDiscovery) Handler() *discovery.Handler { return nil }

func (s *stubDiscovery) Discover(_ context.Context, req discovery.Request) (*discovery.Result, error) {
	s.requests = append(s.requests, req)
	return &discovery.Result{
		IndexID: "abc123abc123",
		Sources: []discovery.Source{{URL: sourceURL, Title: "Fetched", Jurisdiction: "Utah", Snippet: "minors"}},
	}, nil
}

func newRepo(t *testing.T) (runs.System, sqlmock.Sqlmock, *stubDiscovery) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	disc := &stubDiscovery{}
	sys := runs.New(
		db,
		disc,
		risk.New(risk.UtahCatalog(), nil, risk.Options{}, discard()),
		discard(),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	return sys, mock, disc
}

func expectSave(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feature_runs")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Teen curfew", "Blocks logins at night", "abc123abc123",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO regions(name)")).
		WithArgs("Utah").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_regions(run_id, region_id)")).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO regulations(name)")).
		WithArgs("Utah Social Media Regulation Act (2023)").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO run_regulations(run_id, regulation_id)")).
		WithArgs(sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestAnalyze(t *testing.T) {
	sys, mock, disc := newRepo(t)
	expectSave(mock)

	analysis, err := sys.Analyze(context.Background(), runs.AnalyzeCommand{
		Title:       " Teen curfew ",
		Description: "Blocks logins at night",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	if analysis.ID == nil {
		t.Error("expected persisted id")
	}

	req := disc.requests[0]
	if req.FeatureSummary != "Teen curfew\n\nBlocks logins at night" {
		t.Errorf("summary: got %q", req.FeatureSummary)
	}
	if len(req.Regions) != 1 || req.Regions[0] != runs.DefaultRegion {
		t.Errorf("regions: got %v, want [global]", req.Regions)
	}
	if req.MinYear == nil || *req.MinYear != 2023 {
		t.Errorf("min_year: got %v, want 2023", req.MinYear)
	}

	f := analysis.Findings
	if len(f.KeyObligations) != 8 {
		t.Errorf("key obligations: got %d, want 8", len(f.KeyObligations))
	}
	if len(f.EvidenceURLs) != 3 || f.EvidenceURLs[0] != sourceURL {
		t.Errorf("evidence: got %v", f.EvidenceURLs)
	}
	if !strings.HasPrefix(analysis.Score.Rationale, "• ") {
		t.Errorf("rationale: got %q", analysis.Score.Rationale)
	}
	if analysis.Raw.Risk.UsedExternalOracle {
		t.Error("analysis must use the heuristic strategy")
	}
}

func TestAnalyzePersistFailure(t *testing.T) {
	sys, mock, _ := newRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	analysis, err := sys.Analyze(context.Background(), runs.AnalyzeCommand{Title: "t", Description: "d", Regions: []string{"Utah"}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.ID != nil {
		t.Error("id should be nil when persistence fails")
	}
	if analysis.Score.Level == "" {
		t.Error("score should still be returned")
	}
}

func TestAnalyzeInvalid(t *testing.T) {
	sys, _, disc := newRepo(t)

	_, err := sys.Analyze(context.Background(), runs.AnalyzeCommand{Title: "t"})
	if !errors.Is(err, runs.ErrInvalidCommand) {
		t.Errorf("got %v, want %v", err, runs.ErrInvalidCommand)
	}
	if len(disc.requests) != 0 {
		t.Error("discovery ran for an invalid command")
	}
}

var runColumns = []string{
	"id", "run_id", "run_time", "feature_name", "description", "index_id",
	"risk_score", "risk_level", "rationale", "regions", "regulations",
}

func TestList(t *testing.T) {
	sys, mock, _ := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM public\.feature_runs r WHERE .*::jsonb @> to_jsonb\(\$1::text\)`).
		WithArgs("Utah").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT r\.id, r\.run_id`).
		WithArgs("Utah").
		WillReturnRows(sqlmock.NewRows(runColumns).AddRow(
			id.String(), "4f1c2d3e4f5a", time.Now(), "Teen curfew", "d", "abc123abc123",
			39, "MODERATE", "• x", []byte(`["Utah"]`), []byte(`[]`),
		))

	region := "Utah"
	result, err := sys.List(context.Background(), pagination.PageRequest{}, runs.Filters{Region: &region})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	if result.Total != 1 || len(result.Data) != 1 {
		t.Fatalf("got total %d with %d rows, want 1", result.Total, len(result.Data))
	}
	run := result.Data[0]
	if run.ID != id {
		t.Errorf("id: got %s, want %s", run.ID, id)
	}
	if len(run.Regions) != 1 || run.Regions[0] != "Utah" {
		t.Errorf("regions: got %v", run.Regions)
	}
	if run.Regulations == nil || len(run.Regulations) != 0 {
		t.Errorf("regulations: got %v, want empty", run.Regulations)
	}
}

func TestFindNotFound(t *testing.T) {
	sys, mock, _ := newRepo(t)
	mock.ExpectQuery(`SELECT r\.id`).WillReturnRows(sqlmock.NewRows(runColumns))

	_, err := sys.Find(context.Background(), uuid.New())
	if !errors.Is(err, runs.ErrNotFound) {
		t.Errorf("got %v, want %v", err, runs.ErrNotFound)
	}
}

func TestRationale(t *testing.T) {
	why := []risk.Driver{
		{Issue: "Age verification", Severity: risk.SeverityHigh, Coverage: risk.CoverageNone, Rationale: "missing"},
		{Issue: "", Rationale: "bare"},
		{Issue: "c"}, {Issue: "d"},
	}

	got := runs.Rationale(why)
	want := "• Age verification [high] (none): missing\n• Issue: bare\n• c:"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := runs.Rationale(nil); got != "No rationale provided" {
		t.Errorf("empty: got %q", got)
	}
}

func TestMerge(t *testing.T) {
	d := &discovery.Result{Sources: []discovery.Source{{URL: "https://a.gov"}, {URL: "https://a.gov"}}}
	r := &risk.Report{
		Regions:        []string{"Utah", "Utah"},
		RegulationsHit: []string{"Act"},
		AuditCitations: []risk.Citation{{Label: "PDF", URL: "https://a.gov"}, {Label: "Site"}},
	}

	f := runs.Merge(d, r)
	if len(f.RegionsHit) != 1 {
		t.Errorf("regions: got %v", f.RegionsHit)
	}
	if len(f.EvidenceURLs) != 1 {
		t.Errorf("evidence: got %v", f.EvidenceURLs)
	}
	if len(f.Citations) != 2 || f.Citations[0] != "PDF - https://a.gov" || f.Citations[1] != "Site" {
		t.Errorf("citations: got %v", f.Citations)
	}
}

func TestHandler(t *testing.T) {
	sys, mock, _ := newRepo(t)
	mux := http.NewServeMux()
	for _, r := range sys.Handler().Routes().Routes {
		mux.HandleFunc(r.Method+" /runs"+r.Pattern, r.Handler)
	}

	t.Run("analyze missing description", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/runs/analyze", strings.NewReader(`{"title":"t"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("analyze", func(t *testing.T) {
		expectSave(mock)
		body := `{"title":"Teen curfew","description":"Blocks logins at night"}`
		req := httptest.NewRequest(http.MethodPost, "/runs/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var analysis runs.Analysis
		if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if analysis.Raw.Discovery == nil || analysis.Raw.Discovery.IndexID != "abc123abc123" {
			t.Errorf("raw discovery: got %+v", analysis.Raw.Discovery)
		}
	})

	t.Run("find invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("find missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT r\.id`).WillReturnRows(sqlmock.NewRows(runColumns))
		req := httptest.NewRequest(http.MethodGet, "/runs/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
