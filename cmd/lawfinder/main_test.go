package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/pipeline"
	"github.com/JaimeStill/lawfinder/internal/risk"
)

type stubDiscovery struct {
	got discovery.Request
}

func (s *stubDiscovery) Handler() *discovery.Handler { return nil }

func (s *stubDiscovery) Discover(_ context.Context, req discovery.Request) (*discovery.Result, error) {
	s.got = req
	return &discovery.Result{
		IndexID: "0123456789ab",
		Sources: []discovery.Source{{URL: "https://le.utah.gov/", Title: "Utah Legislature", Jurisdiction: "Utah"}},
	}, nil
}

func run(t *testing.T, disc *stubDiscovery, args ...string) (string, error) {
	t.Helper()

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	build := func(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
		return &pipeline.Pipeline{
			Discovery: disc,
			Risk:      risk.New(risk.UtahCatalog(), nil, risk.Options{Region: cfg.Risk.Region}, logger),
		}
	}

	var out bytes.Buffer
	cmd := newRootCmd(build)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestDiscover(t *testing.T) {
	disc := &stubDiscovery{}
	out, err := run(t, disc, "discover", "teen", "curfew", "--regions", "Utah,EU")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if disc.got.FeatureSummary != "teen curfew" {
		t.Errorf("summary: got %q, want %q", disc.got.FeatureSummary, "teen curfew")
	}
	if len(disc.got.Regions) != 2 || disc.got.Regions[1] != "EU" {
		t.Errorf("regions: got %v, want [Utah EU]", disc.got.Regions)
	}
	if disc.got.MinYear != nil {
		t.Errorf("min year: got %d, want unset", *disc.got.MinYear)
	}

	var result discovery.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if result.IndexID != "0123456789ab" || len(result.Sources) != 1 {
		t.Errorf("got %+v", result)
	}
}

func TestDiscoverMinYear(t *testing.T) {
	disc := &stubDiscovery{}
	if _, err := run(t, disc, "discover", "feed", "--min-year", "0"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if disc.got.MinYear == nil || *disc.got.MinYear != 0 {
		t.Errorf("min year: got %v, want 0", disc.got.MinYear)
	}
}

func TestDiscoverRequiresSummary(t *testing.T) {
	if _, err := run(t, &stubDiscovery{}, "discover"); err == nil {
		t.Error("expected an argument error")
	}
}

func TestAssess(t *testing.T) {
	out, err := run(t, &stubDiscovery{},
		"assess",
		"--topic", "Teen accounts",
		"--description", "age verification with parental consent",
		"--point", "curfew at night",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var report risk.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(report.Obligations) != 8 {
		t.Errorf("obligations: got %d, want 8", len(report.Obligations))
	}
	if report.RiskLevel == "" {
		t.Error("risk level missing")
	}
}

func TestAssessRequiresTopic(t *testing.T) {
	if _, err := run(t, &stubDiscovery{}, "assess", "--description", "x"); err == nil {
		t.Error("expected a missing flag error")
	}
}
