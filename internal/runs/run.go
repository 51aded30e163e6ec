// Package runs orchestrates combined feature analyses (source discovery plus
// risk assessment) and keeps their history in Postgres.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/risk"
)

// Run is a persisted feature analysis.
type Run struct {
	ID          uuid.UUID `json:"id"`
	RunID       string    `json:"run_id"`
	RunTime     time.Time `json:"run_time"`
	FeatureName string    `json:"feature_name"`
	Description string    `json:"description"`
	IndexID     string    `json:"index_id"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   string    `json:"risk_level"`
	Rationale   string    `json:"rationale"`
	Regions     []string  `json:"regions"`
	Regulations []string  `json:"regulations"`
}

// AnalyzeCommand is the input to a combined analysis.
type AnalyzeCommand struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Regions     []string `json:"regions"`
}

// Findings merges discovery and assessment results for display.
type Findings struct {
	RegionsHit     []string `json:"regions_hit"`
	RegulationsHit []string `json:"regulations_hit"`
	KeyObligations []string `json:"key_obligations"`
	Citations      []string `json:"citations"`
	EvidenceURLs   []string `json:"evidence_urls"`
}

// Score is the headline risk figure with its rationale.
type Score struct {
	Value     int        `json:"value"`
	Level     risk.Level `json:"level"`
	Rationale string     `json:"rationale"`
}

// Raw carries the unmerged outputs of both pipelines.
type Raw struct {
	Discovery *discovery.Result `json:"discovery"`
	Risk      *risk.Report      `json:"risk"`
}

// Analysis is the result of Analyze. ID is set when the run was persisted.
type Analysis struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Findings Findings   `json:"findings"`
	Score    Score      `json:"score"`
	Raw      Raw        `json:"raw"`
}
