// Package risk aligns product feature text against a catalog of compliance
// obligations and folds the resulting coverage gaps into a bounded risk score.
package risk

import (
	"encoding/json"
	"slices"
)

// Severity is the weight class of an obligation.
type Severity string

// Severity values.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityWeights = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// Weight returns the severity multiplier. Unknown severities weigh 1.
func (s Severity) Weight() int {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return 1
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	_, ok := severityWeights[s]
	return ok
}

// Coverage describes how well text addresses an obligation.
type Coverage string

// Coverage values.
const (
	CoverageNone       Coverage = "none"
	CoveragePartial    Coverage = "partial"
	CoverageSufficient Coverage = "sufficient"
)

var coverages = []Coverage{CoverageNone, CoveragePartial, CoverageSufficient}

// Valid reports whether c is a known coverage state.
func (c Coverage) Valid() bool {
	return slices.Contains(coverages, c)
}

// Obligation is a static catalog entry.
type Obligation struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Severity   Severity `json:"severity"`
	RegionHint string   `json:"region_hint"`
	Positive   []string `json:"positive_keywords"`
	Negative   []string `json:"negative_keywords"`
}

// Alignment is the coverage verdict for one obligation.
type Alignment struct {
	RegulationID string   `json:"regulation_id"`
	ObligationID string   `json:"obligation_id"`
	Title        string   `json:"title"`
	Coverage     Coverage `json:"coverage"`
	Severity     Severity `json:"severity"`
	Reason       string   `json:"reason"`
}

// Citation links a label to a source URL.
type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Driver is a human-readable summary of a coverage gap.
type Driver struct {
	Issue     string   `json:"issue"`
	Severity  Severity `json:"severity"`
	Coverage  Coverage `json:"coverage"`
	Rationale string   `json:"rationale"`
}

// LawSource is a discovered legal source passed through as classifier context.
type LawSource struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Jurisdiction string `json:"jurisdiction"`
	Snippet      string `json:"snippet"`
}

// LawAgentInput carries sources produced by discovery.
type LawAgentInput struct {
	Sources []LawSource `json:"sources"`
}

// UserPolicy is the product description being assessed.
type UserPolicy struct {
	Topic          string   `json:"topic"`
	Description    string   `json:"description"`
	DocumentPoints []string `json:"document_points"`
}

// Request is the input to an assessment.
// A nil UseExternalOracle defers to the configured strategy.
type Request struct {
	LawAgentInput     *LawAgentInput `json:"law_agent_input,omitempty"`
	UserPolicy        *UserPolicy    `json:"user_policy,omitempty"`
	UseExternalOracle *bool          `json:"use_external_oracle,omitempty"`
}

// Report is the result of an assessment.
type Report struct {
	RunID              string      `json:"run_id"`
	Regions            []string    `json:"regions"`
	RegulationsHit     []string    `json:"regulations_hit"`
	RiskScore          int         `json:"risk_score"`
	RiskLevel          Level       `json:"risk_level"`
	Raw                float64     `json:"raw"`
	Why                []Driver    `json:"why"`
	Obligations        []Alignment `json:"obligations"`
	AuditCitations     []Citation  `json:"audit_citations"`
	AsOf               string      `json:"as_of"`
	UsedExternalOracle bool        `json:"used_external_oracle"`
}

// UnmarshalJSON accepts document_points entries of any JSON scalar type.
func (p *UserPolicy) UnmarshalJSON(data []byte) error {
	var raw struct {
		Topic          string            `json:"topic"`
		Description    string            `json:"description"`
		DocumentPoints []json.RawMessage `json:"document_points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Topic = raw.Topic
	p.Description = raw.Description
	p.DocumentPoints = make([]string, 0, len(raw.DocumentPoints))
	for _, point := range raw.DocumentPoints {
		var s string
		if err := json.Unmarshal(point, &s); err == nil {
			p.DocumentPoints = append(p.DocumentPoints, s)
			continue
		}
		p.DocumentPoints = append(p.DocumentPoints, string(point))
	}
	return nil
}
