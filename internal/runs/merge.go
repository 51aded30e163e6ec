package runs

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/risk"
)

const noRationale = "No rationale provided"

// Merge combines a discovery result and a risk report into display findings.
// Every list is deduplicated in first-seen order with empty entries dropped.
func Merge(d *discovery.Result, r *risk.Report) Findings {
	var evidence []string
	if d != nil {
		for _, s := range d.Sources {
			evidence = append(evidence, s.URL)
		}
	}

	var (
		regions, regulations, obligations, citations []string
	)
	if r != nil {
		regions = r.Regions
		regulations = r.RegulationsHit
		for _, a := range r.Obligations {
			obligations = append(obligations, describeObligation(a))
		}
		for _, c := range r.AuditCitations {
			citations = append(citations, describeCitation(c))
			evidence = append(evidence, c.URL)
		}
	}

	return Findings{
		RegionsHit:     unique(regions),
		RegulationsHit: unique(regulations),
		KeyObligations: unique(obligations),
		Citations:      unique(citations),
		EvidenceURLs:   unique(evidence),
	}
}

// Rationale renders up to three drivers as bullet lines.
func Rationale(why []risk.Driver) string {
	if len(why) == 0 {
		return noRationale
	}

	lines := make([]string, 0, min(3, len(why)))
	for _, w := range why[:min(3, len(why))] {
		issue := w.Issue
		if issue == "" {
			issue = "Issue"
		}
		line := "• " + issue
		if w.Severity != "" {
			line += fmt.Sprintf(" [%s]", w.Severity)
		}
		if w.Coverage != "" {
			line += fmt.Sprintf(" (%s)", w.Coverage)
		}
		line += ": " + w.Rationale
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

func describeObligation(a risk.Alignment) string {
	title := a.Title
	if title == "" {
		title = a.ObligationID
	}
	s := title
	if a.Coverage != "" {
		s += " - " + string(a.Coverage)
	}
	if a.Severity != "" {
		s += fmt.Sprintf(" (%s)", a.Severity)
	}
	if a.Reason != "" {
		s += ": " + a.Reason
	}
	return s
}

func describeCitation(c risk.Citation) string {
	label := c.Label
	if label == "" {
		label = "Source"
	}
	if c.URL == "" {
		return label
	}
	return label + " - " + c.URL
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
