// Package planner expands a feature summary and region list into search queries.
package planner

import (
	"fmt"
	"strings"
)

// Planner holds per-region site restrictions and the closing query.
type Planner struct {
	Sites   map[string][]string
	Closing string
}

// Default returns the built-in planner.
func Default() *Planner {
	eu := []string{"site:eur-lex.europa.eu", "site:ec.europa.eu", "site:op.europa.eu"}

	return &Planner{
		Sites: map[string][]string{
			"utah":           {"site:le.utah.gov", "site:dcp.utah.gov", "site:socialmedia.utah.gov"},
			"florida":        {"site:flsenate.gov", "site:myfloridahouse.gov"},
			"eu":             eu,
			"european union": eu,
			"california":     {"site:leginfo.legislature.ca.gov", "site:oag.ca.gov"},
		},
		Closing: "%s minors site:ncmec.org",
	}
}

// Queries returns the ordered, deduplicated search queries for summary and regions.
func (p *Planner) Queries(summary string, regions []string) []string {
	var qs []string
	for _, r := range regions {
		for _, site := range p.Sites[strings.ToLower(r)] {
			qs = append(qs, fmt.Sprintf("%s %s", summary, site))
		}
		qs = append(qs, fmt.Sprintf("%s %s regulation site:.gov", summary, r))
	}
	if p.Closing != "" {
		qs = append(qs, fmt.Sprintf(p.Closing, summary))
	}
	return dedupe(qs)
}

func dedupe(qs []string) []string {
	seen := make(map[string]struct{}, len(qs))
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
