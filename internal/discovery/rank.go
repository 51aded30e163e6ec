package discovery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/guard"
	"github.com/JaimeStill/lawfinder/internal/seeds"
)

// RelevanceWeight scales oracle relevance in the final score.
const RelevanceWeight = 10.0

const untitled = "Untitled"

// Candidates deduplicates allowed docs by trimmed lower-cased URL in crawl
// order and attaches host weights.
func Candidates(docs []crawl.Document, policy *guard.Policy, regions []string) []Candidate {
	seen := make(map[string]bool, len(docs))
	var out []Candidate
	for _, d := range docs {
		key := seeds.Key(d.URL)
		if seen[key] || !policy.Allowed(d.URL, regions) {
			continue
		}
		seen[key] = true

		title := d.Title
		if title == "" {
			title = untitled
		}

		out = append(out, Candidate{
			Source: Source{
				URL:          d.URL,
				Title:        title,
				Jurisdiction: guard.Jurisdiction(d.URL, regions),
				Snippet:      strings.TrimSpace(d.Snippet),
			},
			HostScore: policy.HostWeight(d.URL),
		})
	}
	return out
}

// Rank scores candidates, sorts them by final score with ties kept in input
// order, drops Wikipedia when other evidence exists, and keeps the first topN.
// Missing scores count as 0 and every score is clamped to [0, 10].
func Rank(candidates []Candidate, scores []float64, topN int) []Candidate {
	ranked := slices.Clone(candidates)
	for i := range ranked {
		rel := 0.0
		if i < len(scores) {
			rel = max(0, min(10, scores[i]))
		}
		ranked[i].Relevance = rel
		ranked[i].FinalScore = float64(ranked[i].HostScore) + RelevanceWeight*rel
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		return cmp.Compare(b.FinalScore, a.FinalScore)
	})

	if slices.ContainsFunc(ranked, func(c Candidate) bool { return !guard.IsWikipedia(c.URL) }) {
		ranked = slices.DeleteFunc(ranked, func(c Candidate) bool { return guard.IsWikipedia(c.URL) })
	}

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func metadata(candidates []Candidate) []crawl.Metadata {
	out := make([]crawl.Metadata, len(candidates))
	for i, c := range candidates {
		out[i] = crawl.Metadata{URL: c.URL, Title: c.Title, Snippet: c.Snippet}
	}
	return out
}
