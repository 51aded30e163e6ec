package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JaimeStill/lawfinder/internal/crawl"
	"github.com/JaimeStill/lawfinder/internal/prompts"
	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// SnippetLimit caps each candidate snippet in the ranking prompt.
const SnippetLimit = 350

// RankTemperature keeps relevance scoring deterministic. The configured
// temperature applies to obligation alignment only.
const RankTemperature = 0.0

// Glossary expands internal feature codenames for the ranking prompt.
var Glossary = [][2]string{
	{"NR", "Not recommended"},
	{"PF", "Personalized feed"},
	{"GH", "Geo-handler; module for routing features by user region"},
	{"CDS", "Compliance Detection System"},
	{"DRT", "Data retention threshold; duration for which logs can be stored"},
	{"LCP", "Local compliance policy"},
	{"Redline", "Flag for legal review (internal meaning; not 'financial loss')"},
	{"Softblock", "User-level limitation applied silently without notifications"},
	{"Spanner", "Synthetic name for a rule engine (not Google Spanner)"},
	{"ShadowMode", "Deploy feature in non-user-impact way to collect analytics only"},
	{"T5", "Tier 5 sensitivity data; more critical than T1-T4 internally"},
	{"ASL", "Age-sensitive logic (detects minor accounts)"},
	{"Glow", "Compliance-flagging status used to indicate geo-based alerts"},
	{"NSP", "Non-shareable policy (content should not be shared externally)"},
	{"Jellybean", "Internal parental control system codename"},
	{"EchoTrace", "Log tracing mode to verify compliance routing"},
	{"BB", "Baseline Behavior; standard user behavior used for anomaly detection"},
	{"Snowcap", "Synthetic codename for child safety policy framework"},
	{"FR", "Feature rollout status"},
	{"IMT", "Internal monitoring trigger"},
}

type rankResponse struct {
	Scores []float64 `json:"scores"`
}

type rawRankResponse struct {
	Scores []any `json:"scores"`
}

// Scorer rates candidate sources from 0 to 10 in a single batch call.
type Scorer struct {
	client  *Client
	prompts prompts.Source
	logger  *slog.Logger
}

// NewScorer creates a Scorer.
func NewScorer(client *Client, src prompts.Source, logger *slog.Logger) *Scorer {
	return &Scorer{
		client:  client,
		prompts: src,
		logger:  logger.With("system", "oracle.scorer"),
	}
}

// Score returns one score per candidate in input order. Missing or
// non-numeric entries score 0 and every score is clamped to [0, 10].
func (s *Scorer) Score(ctx context.Context, feature string, regions []string, candidates []crawl.Metadata) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	system, err := prompts.Compose(ctx, s.prompts, prompts.StageRank)
	if err != nil {
		return nil, err
	}

	content, err := s.client.complete(ctx, completion{
		system:      system,
		user:        rankPrompt(feature, regions, candidates),
		schemaName:  "source_scores",
		schema:      schemaFor[rankResponse](),
		temperature: RankTemperature,
	})
	if err != nil {
		return nil, err
	}

	values, err := parseScores(content)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(candidates))
	for i := range scores {
		if i < len(values) {
			scores[i] = clamp(number(values[i]))
		}
	}
	return scores, nil
}

func rankPrompt(feature string, regions []string, candidates []crawl.Metadata) string {
	region := "Unknown"
	if len(regions) > 0 {
		region = strings.Join(regions, ", ")
	}

	var sb strings.Builder
	sb.WriteString("Glossary:\n")
	for _, g := range Glossary {
		fmt.Fprintf(&sb, "%s = %s\n", g[0], g[1])
	}

	fmt.Fprintf(&sb, "\nFeature:\n%s\n\nJurisdiction(s): %s\n\nPages:\n", feature, region)

	rows := make([]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, fmt.Sprintf(
			"%d. %s\nTitle: %s\nSnippet: %s",
			i+1, c.URL, c.Title, formatting.Truncate(c.Snippet, SnippetLimit),
		))
	}
	sb.WriteString(strings.Join(rows, "\n\n"))
	return sb.String()
}

// parseScores accepts either {"scores": [...]} or a bare array.
func parseScores(content string) ([]any, error) {
	if parsed, err := formatting.Parse[rawRankResponse](content); err == nil && parsed.Scores != nil {
		return parsed.Scores, nil
	}
	values, err := formatting.Parse[[]any](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return values, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clamp(f float64) float64 {
	return max(0, min(10, f))
}
