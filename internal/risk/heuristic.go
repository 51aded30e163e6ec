package risk

import "strings"

// Coverage reasons produced by the keyword matcher.
const (
	ReasonSufficient = "Detected explicit control signals."
	ReasonConflicted = "Control present but conflicted by risk phrase."
	ReasonNone       = "Found risk phrase without corresponding control."
	ReasonImplicit   = "Control not explicit; assumed partial coverage."
)

// Classify determines coverage of o in text by keyword presence.
// Text is matched case-insensitively by substring.
func Classify(o Obligation, text string) (Coverage, string) {
	lower := strings.ToLower(text)
	pos := containsAny(lower, o.Positive)
	neg := containsAny(lower, o.Negative)

	switch {
	case pos && !neg:
		return CoverageSufficient, ReasonSufficient
	case pos && neg:
		return CoveragePartial, ReasonConflicted
	case neg:
		return CoverageNone, ReasonNone
	default:
		return CoveragePartial, ReasonImplicit
	}
}

// Heuristic aligns every catalog obligation against text.
func Heuristic(c *Catalog, text string) []Alignment {
	out := make([]Alignment, 0, len(c.Obligations))
	for _, o := range c.Obligations {
		cov, reason := Classify(o, text)
		out = append(out, Alignment{
			RegulationID: c.RegulationID,
			ObligationID: o.ID,
			Title:        o.Title,
			Coverage:     cov,
			Severity:     o.Severity,
			Reason:       reason,
		})
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
