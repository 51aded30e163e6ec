package risk

import (
	"cmp"
	"math"
	"slices"
)

// Curvature is the saturation constant of the risk curve.
const Curvature = 6.0

// Level buckets a risk score.
type Level string

// Risk levels.
const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// JurisdictionWeights scales gaps by region. Missing regions weigh 1.0.
type JurisdictionWeights map[string]float64

// DefaultWeights returns the built-in jurisdiction weights.
func DefaultWeights() JurisdictionWeights {
	return JurisdictionWeights{"Utah": 1.0, "EU": 0.9, "US": 0.9, "SG": 0.8}
}

// Of returns the weight for region.
func (w JurisdictionWeights) Of(region string) float64 {
	if v, ok := w[region]; ok {
		return v
	}
	return 1.0
}

// Score is a computed risk assessment.
type Score struct {
	RiskScore int     `json:"risk_score"`
	RiskLevel Level   `json:"risk_level"`
	Raw       float64 `json:"raw"`
}

// Compute sums severity-weighted gaps for region and maps the total onto [0, 100].
func Compute(aligns []Alignment, region string, weights JurisdictionWeights) Score {
	jw := weights.Of(region)

	raw := 0.0
	for _, a := range aligns {
		if a.Coverage == CoverageSufficient {
			continue
		}
		raw += float64(a.Severity.Weight()) * jw
	}

	risk := min(100, int(math.Round(100*(1-math.Exp(-raw/Curvature)))))
	return Score{RiskScore: risk, RiskLevel: LevelFor(risk), Raw: raw}
}

// LevelFor buckets a 0-100 risk score.
func LevelFor(risk int) Level {
	switch {
	case risk < 25:
		return LevelLow
	case risk < 50:
		return LevelModerate
	case risk < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Drivers returns up to n non-sufficient alignments, heaviest severity first.
// Alignments of equal severity keep their input order.
func Drivers(aligns []Alignment, n int) []Alignment {
	var gaps []Alignment
	for _, a := range aligns {
		if a.Coverage != CoverageSufficient {
			gaps = append(gaps, a)
		}
	}

	slices.SortStableFunc(gaps, func(a, b Alignment) int {
		return cmp.Compare(b.Severity.Weight(), a.Severity.Weight())
	})

	if len(gaps) > n {
		gaps = gaps[:n]
	}
	return gaps
}
