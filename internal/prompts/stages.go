package prompts

import (
	"encoding/json"
	"slices"
	"strings"
)

// Stage names the oracle call an override targets.
type Stage string

const (
	// StageRank scores candidate sources for relevance.
	StageRank Stage = "rank"
	// StageAlign maps feature text onto catalog obligations.
	StageAlign Stage = "align"
)

var stages = []Stage{StageRank, StageAlign}

// Stages lists the oracle stages in prompt order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// ParseStage accepts a stage name in any case, ignoring surrounding space.
func ParseStage(s string) (Stage, error) {
	v := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// UnmarshalJSON decodes a stage name through ParseStage.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
