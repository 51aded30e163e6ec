package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

type alignment struct {
	ObligationAlignments []struct {
		Obligation string  `json:"obligation"`
		Score      float64 `json:"score"`
	} `json:"obligation_alignments"`
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare", `{"obligation_alignments":[{"obligation":"age verification","score":0.8}]}`},
		{"fenced", "```json\n{\"obligation_alignments\":[{\"obligation\":\"age verification\",\"score\":0.8}]}\n```"},
		{"fence without language", "```\n{\"obligation_alignments\":[{\"obligation\":\"age verification\",\"score\":0.8}]}```"},
		{"prose around object", "Here is the alignment:\n{\"obligation_alignments\":[{\"obligation\":\"age verification\",\"score\":0.8}]}\nLet me know."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[alignment](tt.content)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(got.ObligationAlignments) != 1 || got.ObligationAlignments[0].Score != 0.8 {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestParseRankScores(t *testing.T) {
	got, err := formatting.Parse[[]float64]("Scores for the 3 sources: [0.9, 0.15, 0.6]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 3 || got[0] != 0.9 || got[2] != 0.6 {
		t.Errorf("got %v, want [0.9 0.15 0.6]", got)
	}
}

func TestParseFailure(t *testing.T) {
	content := "I cannot rank these sources. " + strings.Repeat("x", 400)
	_, err := formatting.Parse[alignment](content)
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("got %v, want ErrParseFailed", err)
	}
	if len(err.Error()) > 300 {
		t.Errorf("error should truncate content, got %d bytes", len(err.Error()))
	}
}
