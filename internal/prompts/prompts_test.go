package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/lawfinder/internal/prompts"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{prompts.ErrNotFound, http.StatusNotFound},
		{prompts.ErrDuplicate, http.StatusConflict},
		{prompts.ErrInvalidStage, http.StatusBadRequest},
		{prompts.ErrInvalid, http.StatusBadRequest},
		{prompts.ErrContract, http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := prompts.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		in      string
		want    prompts.Stage
		wantErr bool
	}{
		{in: "rank", want: prompts.StageRank},
		{in: "Align", want: prompts.StageAlign},
		{in: "  RANK ", want: prompts.StageRank},
		{in: "classify", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := prompts.ParseStage(tt.in)
		if tt.wantErr {
			if !errors.Is(err, prompts.ErrInvalidStage) {
				t.Errorf("ParseStage(%q): got %v, want ErrInvalidStage", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStage(%q): got %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var cmd prompts.Command
	if err := json.Unmarshal([]byte(`{"name":"strict","stage":"Align"}`), &cmd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmd.Stage != prompts.StageAlign {
		t.Errorf("got %q, want align", cmd.Stage)
	}

	if err := json.Unmarshal([]byte(`{"stage":"enhance"}`), &cmd); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("got %v, want ErrInvalidStage", err)
	}
	if err := json.Unmarshal([]byte(`{"stage":3}`), &cmd); err == nil {
		t.Error("numeric stage: expected error")
	}
}

func TestStagesIsACopy(t *testing.T) {
	s := prompts.Stages()
	s[0] = "mutated"
	if prompts.Stages()[0] != prompts.StageRank {
		t.Error("Stages exposed its backing array")
	}
}

func TestContractCheck(t *testing.T) {
	tests := []struct {
		name  string
		stage prompts.Stage
		text  string
		want  error
	}{
		{
			name:  "plain rank instructions",
			stage: prompts.StageRank,
			text:  "Favor state legislature pages. Score aggregator sites below 3.",
		},
		{
			name:  "rank names its root key",
			stage: prompts.StageRank,
			text:  `Return {"scores": [...]} with one entry per page.`,
		},
		{
			name:  "rank asks for reasons",
			stage: prompts.StageRank,
			text:  `Return {"scores": [...], "reasons": [...]}.`,
			want:  prompts.ErrContract,
		},
		{
			name:  "align names element fields",
			stage: prompts.StageAlign,
			text:  `Set "coverage": "partial" when controls are vague and keep "severity": "high" for data sharing.`,
		},
		{
			name:  "align invents a field",
			stage: prompts.StageAlign,
			text:  `Add "risk_score": 0-100 to every entry.`,
			want:  prompts.ErrContract,
		},
		{
			name:  "align borrows the rank root",
			stage: prompts.StageAlign,
			text:  `Respond with {"scores": []}.`,
			want:  prompts.ErrContract,
		},
		{
			name:  "fenced output",
			stage: prompts.StageRank,
			text:  "Wrap the answer in ```json fences.",
			want:  prompts.ErrContract,
		},
		{
			name:  "blank",
			stage: prompts.StageAlign,
			text:  "   \n",
			want:  prompts.ErrInvalid,
		},
		{
			name:  "too long",
			stage: prompts.StageRank,
			text:  strings.Repeat("x", prompts.MaxInstructions+1),
			want:  prompts.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := prompts.ContractFor(tt.stage)
			if err != nil {
				t.Fatalf("ContractFor: %v", err)
			}
			err = c.Check(tt.text)
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContractFor(t *testing.T) {
	rank, _ := prompts.ContractFor(prompts.StageRank)
	if rank.Root != "scores" {
		t.Errorf("rank root: got %q, want scores", rank.Root)
	}
	align, _ := prompts.ContractFor(prompts.StageAlign)
	if align.Root != "obligation_alignments" || len(align.Fields) != 6 {
		t.Errorf("align: got %q %v", align.Root, align.Fields)
	}
	if _, err := prompts.ContractFor("init"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("got %v, want ErrInvalidStage", err)
	}
}

func TestBuiltinSpecsNameTheirRoot(t *testing.T) {
	for _, stage := range prompts.Stages() {
		c, _ := prompts.ContractFor(stage)
		spec, err := prompts.Spec(stage)
		if err != nil {
			t.Fatalf("Spec(%s): %v", stage, err)
		}
		if !strings.Contains(spec, `"`+c.Root+`"`) {
			t.Errorf("%s spec does not name %q", stage, c.Root)
		}
		text, err := prompts.Instructions(stage)
		if err != nil {
			t.Fatalf("Instructions(%s): %v", stage, err)
		}
		if err := c.Check(text); err != nil {
			t.Errorf("%s built-in instructions fail their own contract: %v", stage, err)
		}
	}
}

func TestCommandValidate(t *testing.T) {
	cmd := prompts.Command{Name: "  strict ranking ", Stage: prompts.StageRank, Instructions: "  Prefer statutes. "}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cmd.Name != "strict ranking" || cmd.Instructions != "Prefer statutes." {
		t.Errorf("got %q / %q, want trimmed values", cmd.Name, cmd.Instructions)
	}

	tests := []struct {
		name string
		cmd  prompts.Command
		want error
	}{
		{"missing name", prompts.Command{Stage: prompts.StageRank, Instructions: "x"}, prompts.ErrInvalid},
		{"missing stage", prompts.Command{Name: "n", Instructions: "x"}, prompts.ErrInvalidStage},
		{"contract violation", prompts.Command{Name: "n", Stage: prompts.StageAlign, Instructions: `"verdict": "ok"`}, prompts.ErrContract},
	}
	for _, tt := range tests {
		if err := tt.cmd.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

type overrideSource struct {
	instructions string
	err          error
}

func (s overrideSource) Instructions(context.Context, prompts.Stage) (string, error) {
	return s.instructions, s.err
}

func (s overrideSource) Spec(ctx context.Context, stage prompts.Stage) (string, error) {
	return prompts.Defaults().Spec(ctx, stage)
}

func TestCompose(t *testing.T) {
	ctx := context.Background()

	got, err := prompts.Compose(ctx, overrideSource{instructions: "Prefer Utah code pages.\n"}, prompts.StageRank)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	spec, _ := prompts.Spec(prompts.StageRank)
	if want := "Prefer Utah code pages.\n\n" + spec; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, err = prompts.Compose(ctx, overrideSource{err: prompts.ErrNotFound}, prompts.StageAlign)
	if !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("got %v, want wrapped ErrNotFound", err)
	}

	if _, err := prompts.Compose(ctx, prompts.Defaults(), "init"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("got %v, want ErrInvalidStage", err)
	}
}
