package prompts

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxInstructions caps the length of override instructions in characters.
const MaxInstructions = 6000

const rankInstructions = `You are ranking legal and government web pages for a compliance feature.

Prefer official legislature or regulator pages over Wikipedia or media coverage. Score each page from 0 to 10, where 0 means irrelevant and 10 means directly authoritative for the jurisdiction and topic.

Product teams describe features with internal codenames and acronyms. Use the glossary provided with each request to interpret them before judging relevance.`

const rankSpec = `Respond with a JSON object matching this exact structure:

{
  "scores": [<number>, <number>]
}

Field constraints:
- scores: One number per page, in the order the pages were listed.
  Each score is between 0 and 10 inclusive. The array length must equal
  the number of pages.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not add commentary or reasons`

const alignInstructions = `You are a risk arbiter mapping a product feature description onto a fixed catalog of compliance obligations.

Only discuss obligations relevant to the Utah Social Media Regulation Act (UT_SMR_2023) for minors. For every catalog item decide whether the product text shows a sufficient control, a partial or ambiguous control, or no control at all. Phrases that describe silent enforcement, global rollout without geofencing, or broad data collection count against coverage.

Use the law sources supplied with the request as context, but base coverage only on what the product text states.`

const alignSpec = `Respond with a JSON object matching this exact structure:

{
  "obligation_alignments": [
    {
      "regulation_id": "UT_SMR_2023",
      "obligation_id": "<catalog id>",
      "title": "<catalog title>",
      "coverage": "<none|partial|sufficient>",
      "severity": "<low|medium|high>",
      "reason": "<explanation>"
    }
  ]
}

Field constraints:
- obligation_alignments: Exactly one entry per catalog item. Do not invent
  obligation ids and do not omit any.
- regulation_id: Must be UT_SMR_2023.
- coverage: sufficient when the product text shows an explicit control,
  none when it shows a risk phrase with no control, partial otherwise.
- severity: Copy the catalog severity unless the product text makes the
  gap materially worse.
- reason: Concise, at most 30 words.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Judge only the product text; law sources are background`

// Contract is the fixed response shape of an oracle stage. Root is the top
// level key of the JSON response and Fields are the keys of its elements.
type Contract struct {
	Stage  Stage
	Root   string
	Fields []string

	instructions string
	spec         string
}

var contracts = map[Stage]Contract{
	StageRank: {
		Stage:        StageRank,
		Root:         "scores",
		instructions: rankInstructions,
		spec:         rankSpec,
	},
	StageAlign: {
		Stage:        StageAlign,
		Root:         "obligation_alignments",
		Fields:       []string{"regulation_id", "obligation_id", "title", "coverage", "severity", "reason"},
		instructions: alignInstructions,
		spec:         alignSpec,
	},
}

var jsonKey = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)"\s*:`)

// ContractFor returns the contract of stage.
func ContractFor(stage Stage) (Contract, error) {
	c, ok := contracts[stage]
	if !ok {
		return Contract{}, ErrInvalidStage
	}
	return c, nil
}

// Check rejects override instructions that are blank or too long, that ask
// for fenced output, or that name JSON keys outside the stage's response.
func (c Contract) Check(instructions string) error {
	text := strings.TrimSpace(instructions)
	if text == "" {
		return fmt.Errorf("%w: instructions required", ErrInvalid)
	}
	if n := utf8.RuneCountInString(text); n > MaxInstructions {
		return fmt.Errorf("%w: instructions have %d characters, limit %d", ErrInvalid, n, MaxInstructions)
	}
	if strings.Contains(text, "```") {
		return fmt.Errorf("%w: %s output must not be fenced", ErrContract, c.Stage)
	}

	for _, m := range jsonKey.FindAllStringSubmatch(text, -1) {
		if key := m[1]; key != c.Root && !slices.Contains(c.Fields, key) {
			return fmt.Errorf("%w: %s response has no field %q", ErrContract, c.Stage, key)
		}
	}
	return nil
}

// Instructions returns the built-in instructions for stage.
func Instructions(stage Stage) (string, error) {
	c, err := ContractFor(stage)
	if err != nil {
		return "", err
	}
	return c.instructions, nil
}

// Spec returns the built-in response contract text for stage.
func Spec(stage Stage) (string, error) {
	c, err := ContractFor(stage)
	if err != nil {
		return "", err
	}
	return c.spec, nil
}
