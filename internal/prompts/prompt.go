// Package prompts manages the instructions sent to the oracle for source
// ranking and obligation alignment. Each stage ships built-in instructions and
// a fixed response contract. Named overrides stored in Postgres may replace
// the instructions, one active per stage, but never the contract.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is a named instruction override for an oracle stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description,omitempty"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Command creates an override or replaces every field of an existing one.
type Command struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description,omitempty"`
}

// Validate trims the command and checks its instructions against the
// stage's response contract.
func (c *Command) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Instructions = strings.TrimSpace(c.Instructions)
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalid)
	}

	contract, err := ContractFor(c.Stage)
	if err != nil {
		return err
	}
	return contract.Check(c.Instructions)
}

// View is the effective prompt configuration of one stage: the instructions
// the oracle receives, the contract appended to them and the active override.
type View struct {
	Stage        Stage   `json:"stage"`
	Root         string  `json:"root"`
	Override     *string `json:"override,omitempty"`
	Instructions string  `json:"instructions"`
	Spec         string  `json:"spec"`
}

func newView(c Contract, active *Prompt) View {
	v := View{
		Stage:        c.Stage,
		Root:         c.Root,
		Instructions: c.instructions,
		Spec:         c.spec,
	}
	if active != nil {
		name := active.Name
		v.Override = &name
		v.Instructions = active.Instructions
	}
	return v
}
