package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/pkg/pagination"
)

// Source resolves the effective prompt text for a stage.
type Source interface {
	Instructions(ctx context.Context, stage Stage) (string, error)
	Spec(ctx context.Context, stage Stage) (string, error)
}

// System manages stored overrides and serves as a Source.
type System interface {
	Source

	Handler() *Handler

	Views(ctx context.Context) ([]View, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd Command) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)
}

// Compose joins the effective instructions for stage with its response
// contract, forming the system message of an oracle call.
func Compose(ctx context.Context, src Source, stage Stage) (string, error) {
	instructions, err := src.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load %s instructions: %w", stage, err)
	}

	spec, err := src.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load %s spec: %w", stage, err)
	}

	return strings.TrimSpace(instructions) + "\n\n" + spec, nil
}

type defaults struct{}

// Defaults returns a Source serving the built-in text, for use without a database.
func Defaults() Source {
	return defaults{}
}

func (defaults) Instructions(_ context.Context, stage Stage) (string, error) {
	return Instructions(stage)
}

func (defaults) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}
