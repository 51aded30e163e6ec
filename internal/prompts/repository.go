package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/pkg/pagination"
	"github.com/JaimeStill/lawfinder/pkg/query"
	"github.com/JaimeStill/lawfinder/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a Postgres-backed prompt System.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Instructions serves the active override for stage, or the built-in text
// when none is active.
func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	if _, err := ContractFor(stage); err != nil {
		return "", err
	}

	active, err := r.active(ctx, "SELECT "+columns+" FROM prompts WHERE active AND stage = $1", stage)
	if err != nil {
		return "", err
	}
	if p, ok := active[stage]; ok {
		return p.Instructions, nil
	}
	return Instructions(stage)
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) Views(ctx context.Context) ([]View, error) {
	active, err := r.active(ctx, "SELECT "+columns+" FROM prompts WHERE active")
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(stages))
	for _, s := range stages {
		var p *Prompt
		if a, ok := active[s]; ok {
			p = &a
		}
		views = append(views, newView(contracts[s], p))
	}
	return views, nil
}

func (r *repo) active(ctx context.Context, q string, args ...any) (map[Stage]Prompt, error) {
	rows, err := repository.QueryMany(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query active prompts: %w", err)
	}
	out := make(map[Stage]Prompt, len(rows))
	for _, p := range rows {
		out[p.Stage] = p
	}
	return out, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := filters.Apply(
		query.NewBuilder(projection, listOrder...).
			WhereSearch(page.Search, "Name", "Description", "Instructions"),
	)

	result, err := repository.Page(ctx, r.db, qb, page, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return r.write(ctx, "prompt created",
		"INSERT INTO prompts(name, stage, instructions, description) VALUES ($1, $2, $3, $4) RETURNING "+columns,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description,
	)
}

// Update replaces an override. Moving an active override to another stage
// deactivates it so the target stage keeps its current override.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return r.write(ctx, "prompt updated",
		`UPDATE prompts
		SET name = $2, stage = $3, instructions = $4, description = $5,
			active = active AND stage = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		id, cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description,
	)
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return r.write(ctx, "prompt deactivated",
		"UPDATE prompts SET active = false, updated_at = now() WHERE id = $1 RETURNING "+columns,
		id,
	)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	r.logger.InfoContext(ctx, "prompt deleted", "id", id)
	return nil
}

// Activate makes the override the active one for its stage. The stored
// instructions are checked against the stage contract again, since the
// contract ships with the binary and may have changed since the override
// was written.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		target, err := repository.QueryOne(ctx, tx,
			"SELECT "+columns+" FROM prompts WHERE id = $1 FOR UPDATE",
			[]any{id}, scanPrompt,
		)
		if err != nil {
			return Prompt{}, err
		}

		contract, err := ContractFor(target.Stage)
		if err != nil {
			return Prompt{}, err
		}
		if err := contract.Check(target.Instructions); err != nil {
			return Prompt{}, err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE prompts SET active = false, updated_at = now() WHERE stage = $1 AND active AND id <> $2",
			target.Stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("deactivate %s override: %w", target.Stage, err)
		}

		return repository.QueryOne(ctx, tx,
			"UPDATE prompts SET active = true, updated_at = now() WHERE id = $1 RETURNING "+columns,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) write(ctx context.Context, event, q string, args ...any) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, event, "id", p.ID, "name", p.Name, "stage", p.Stage, "active", p.Active)
	return &p, nil
}
