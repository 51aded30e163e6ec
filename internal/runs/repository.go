package runs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/internal/discovery"
	"github.com/JaimeStill/lawfinder/internal/risk"
	"github.com/JaimeStill/lawfinder/pkg/pagination"
	"github.com/JaimeStill/lawfinder/pkg/query"
	"github.com/JaimeStill/lawfinder/pkg/repository"
)

// DefaultRegion is used when an analysis names no regions.
const DefaultRegion = "global"

type repo struct {
	db         *sql.DB
	discovery  discovery.System
	risk       risk.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
func New(
	db *sql.DB,
	disc discovery.System,
	assess risk.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		discovery:  disc,
		risk:       assess,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error) {
	title := strings.TrimSpace(cmd.Title)
	description := strings.TrimSpace(cmd.Description)
	if title == "" || description == "" {
		return nil, ErrInvalidCommand
	}

	regions := cmd.Regions
	if len(regions) == 0 {
		regions = []string{DefaultRegion}
	}

	minYear := discovery.DefaultMinYear
	found, err := r.discovery.Discover(ctx, discovery.Request{
		FeatureSummary: title + "\n\n" + description,
		Regions:        regions,
		MinYear:        &minYear,
	})
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}

	sources := make([]risk.LawSource, 0, len(found.Sources))
	for _, s := range found.Sources {
		sources = append(sources, risk.LawSource(s))
	}

	heuristic := false
	report, err := r.risk.Assess(ctx, risk.Request{
		LawAgentInput:     &risk.LawAgentInput{Sources: sources},
		UserPolicy:        &risk.UserPolicy{Topic: title, Description: description, DocumentPoints: []string{}},
		UseExternalOracle: &heuristic,
	})
	if err != nil {
		return nil, fmt.Errorf("assess risk: %w", err)
	}

	analysis := &Analysis{
		Findings: Merge(found, report),
		Score: Score{
			Value:     report.RiskScore,
			Level:     report.RiskLevel,
			Rationale: Rationale(report.Why),
		},
		Raw: Raw{Discovery: found, Risk: report},
	}

	id, err := r.save(ctx, title, description, found.IndexID, report, analysis)
	if err != nil {
		r.logger.ErrorContext(ctx, "persist analysis failed", "run_id", report.RunID, "error", err)
		return analysis, nil
	}

	analysis.ID = &id
	r.logger.InfoContext(ctx, "analysis saved", "id", id, "run_id", report.RunID, "risk_score", report.RiskScore)
	return analysis, nil
}

func (r *repo) save(
	ctx context.Context,
	title, description, indexID string,
	report *risk.Report,
	analysis *Analysis,
) (uuid.UUID, error) {
	id := uuid.New()

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO feature_runs(id, run_id, feature_name, description, index_id, risk_score, risk_level, rationale)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, report.RunID, title, description, indexID,
			report.RiskScore, string(report.RiskLevel), analysis.Score.Rationale,
		); err != nil {
			return struct{}{}, fmt.Errorf("insert run: %w", err)
		}

		if err := link(ctx, tx, id, "regions", "run_regions", "region_id", analysis.Findings.RegionsHit); err != nil {
			return struct{}{}, err
		}
		if err := link(ctx, tx, id, "regulations", "run_regulations", "regulation_id", analysis.Findings.RegulationsHit); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	return id, repository.MapError(err, ErrNotFound, ErrDuplicate)
}

// link upserts each name into table and joins it to the run.
func link(ctx context.Context, tx *sql.Tx, runID uuid.UUID, table, joinTable, column string, names []string) error {
	upsert := fmt.Sprintf(
		"INSERT INTO %s(name) VALUES ($1) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id",
		table,
	)
	join := fmt.Sprintf(
		"INSERT INTO %s(run_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		joinTable, column,
	)

	for _, name := range names {
		var id int
		if err := tx.QueryRowContext(ctx, upsert, name).Scan(&id); err != nil {
			return fmt.Errorf("upsert %s %q: %w", table, name, err)
		}
		if _, err := tx.ExecContext(ctx, join, runID, id); err != nil {
			return fmt.Errorf("link %s %q: %w", table, name, err)
		}
	}
	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := filters.Apply(
		query.NewBuilder(projection, defaultSort).
			WhereSearch(page.Search, "FeatureName", "Description"),
	)

	result, err := repository.Page(ctx, r.db, qb, page, scanRun)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}
