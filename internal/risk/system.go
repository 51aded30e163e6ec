package risk

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// DriverCount is the number of gaps reported as drivers.
const DriverCount = 3

// System runs risk assessments.
type System interface {
	Handler() *Handler

	Catalog() *Catalog
	Assess(ctx context.Context, req Request) (*Report, error)
}

// Options selects the default strategy and scoring region.
type Options struct {
	Region   string
	External bool
	Weights  JurisdictionWeights
}

type engine struct {
	catalog   *Catalog
	heuristic Strategy
	external  Strategy
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an assessment engine. A nil classifier disables the external strategy.
func New(c *Catalog, classifier Classifier, opts Options, logger *slog.Logger) System {
	if opts.Region == "" {
		opts.Region = "Utah"
	}
	if opts.Weights == nil {
		opts.Weights = DefaultWeights()
	}

	logger = logger.With("system", "risk")

	e := &engine{
		catalog:   c,
		heuristic: HeuristicStrategy(c),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
	if classifier != nil {
		e.external = ExternalStrategy(c, classifier, logger)
	}
	return e
}

func (e *engine) Handler() *Handler {
	return NewHandler(e, e.logger)
}

func (e *engine) Catalog() *Catalog {
	return e.catalog
}

func (e *engine) Assess(ctx context.Context, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sources []LawSource
	if req.LawAgentInput != nil {
		sources = req.LawAgentInput.Sources
	}

	strategy := e.heuristic
	if e.useExternal(req) {
		strategy = e.external
	}

	aligns, external := strategy.Align(ctx, req.Text(), sources)
	score := Compute(aligns, e.opts.Region, e.opts.Weights)

	why := make([]Driver, 0, DriverCount)
	for _, a := range Drivers(aligns, DriverCount) {
		why = append(why, Driver{
			Issue:     a.Title,
			Severity:  a.Severity,
			Coverage:  a.Coverage,
			Rationale: a.Reason,
		})
	}

	now := e.now().UTC()
	report := &Report{
		RunID:              runID(now),
		Regions:            e.catalog.Regions,
		RegulationsHit:     []string{e.catalog.RegulationName},
		RiskScore:          score.RiskScore,
		RiskLevel:          score.RiskLevel,
		Raw:                score.Raw,
		Why:                why,
		Obligations:        aligns,
		AuditCitations:     e.catalog.Citations,
		AsOf:               now.Format(time.RFC3339),
		UsedExternalOracle: external,
	}

	e.logger.InfoContext(
		ctx, "risk assessed",
		"run_id", report.RunID,
		"risk_score", report.RiskScore,
		"risk_level", report.RiskLevel,
		"external", external,
	)

	return report, nil
}

func (e *engine) useExternal(req Request) bool {
	if e.external == nil {
		return false
	}
	if req.UseExternalOracle != nil {
		return *req.UseExternalOracle
	}
	return e.opts.External
}

// Text joins the policy topic, description and document points for matching.
func (r Request) Text() string {
	if r.UserPolicy == nil {
		return ""
	}
	parts := []string{r.UserPolicy.Topic, r.UserPolicy.Description, strings.Join(r.UserPolicy.DocumentPoints, " ")}
	return strings.Join(parts, " ")
}

func runID(t time.Time) string {
	sum := sha1.Sum([]byte(strconv.FormatInt(t.UnixNano(), 10)))
	return hex.EncodeToString(sum[:])[:12]
}
