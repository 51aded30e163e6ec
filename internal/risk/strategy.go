package risk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// MaxReason caps alignment reasons in characters.
const MaxReason = 200

// Classifier aligns text against a catalog using an external model.
type Classifier interface {
	Classify(ctx context.Context, text string, sources []LawSource, c *Catalog) ([]Alignment, error)
}

// Strategy produces one alignment per catalog obligation.
// External reports whether the returned alignments came from a Classifier.
type Strategy interface {
	Align(ctx context.Context, text string, sources []LawSource) (aligns []Alignment, external bool)
}

type heuristicStrategy struct {
	catalog *Catalog
}

// HeuristicStrategy aligns text with the keyword matcher.
func HeuristicStrategy(c *Catalog) Strategy {
	return heuristicStrategy{catalog: c}
}

func (s heuristicStrategy) Align(_ context.Context, text string, _ []LawSource) ([]Alignment, bool) {
	return Heuristic(s.catalog, text), false
}

type externalStrategy struct {
	catalog    *Catalog
	classifier Classifier
	logger     *slog.Logger
}

// ExternalStrategy aligns text with classifier and falls back to the keyword
// matcher in full when the classifier fails.
func ExternalStrategy(c *Catalog, classifier Classifier, logger *slog.Logger) Strategy {
	return externalStrategy{catalog: c, classifier: classifier, logger: logger}
}

func (s externalStrategy) Align(ctx context.Context, text string, sources []LawSource) ([]Alignment, bool) {
	aligns, err := s.classifier.Classify(ctx, text, sources, s.catalog)
	if err == nil {
		aligns, err = s.catalog.Normalize(aligns)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "external classifier failed, using heuristic", "error", err)
		return Heuristic(s.catalog, text), false
	}
	return aligns, true
}

// Normalize validates classifier output against the catalog and returns it in
// catalog order. Every obligation must appear exactly once and no unknown ids
// may appear. Empty coverage becomes partial, empty severity takes the catalog
// value, and reasons are capped at MaxReason characters.
func (c *Catalog) Normalize(aligns []Alignment) ([]Alignment, error) {
	byID := make(map[string]Alignment, len(aligns))
	for _, a := range aligns {
		if _, ok := c.Find(a.ObligationID); !ok {
			return nil, fmt.Errorf("%w: unknown obligation %q", ErrIncompleteAlignment, a.ObligationID)
		}
		if _, dup := byID[a.ObligationID]; dup {
			return nil, fmt.Errorf("%w: duplicate obligation %q", ErrIncompleteAlignment, a.ObligationID)
		}
		byID[a.ObligationID] = a
	}

	out := make([]Alignment, 0, len(c.Obligations))
	for _, o := range c.Obligations {
		a, ok := byID[o.ID]
		if !ok {
			return nil, fmt.Errorf("%w: missing obligation %q", ErrIncompleteAlignment, o.ID)
		}

		if a.Coverage == "" {
			a.Coverage = CoveragePartial
		}
		if !a.Coverage.Valid() {
			return nil, fmt.Errorf("%w: coverage %q", ErrInvalidAlignment, a.Coverage)
		}
		if a.Severity == "" {
			a.Severity = o.Severity
		}
		if !a.Severity.Valid() {
			return nil, fmt.Errorf("%w: severity %q", ErrInvalidAlignment, a.Severity)
		}
		if a.RegulationID == "" {
			a.RegulationID = c.RegulationID
		}
		if a.Title == "" {
			a.Title = o.Title
		}
		a.Reason = formatting.Truncate(a.Reason, MaxReason)

		out = append(out, a)
	}
	return out, nil
}
