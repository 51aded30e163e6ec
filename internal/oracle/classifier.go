package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/lawfinder/internal/prompts"
	"github.com/JaimeStill/lawfinder/internal/risk"
	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// MaxSources caps the law sources passed as classifier context.
const MaxSources = 10

type alignResponse struct {
	ObligationAlignments []risk.Alignment `json:"obligation_alignments"`
}

type catalogItem struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Severity risk.Severity `json:"severity"`
}

type alignRequest struct {
	LawSources        []risk.LawSource `json:"LAW_SOURCES"`
	ObligationCatalog []catalogItem    `json:"OBLIGATION_CATALOG"`
	ProductText       string           `json:"PRODUCT_TEXT"`
	RegulationID      string           `json:"REGULATION_ID"`
}

// Classifier maps product text onto a risk catalog in a single call.
type Classifier struct {
	client      *Client
	prompts     prompts.Source
	temperature float64
	logger      *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(client *Client, src prompts.Source, logger *slog.Logger) *Classifier {
	return &Classifier{
		client:      client,
		prompts:     src,
		temperature: client.opts.Temperature,
		logger:      logger.With("system", "oracle.classifier"),
	}
}

// Classify returns one validated alignment per catalog obligation.
func (c *Classifier) Classify(
	ctx context.Context,
	text string,
	sources []risk.LawSource,
	catalog *risk.Catalog,
) ([]risk.Alignment, error) {
	system, err := prompts.Compose(ctx, c.prompts, prompts.StageAlign)
	if err != nil {
		return nil, err
	}

	user, err := alignPrompt(text, sources, catalog)
	if err != nil {
		return nil, err
	}

	content, err := c.client.complete(ctx, completion{
		system:      system,
		user:        user,
		schemaName:  "obligation_alignments",
		schema:      schemaFor[alignResponse](),
		temperature: c.temperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := formatting.Parse[alignResponse](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if parsed.ObligationAlignments == nil {
		return nil, fmt.Errorf("%w: missing obligation_alignments", ErrMalformed)
	}

	aligns, err := catalog.Normalize(parsed.ObligationAlignments)
	switch {
	case errors.Is(err, risk.ErrIncompleteAlignment):
		return nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c.logger.InfoContext(ctx, "alignments classified", "count", len(aligns))
	return aligns, nil
}

func alignPrompt(text string, sources []risk.LawSource, catalog *risk.Catalog) (string, error) {
	if len(sources) > MaxSources {
		sources = sources[:MaxSources]
	}
	if sources == nil {
		sources = []risk.LawSource{}
	}

	items := make([]catalogItem, 0, len(catalog.Obligations))
	for _, o := range catalog.Obligations {
		items = append(items, catalogItem{ID: o.ID, Title: o.Title, Severity: o.Severity})
	}

	data, err := json.Marshal(alignRequest{
		LawSources:        sources,
		ObligationCatalog: items,
		ProductText:       text,
		RegulationID:      catalog.RegulationID,
	})
	if err != nil {
		return "", fmt.Errorf("encode align request: %w", err)
	}
	return string(data), nil
}
