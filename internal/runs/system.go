package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lawfinder/pkg/pagination"
)

// System defines the public contract for feature run operations.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
}
