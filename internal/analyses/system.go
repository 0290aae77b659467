package analyses

import (
	"context"

	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/pkg/pagination"
)

// Classifier produces an outcome for an (action, guideline) pair.
type Classifier interface {
	Classify(ctx context.Context, action, guideline string) (*classifier.Outcome, error)
}

// System defines the public contract for analysis operations.
type System interface {
	Handler() *Handler

	// Analyze returns the stored answer for req or classifies and stores a new one.
	Analyze(ctx context.Context, req Request) (*Response, error)
	// History returns every stored answer newest first, or nil when there are none.
	History(ctx context.Context) ([]Response, error)
	// Summary counts stored answers by result.
	Summary(ctx context.Context) (*Summary, error)

	Find(ctx context.Context, id int64) (*Record, error)
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)
}
