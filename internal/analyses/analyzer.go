package analyses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/pkg/pagination"
)

type analyzer struct {
	store      Store
	classifier Classifier
	metrics    *Metrics
	logger     *slog.Logger
	pagination pagination.Config
}

// Option customizes the System returned by New.
type Option func(*analyzer)

// WithMetrics records lookup and persistence metrics.
func WithMetrics(m *Metrics) Option {
	return func(a *analyzer) { a.metrics = m }
}

// New creates the analysis System over a store and classifier.
// Concurrent misses for the same pair may each classify; the store's unique
// index keeps one record and the rest are rejected as duplicates.
func New(
	store Store,
	cls Classifier,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	a := &analyzer{
		store:      store,
		classifier: cls,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *analyzer) Handler() *Handler {
	return NewHandler(a, a.logger, a.pagination)
}

func (a *analyzer) Analyze(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := a.store.FindOne(ctx, Match{Action: req.Action, Guideline: req.Guideline})
	if err != nil {
		return nil, fmt.Errorf("lookup analysis: %w", err)
	}
	if existing != nil {
		a.metrics.lookup(true)
		resp := RecordResponse(*existing)
		return &resp, nil
	}
	a.metrics.lookup(false)

	outcome, err := a.classifier.Classify(ctx, req.Action, req.Guideline)
	if err != nil {
		return nil, err
	}

	a.persist(ctx, req, outcome)

	resp, err := ToResponse(req, outcome)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// persist stores a fresh outcome. Failures are logged and never returned;
// an unstored answer is recomputed on the next identical request.
func (a *analyzer) persist(ctx context.Context, req Request, outcome *classifier.Outcome) {
	rec, err := ToRecord(req, outcome)
	if err != nil {
		a.metrics.unpersisted("incomplete")
		a.logger.Warn("classification outcome incomplete, not stored", "error", err)
		return
	}

	if err := a.store.Add(ctx, &rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			a.metrics.unpersisted("duplicate")
			a.logger.Info("analysis stored concurrently, keeping existing record")
			return
		}
		a.metrics.unpersisted("error")
		a.logger.Error("store analysis failed", "error", err)
		return
	}

	a.logger.Debug("analysis stored", "id", rec.ID, "result", rec.Result)
}

func (a *analyzer) History(ctx context.Context) ([]Response, error) {
	recs, err := a.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(recs, func(x, y Record) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})

	out := make([]Response, len(recs))
	for i, rec := range recs {
		out[i] = RecordResponse(rec)
	}
	return out, nil
}

func (a *analyzer) Summary(ctx context.Context) (*Summary, error) {
	counts, err := a.store.CountBy(ctx, ColumnResult)
	if err != nil {
		return nil, fmt.Errorf("summarize analyses: %w", err)
	}
	if len(counts) == 0 {
		return &Summary{Count: 0, ResultsCount: nil}, nil
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &Summary{Count: total, ResultsCount: counts}, nil
}

func (a *analyzer) Find(ctx context.Context, id int64) (*Record, error) {
	return a.store.Find(ctx, id)
}

func (a *analyzer) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(a.pagination)
	return a.store.List(ctx, page, filters)
}
