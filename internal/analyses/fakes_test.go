package analyses_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/JaimeStill/monitor/internal/analyses"
	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/pkg/pagination"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pageConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

type fakeClassifier struct {
	mu      sync.Mutex
	calls   int
	outcome *classifier.Outcome
	err     error
}

func (f *fakeClassifier) Classify(ctx context.Context, action, guideline string) (*classifier.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.outcome, f.err
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memStore is an in-memory Store honoring the (action, guideline) uniqueness rule.
type memStore struct {
	mu      sync.Mutex
	records []analyses.Record
	calls   int
	addErr  error
	readErr error
}

func (s *memStore) touch() {
	s.calls++
}

func (s *memStore) FindOne(ctx context.Context, m analyses.Match) (*analyses.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.readErr != nil {
		return nil, s.readErr
	}
	for _, r := range s.records {
		if r.Action == m.Action && r.Guideline == m.Guideline {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *memStore) Find(ctx context.Context, id int64) (*analyses.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for _, r := range s.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, analyses.ErrNotFound
}

func (s *memStore) FindAll(ctx context.Context) ([]analyses.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.readErr != nil {
		return nil, s.readErr
	}
	if len(s.records) == 0 {
		return nil, nil
	}
	out := make([]analyses.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *memStore) Add(ctx context.Context, rec *analyses.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.addErr != nil {
		return s.addErr
	}
	for _, r := range s.records {
		if r.Action == rec.Action && r.Guideline == rec.Guideline {
			return analyses.ErrDuplicate
		}
	}
	rec.ID = int64(len(s.records) + 1)
	s.records = append(s.records, *rec)
	return nil
}

func (s *memStore) CountBy(ctx context.Context, col analyses.Column) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if col != analyses.ColumnResult {
		return nil, analyses.ErrUnsupportedColumn
	}
	if len(s.records) == 0 {
		return nil, nil
	}
	counts := make(map[string]int)
	for _, r := range s.records {
		counts[r.Result]++
	}
	return counts, nil
}

func (s *memStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters analyses.Filters,
) (*pagination.PageResult[analyses.Record], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	var items []analyses.Record
	for _, r := range s.records {
		if filters.Result == nil || *filters.Result == r.Result {
			items = append(items, r)
		}
	}
	result := pagination.NewPageResult(items, len(items), page.Page, page.PageSize)
	return &result, nil
}

func (s *memStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errDiskFull = errors.New("disk full")
