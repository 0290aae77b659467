package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/monitor/pkg/pagination"
	"github.com/JaimeStill/monitor/pkg/query"
	"github.com/JaimeStill/monitor/pkg/repository"
)

// Store persists analysis records.
type Store interface {
	// FindOne returns the record matching m, or nil when none exists.
	FindOne(ctx context.Context, m Match) (*Record, error)
	// Find returns the record with the given ID or ErrNotFound.
	Find(ctx context.Context, id int64) (*Record, error)
	// FindAll returns every record, or nil when there are none.
	FindAll(ctx context.Context) ([]Record, error)
	// Add inserts rec and sets its ID. A record already stored for the same
	// pair yields ErrDuplicate.
	Add(ctx context.Context, rec *Record) error
	// CountBy returns record counts grouped by col, or nil when there are none.
	CountBy(ctx context.Context, col Column) (map[string]int, error)
	// List returns one page of records matching filters.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Record], error)
}

type sqlStore struct {
	db      *sql.DB
	dialect query.Dialect
	logger  *slog.Logger
}

// NewStore creates a Store over db using the given SQL dialect.
func NewStore(db *sql.DB, dialect query.Dialect, logger *slog.Logger) Store {
	return &sqlStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With("system", "analyses.store"),
	}
}

func (s *sqlStore) builder(sort ...query.SortField) *query.Builder {
	return query.NewBuilder(projection, sort...).Dialect(s.dialect)
}

func (s *sqlStore) FindOne(ctx context.Context, m Match) (*Record, error) {
	q, args := s.builder().
		WhereEquals("Action", m.Action).
		WhereEquals("Guideline", m.Guideline).
		BuildSingleOrNull()

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanRecord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find analysis: %w", err)
	}
	return &rec, nil
}

func (s *sqlStore) Find(ctx context.Context, id int64) (*Record, error) {
	q, args := s.builder().BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (s *sqlStore) FindAll(ctx context.Context) ([]Record, error) {
	q, args := s.builder(defaultSort).Build()

	recs, err := repository.QueryMany(ctx, s.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("find analyses: %w", err)
	}
	return recs, nil
}

func (s *sqlStore) Add(ctx context.Context, rec *Record) error {
	q := fmt.Sprintf(
		`INSERT INTO analyses (action, guideline, result, confidence, created_at)
		VALUES (%s)
		RETURNING id`,
		s.dialect.Placeholders(1, 5),
	)

	err := s.db.QueryRowContext(
		ctx, q,
		rec.Action, rec.Guideline, rec.Result, rec.Confidence, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *sqlStore) CountBy(ctx context.Context, col Column) (map[string]int, error) {
	if !groupable(col) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedColumn, col)
	}

	q, args := s.builder().BuildGroupCount(string(col))
	groups, err := repository.QueryMany(ctx, s.db, q, args, scanGroupCount)
	if err != nil {
		return nil, fmt.Errorf("count analyses by %s: %w", strings.ToLower(string(col)), err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		counts[g.key] = g.count
	}
	return counts, nil
}

func (s *sqlStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	qb := s.builder(defaultSort).
		WhereSearch(page.Search, "Action", "Guideline")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func groupable(col Column) bool {
	return col == ColumnResult
}
