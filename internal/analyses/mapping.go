package analyses

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/monitor/pkg/query"
	"github.com/JaimeStill/monitor/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "analyses", "a").
	Project("id", "ID").
	Project("action", "Action").
	Project("guideline", "Guideline").
	Project("result", "Result").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows record listings. Nil fields are ignored.
type Filters struct {
	Result *string `json:"result,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Result", f.Result)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Result is matched upper-cased so "complies" finds COMPLIES.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if r := strings.TrimSpace(values.Get("result")); r != "" {
		r = strings.ToUpper(r)
		f.Result = &r
	}
	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.Action,
		&r.Guideline,
		&r.Result,
		&r.Confidence,
		&r.CreatedAt,
	)
	if err != nil {
		return r, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

type groupCount struct {
	key   string
	count int
}

func scanGroupCount(s repository.Scanner) (groupCount, error) {
	var g groupCount
	err := s.Scan(&g.key, &g.count)
	return g, err
}
