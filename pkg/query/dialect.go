package query

import "fmt"

// Dialect selects driver-specific SQL syntax for placeholders and pattern matching.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Placeholder returns the n-th (1-indexed) bind parameter marker.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// Placeholders returns count comma-separated markers starting at start.
func (d Dialect) Placeholders(start, count int) string {
	out := make([]byte, 0, count*4)
	for i := range count {
		if i > 0 {
			out = append(out, ", "...)
		}
		out = append(out, d.Placeholder(start+i)...)
	}
	return string(out)
}

// Like returns the case-insensitive pattern operator. SQLite LIKE is
// case-insensitive for ASCII by default.
func (d Dialect) Like() string {
	if d == SQLite {
		return "LIKE"
	}
	return "ILIKE"
}
