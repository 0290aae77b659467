// Package analyses judges actions against guidelines, caching one classified
// answer per (action, guideline) pair and reporting history and summaries.
package analyses

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Request asks whether an action complies with a guideline.
type Request struct {
	Action    string `json:"action"`
	Guideline string `json:"guideline"`
}

// Validate rejects a request whose action or guideline is blank.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Action) == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Guideline) == "" {
		return fmt.Errorf("%w: guideline is required", ErrInvalidRequest)
	}
	return nil
}

// Record is a persisted classification, unique on (Action, Guideline).
// Records are written once and never updated.
type Record struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	Guideline  string          `json:"guideline"`
	Result     string          `json:"result"`
	Confidence decimal.Decimal `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Response is the answer returned to callers for a single analysis.
type Response struct {
	Action     string           `json:"action"`
	Guideline  string           `json:"guideline"`
	Result     *string          `json:"result"`
	Confidence *decimal.Decimal `json:"confidence"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Summary aggregates stored records by result.
// ResultsCount is nil when no records exist.
type Summary struct {
	Count        int            `json:"count"`
	ResultsCount map[string]int `json:"results_count"`
}

// Match selects the record for an exact (action, guideline) pair.
type Match struct {
	Action    string
	Guideline string
}

// Column names a record field that CountBy may group on.
type Column string

// Groupable columns.
const (
	ColumnResult Column = "Result"
)
