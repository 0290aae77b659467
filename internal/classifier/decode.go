package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type rankedEntry struct {
	Label *string  `json:"label"`
	Score *float32 `json:"score"`
}

// legacyResponse is the column-oriented shape older inference deployments return.
type legacyResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float32 `json:"scores"`
}

// decode reads either a ranked array of {label, score} or the legacy
// {sequence, labels, scores} object, returning the top entry.
func decode(body []byte) (*Outcome, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var ranked []rankedEntry
		if err := json.Unmarshal(trimmed, &ranked); err != nil {
			return nil, fmt.Errorf("decode ranked response: %w", err)
		}
		if len(ranked) == 0 {
			return nil, nil
		}
		return &Outcome{Label: ranked[0].Label, Score: ranked[0].Score}, nil
	case '{':
		var legacy legacyResponse
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy response: %w", err)
		}
		if len(legacy.Labels) == 0 && len(legacy.Scores) == 0 {
			return nil, nil
		}
		out := &Outcome{}
		if len(legacy.Labels) > 0 {
			out.Label = &legacy.Labels[0]
		}
		if len(legacy.Scores) > 0 {
			out.Score = &legacy.Scores[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected response body: %.64q", trimmed)
	}
}
