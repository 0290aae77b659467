package analyses_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/monitor/internal/analyses"
	"github.com/JaimeStill/monitor/internal/classifier"
)

func TestRoundConfidence(t *testing.T) {
	tests := []struct {
		score float32
		want  string
	}{
		{0.123456, "0.12"},
		{0.999999, "1"},
		{0.005, "0"},
		{0.015, "0.02"},
		{0.125, "0.12"},
		{0.126, "0.13"},
		{0.91, "0.91"},
		{1, "1"},
		{0, "0"},
	}

	for _, tt := range tests {
		t.Run(decimal.NewFromFloat32(tt.score).String(), func(t *testing.T) {
			got := analyses.RoundConfidence(tt.score)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestRoundConfidenceFormatsTwoPlaces(t *testing.T) {
	assert.Equal(t, "1.00", analyses.RoundConfidence(0.999999).StringFixed(2))
	assert.Equal(t, "0.00", analyses.RoundConfidence(0.005).StringFixed(2))
}

func TestToRecord(t *testing.T) {
	req := analyses.Request{Action: "Closed ticket", Guideline: "Close resolved tickets"}

	before := time.Now().UTC()
	rec, err := analyses.ToRecord(req, outcome(classifier.LabelComplies, 0.914))
	require.NoError(t, err)

	assert.Zero(t, rec.ID)
	assert.Equal(t, req.Action, rec.Action)
	assert.Equal(t, req.Guideline, rec.Guideline)
	assert.Equal(t, classifier.LabelComplies, rec.Result)
	assert.Equal(t, "0.91", rec.Confidence.StringFixed(2))
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.False(t, rec.CreatedAt.Before(before))
}

func TestIncompleteOutcome(t *testing.T) {
	label := classifier.LabelDeviates
	score := float32(0.5)

	tests := []struct {
		name    string
		outcome *classifier.Outcome
	}{
		{"nil outcome", nil},
		{"missing label", &classifier.Outcome{Score: &score}},
		{"missing score", &classifier.Outcome{Label: &label}},
	}

	req := analyses.Request{Action: "a", Guideline: "g"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyses.ToRecord(req, tt.outcome)
			assert.ErrorIs(t, err, analyses.ErrIncompleteOutcome)

			_, err = analyses.ToResponse(req, tt.outcome)
			assert.ErrorIs(t, err, analyses.ErrIncompleteOutcome)
		})
	}
}

func TestRecordResponseKeepsStoredTimestamp(t *testing.T) {
	stored := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	rec := analyses.Record{
		ID:         7,
		Action:     "a",
		Guideline:  "g",
		Result:     classifier.LabelUnclear,
		Confidence: decimal.RequireFromString("0.44"),
		CreatedAt:  stored,
	}

	resp := analyses.RecordResponse(rec)

	require.NotNil(t, resp.Result)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, classifier.LabelUnclear, *resp.Result)
	assert.Equal(t, "0.44", resp.Confidence.String())
	assert.True(t, resp.Timestamp.Equal(stored))
	assert.Equal(t, time.UTC, resp.Timestamp.Location())
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     analyses.Request
		wantErr bool
	}{
		{"valid", analyses.Request{Action: "a", Guideline: "g"}, false},
		{"empty action", analyses.Request{Action: "", Guideline: "g"}, true},
		{"blank guideline", analyses.Request{Action: "a", Guideline: "   "}, true},
		{"tabs and newlines", analyses.Request{Action: "\t\n", Guideline: "g"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, analyses.ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func outcome(label string, score float32) *classifier.Outcome {
	return &classifier.Outcome{Label: &label, Score: &score}
}
