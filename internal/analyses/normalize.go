package analyses

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/monitor/internal/classifier"
)

// confidencePlaces is the number of fractional digits kept on confidence.
const confidencePlaces = 2

// RoundConfidence converts a model score to a two-place decimal.
// The score is read at its shortest float32 decimal form and rounded half to even,
// so 0.005 becomes 0.00 and 0.015 becomes 0.02.
func RoundConfidence(score float32) decimal.Decimal {
	return decimal.NewFromFloat32(score).RoundBank(confidencePlaces)
}

// ToRecord builds the record to persist for req from a classifier outcome.
func ToRecord(req Request, outcome *classifier.Outcome) (Record, error) {
	label, score, err := complete(outcome)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Action:     req.Action,
		Guideline:  req.Guideline,
		Result:     label,
		Confidence: RoundConfidence(score),
		CreatedAt:  now(),
	}, nil
}

// ToResponse builds the caller-facing response directly from a classifier outcome.
func ToResponse(req Request, outcome *classifier.Outcome) (Response, error) {
	label, score, err := complete(outcome)
	if err != nil {
		return Response{}, err
	}

	confidence := RoundConfidence(score)
	return Response{
		Action:     req.Action,
		Guideline:  req.Guideline,
		Result:     &label,
		Confidence: &confidence,
		Timestamp:  now(),
	}, nil
}

// RecordResponse converts a stored record into a response stamped with its creation time.
func RecordResponse(rec Record) Response {
	result := rec.Result
	confidence := rec.Confidence
	return Response{
		Action:     rec.Action,
		Guideline:  rec.Guideline,
		Result:     &result,
		Confidence: &confidence,
		Timestamp:  rec.CreatedAt.UTC(),
	}
}

func complete(outcome *classifier.Outcome) (string, float32, error) {
	if outcome == nil || outcome.Label == nil || outcome.Score == nil {
		return "", 0, ErrIncompleteOutcome
	}
	return *outcome.Label, *outcome.Score, nil
}

func now() time.Time {
	return time.Now().UTC()
}
