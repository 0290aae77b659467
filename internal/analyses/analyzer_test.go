package analyses_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/monitor/internal/analyses"
	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/pkg/metrics"
)

func newSystem(store analyses.Store, cls analyses.Classifier, opts ...analyses.Option) analyses.System {
	return analyses.New(store, cls, discard(), pageConfig(), opts...)
}

func TestAnalyzeSecondCallUsesStoredAnswer(t *testing.T) {
	store := &memStore{}
	cls := &fakeClassifier{outcome: outcome(classifier.LabelComplies, 0.8731)}
	sys := newSystem(store, cls)

	req := analyses.Request{Action: "Deployed on Friday", Guideline: "No Friday deploys"}
	ctx := context.Background()

	first, err := sys.Analyze(ctx, req)
	require.NoError(t, err)

	second, err := sys.Analyze(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 1, cls.Calls())
	assert.Equal(t, *first.Result, *second.Result)
	assert.True(t, first.Confidence.Equal(*second.Confidence))
	assert.Equal(t, "0.87", second.Confidence.StringFixed(2))
	assert.True(t, second.Timestamp.Equal(store.records[0].CreatedAt), "hit carries the stored timestamp")
}

func TestAnalyzeClassifiesWhenNothingStored(t *testing.T) {
	store := &memStore{}
	cls := &fakeClassifier{outcome: outcome(classifier.LabelDeviates, 0.66)}
	sys := newSystem(store, cls)

	resp, err := sys.Analyze(context.Background(), analyses.Request{Action: "a", Guideline: "g"})
	require.NoError(t, err)

	assert.Equal(t, classifier.LabelDeviates, *resp.Result)
	require.Len(t, store.records, 1)
	assert.Equal(t, int64(1), store.records[0].ID)
	assert.Equal(t, "a", store.records[0].Action)
}

func TestAnalyzeRejectsBlankInputWithoutIO(t *testing.T) {
	tests := []struct {
		name string
		req  analyses.Request
	}{
		{"empty action", analyses.Request{Action: "", Guideline: "g"}},
		{"whitespace guideline", analyses.Request{Action: "a", Guideline: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			cls := &fakeClassifier{outcome: outcome(classifier.LabelComplies, 0.9)}

			_, err := newSystem(store, cls).Analyze(context.Background(), tt.req)

			assert.ErrorIs(t, err, analyses.ErrInvalidRequest)
			assert.Equal(t, http.StatusBadRequest, analyses.MapHTTPStatus(err))
			assert.Zero(t, store.Calls())
			assert.Zero(t, cls.Calls())
		})
	}
}

func TestAnalyzeToleratesWriteFailures(t *testing.T) {
	tests := []struct {
		name   string
		addErr error
	}{
		{"duplicate", analyses.ErrDuplicate},
		{"storage fault", errDiskFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := outcome(classifier.LabelUnclear, 0.015)
			store := &memStore{addErr: tt.addErr}
			sys := newSystem(store, &fakeClassifier{outcome: o})

			req := analyses.Request{Action: "a", Guideline: "g"}
			resp, err := sys.Analyze(context.Background(), req)
			require.NoError(t, err)

			want, err := analyses.ToResponse(req, o)
			require.NoError(t, err)

			assert.Equal(t, *want.Result, *resp.Result)
			assert.True(t, want.Confidence.Equal(*resp.Confidence))
			assert.Equal(t, "0.02", resp.Confidence.StringFixed(2))
			assert.Empty(t, store.records)
		})
	}
}

func TestAnalyzePropagatesTransportError(t *testing.T) {
	store := &memStore{}
	cls := &fakeClassifier{err: &classifier.TransportError{StatusCode: http.StatusServiceUnavailable}}

	_, err := newSystem(store, cls).Analyze(context.Background(), analyses.Request{Action: "a", Guideline: "g"})

	var te *classifier.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, analyses.MapHTTPStatus(err))
	assert.Empty(t, store.records)
}

func TestAnalyzeIncompleteOutcomeSkipsPersistence(t *testing.T) {
	label := classifier.LabelComplies
	store := &memStore{}
	cls := &fakeClassifier{outcome: &classifier.Outcome{Label: &label}}

	_, err := newSystem(store, cls).Analyze(context.Background(), analyses.Request{Action: "a", Guideline: "g"})

	assert.ErrorIs(t, err, analyses.ErrIncompleteOutcome)
	assert.Equal(t, http.StatusBadGateway, analyses.MapHTTPStatus(err))
	assert.Empty(t, store.records)
}

func TestAnalyzeEmptyRankingFails(t *testing.T) {
	store := &memStore{}

	_, err := newSystem(store, &fakeClassifier{}).Analyze(context.Background(), analyses.Request{Action: "a", Guideline: "g"})

	assert.ErrorIs(t, err, analyses.ErrIncompleteOutcome)
	assert.Empty(t, store.records)
}

func TestAnalyzeLookupFailure(t *testing.T) {
	cls := &fakeClassifier{outcome: outcome(classifier.LabelComplies, 0.9)}
	store := &memStore{readErr: errors.New("connection reset")}

	_, err := newSystem(store, cls).Analyze(context.Background(), analyses.Request{Action: "a", Guideline: "g"})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, analyses.MapHTTPStatus(err))
	assert.Zero(t, cls.Calls())
}

func TestHistoryNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	store := &memStore{records: []analyses.Record{
		record(1, "second", classifier.LabelDeviates, t2),
		record(2, "third", classifier.LabelUnclear, t3),
		record(3, "first", classifier.LabelComplies, t1),
	}}

	history, err := newSystem(store, &fakeClassifier{}).History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.True(t, history[0].Timestamp.Equal(t3))
	assert.True(t, history[1].Timestamp.Equal(t2))
	assert.True(t, history[2].Timestamp.Equal(t1))
	assert.Equal(t, "third", history[0].Action)
}

func TestHistoryEmptyIsAbsent(t *testing.T) {
	history, err := newSystem(&memStore{}, &fakeClassifier{}).History(context.Background())
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestSummary(t *testing.T) {
	now := time.Now().UTC()
	store := &memStore{records: []analyses.Record{
		record(1, "a1", classifier.LabelComplies, now),
		record(2, "a2", classifier.LabelComplies, now),
		record(3, "a3", classifier.LabelComplies, now),
		record(4, "a4", classifier.LabelDeviates, now),
		record(5, "a5", classifier.LabelUnclear, now),
	}}

	summary, err := newSystem(store, &fakeClassifier{}).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, map[string]int{
		classifier.LabelComplies: 3,
		classifier.LabelDeviates: 1,
		classifier.LabelUnclear:  1,
	}, summary.ResultsCount)
}

func TestSummaryEmpty(t *testing.T) {
	summary, err := newSystem(&memStore{}, &fakeClassifier{}).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Count)
	assert.Nil(t, summary.ResultsCount)
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	sys := metrics.New()
	m := analyses.NewMetrics(sys.Factory())

	store := &memStore{}
	svc := newSystem(store, &fakeClassifier{outcome: outcome(classifier.LabelComplies, 0.9)}, analyses.WithMetrics(m))

	req := analyses.Request{Action: "a", Guideline: "g"}
	for range 3 {
		_, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
	}

	store.addErr = analyses.ErrDuplicate
	_, err := svc.Analyze(context.Background(), analyses.Request{Action: "b", Guideline: "g"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	sys.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	out := rec.Body.String()

	assert.Contains(t, out, `monitor_analyses_lookups_total{result="hit"} 2`)
	assert.Contains(t, out, `monitor_analyses_lookups_total{result="miss"} 2`)
	assert.Contains(t, out, `monitor_analyses_unpersisted_total{reason="duplicate"} 1`)
}

func record(id int64, action, result string, at time.Time) analyses.Record {
	return analyses.Record{
		ID:         id,
		Action:     action,
		Guideline:  "g",
		Result:     result,
		Confidence: decimal.RequireFromString("0.50"),
		CreatedAt:  at,
	}
}
