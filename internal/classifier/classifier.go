// Package classifier calls a hosted zero-shot classification model to judge
// whether an action complies with, deviates from, or is unclear against a guideline.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Candidate labels offered to the model, in request order.
const (
	LabelComplies = "COMPLIES"
	LabelDeviates = "DEVIATES"
	LabelUnclear  = "UNCLEAR"
)

// HypothesisTemplate frames each candidate label as an entailment hypothesis.
const HypothesisTemplate = "The action {} the guideline."

// Labels returns the candidate label set.
func Labels() []string {
	return []string{LabelComplies, LabelDeviates, LabelUnclear}
}

const maxErrorBody = 512

// Outcome is the top-ranked label and score returned by the model.
// Either part may be missing from a degenerate response.
type Outcome struct {
	Label *string
	Score *float32
}

// Client classifies (action, guideline) pairs against the configured model.
// Calls are never retried.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	metrics  *Metrics
	logger   *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records call latency and outcomes.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: cfg.Endpoint(),
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:   logger.With("system", "classifier"),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template"`
	MultiLabel         bool     `json:"multi_label"`
}

// Prompt renders the single input text sent to the model.
func Prompt(action, guideline string) string {
	return "Guideline: " + guideline + "\nAction: " + action
}

// Classify sends one request and returns the top-ranked outcome, or nil when
// the model returned no ranking. Any failure to obtain a decodable success
// response is a *TransportError.
func (c *Client) Classify(ctx context.Context, action, guideline string) (*Outcome, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	start := time.Now()
	outcome, err := c.classify(ctx, action, guideline)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		c.metrics.observe(statusTransport, elapsed.Seconds())
		c.logger.Warn("classification failed", "error", err, "duration", elapsed)
	case outcome == nil:
		c.metrics.observe(statusEmpty, elapsed.Seconds())
		c.logger.Warn("classification returned no ranking", "duration", elapsed)
	default:
		c.metrics.observe(statusOK, elapsed.Seconds())
		c.logger.Debug("classification complete", "duration", elapsed)
	}

	return outcome, err
}

func (c *Client) classify(ctx context.Context, action, guideline string) (*Outcome, error) {
	payload, err := json.Marshal(request{
		Inputs: Prompt(action, guideline),
		Parameters: parameters{
			CandidateLabels:    Labels(),
			HypothesisTemplate: HypothesisTemplate,
			MultiLabel:         false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	outcome, err := decode(body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	return outcome, nil
}
