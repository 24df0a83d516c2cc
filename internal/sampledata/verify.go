package sampledata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/quizpattern/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Summary mirrors the summary_statistics section.
type Summary struct {
	TotalContestants int     `json:"total_contestants"`
	TotalQuestions   int     `json:"total_questions"`
	EliminationRate  float64 `json:"elimination_rate"`
}

// Standing mirrors one /standings entry.
type Standing struct {
	Rank         int     `json:"rank"`
	ContestantID string  `json:"contestant_id"`
	Winnings     float64 `json:"winnings"`
}

// Check is the outcome of Verify.
type Check struct {
	Summary   Summary
	Standings []Standing
}

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

// getJSON performs a GET request and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Verify checks that the service is healthy, that its report covers
// contestants contestants, and that its standings are ranked by winnings.
func Verify(ctx context.Context, c *HTTPClient, contestants, top int) (*Check, error) {
	log := logger.Get().Named("verify")

	if err := c.getJSON(ctx, "/healthz", nil); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	log.Info(ctx, "service is healthy")

	var check Check
	if err := c.getJSON(ctx, "/report/summary_statistics", &check.Summary); err != nil {
		return nil, err
	}
	if check.Summary.TotalContestants != contestants {
		return &check, fmt.Errorf("report covers %d contestants, expected %d",
			check.Summary.TotalContestants, contestants)
	}

	if err := c.getJSON(ctx, fmt.Sprintf("/standings?limit=%d", top), &check.Standings); err != nil {
		return &check, err
	}
	for i, s := range check.Standings {
		if s.Rank != i+1 {
			return &check, fmt.Errorf("standing %d has rank %d", i, s.Rank)
		}
		if i > 0 && s.Winnings > check.Standings[i-1].Winnings {
			return &check, fmt.Errorf("standings not ordered at rank %d", s.Rank)
		}
	}

	log.Info(ctx, "service verified",
		logger.Int("contestants", check.Summary.TotalContestants),
		logger.Int("questions", check.Summary.TotalQuestions),
		logger.Int("standings", len(check.Standings)),
	)
	return &check, nil
}
