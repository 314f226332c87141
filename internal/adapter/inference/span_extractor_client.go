package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docqa-orchestrator/internal/domain"
)

// ExtractRequest is the request payload for the span-extraction
// endpoint.
type ExtractRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Model    string `json:"model,omitempty"`
}

// ExtractResponse is the response from the span-extraction endpoint.
type ExtractResponse struct {
	Answer           string   `json:"answer"`
	Score            float32  `json:"score"`
	ProcessingTimeMs *float64 `json:"processing_time_ms,omitempty"`
}

// SpanExtractorClient implements domain.SpanExtractor via HTTP calls to
// an extractive question-answering service.
type SpanExtractorClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewSpanExtractorClient constructs a new SpanExtractorClient.
// If client is nil, a default http.Client is created with the given
// timeout.
func NewSpanExtractorClient(baseURL, model string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *SpanExtractorClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &SpanExtractorClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  c,
		logger:  logger,
	}
}

// Extract asks the service for the best answer span in the given
// context.
func (c *SpanExtractorClient) Extract(ctx context.Context, question, contextText string) (*domain.SpanAnswer, error) {
	start := time.Now()

	jsonPayload, err := json.Marshal(ExtractRequest{
		Question: question,
		Context:  contextText,
		Model:    c.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extract request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/extract", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.logger.Warn("span_extraction_failed",
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("extract endpoint unreachable: %v: %w", err, domain.ErrModelUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("span_extraction_failed",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", truncateString(string(body), 500)),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("extract endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var extractResp ExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extractResp); err != nil {
		return nil, fmt.Errorf("failed to decode extract response: %w", err)
	}

	c.logger.Info("span_extraction_completed",
		slog.Float64("score", float64(extractResp.Score)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return &domain.SpanAnswer{
		Text:  extractResp.Answer,
		Score: extractResp.Score,
	}, nil
}

// Version returns the model identifier for logging and debugging.
func (c *SpanExtractorClient) Version() string {
	return c.Model
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

var _ domain.SpanExtractor = (*SpanExtractorClient)(nil)
