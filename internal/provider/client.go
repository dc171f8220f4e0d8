// Package provider is the HTTP client for the insights provider's unified endpoint.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DeafMist/livewise-insights/internal/models"
)

// InsightsPath is the unified LiveWise endpoint.
const InsightsPath = "/api/livewise-insights"

// ErrUnsuccessful is returned when the provider answers 2xx with success=false.
var ErrUnsuccessful = errors.New("provider reported an unsuccessful search")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       models.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body.Error)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Result is a successful provider answer.
type Result struct {
	Location   string
	Data       json.RawMessage
	Insights   *models.RawInsights
	Timestamp  string
	DataSource string
}

// Client calls the provider. Each call is a single attempt bounded by the client timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// New creates a provider client for baseURL.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// FetchInsights posts location to the unified endpoint.
func (c *Client) FetchInsights(ctx context.Context, location string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"location": location})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+InsightsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &se.Body)
		return nil, se
	}

	var envelope models.InsightsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		return nil, ErrUnsuccessful
	}

	raw := &models.RawInsights{}
	if len(envelope.Data) > 0 {
		if raw, err = models.DecodeRawInsights(envelope.Data); err != nil {
			return nil, fmt.Errorf("decode insights: %w", err)
		}
	}

	if envelope.Location == "" {
		envelope.Location = location
	}

	c.log.Debug("insights fetched",
		slog.String("location", envelope.Location),
		slog.String("data_source", envelope.DataSource),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Location:   envelope.Location,
		Data:       envelope.Data,
		Insights:   raw,
		Timestamp:  envelope.Timestamp,
		DataSource: envelope.DataSource,
	}, nil
}
