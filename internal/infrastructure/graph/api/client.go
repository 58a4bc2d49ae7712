// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

// Package api is the raw Microsoft Graph REST client used by the attendance
// service. It is authorization-agnostic: callers supply the OAuth2 token
// source, so the same client serves session, delegated, and application
// tokens.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/tellus-ops/attendance-service/internal/logging"
)

// ClientAPI defines the interface for Graph API operations used by the
// provider layer. This allows for easy mocking and testing.
type ClientAPI interface {
	GetEvent(ctx context.Context, mailbox, eventID string) (*EventResource, error)
	ListCalendarView(ctx context.Context, mailbox string, start, end time.Time, limit int) ([]EventResource, error)
	FilterOnlineMeetingsByJoinURL(ctx context.Context, mailbox, joinURL string) ([]OnlineMeetingResource, error)
	ListOnlineMeetings(ctx context.Context, mailbox string, limit int) ([]OnlineMeetingResource, error)
	ListAttendanceReports(ctx context.Context, mailbox, meetingID string, limit int) ([]AttendanceReportResource, error)
	GetUser(ctx context.Context, userID string) (*UserResource, error)
}

const (
	// BaseURL is the base URL for the Microsoft Graph API
	BaseURL = "https://graph.microsoft.com/v1.0"
	// DefaultClientTimeout is the default HTTP client timeout for Graph requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Config holds the configuration for the Graph client
type Config struct {
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = BaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultClientTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.BackoffMultiplier == 0 {
		c.BackoffMultiplier = DefaultBackoffMultiplier
	}
	return c
}

// Client represents a Microsoft Graph API client bound to one token source
type Client struct {
	httpClient *http.Client
	config     Config
}

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient creates a new Graph API client authorized by the given token
// source. The token source decides the authorization mode; the client only
// attaches tokens and handles transport concerns.
func NewClient(config Config, source oauth2.TokenSource) *Client {
	config = config.withDefaults()

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &oauth2.Transport{
				Base:   otelhttp.NewTransport(http.DefaultTransport),
				Source: source,
			},
		},
		config: config,
	}
}

// APIError is a Graph API error response surfaced with its HTTP status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph API error (status %d): %s", e.StatusCode, e.Message)
}

// parseErrorResponse builds an APIError from a Graph error body, which has
// the shape {"error": {"code": "...", "message": "..."}}.
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &APIError{StatusCode: statusCode, Code: errResp.Error.Code, Message: errResp.Error.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		// Don't retry if the context is done.
		if ctxErr, ok := err.(interface{ Err() error }); ok {
			if ctxErr.Err() == context.Canceled || ctxErr.Err() == context.DeadlineExceeded {
				return false
			}
		}
		// Retry on network/connection errors.
		return true
	}

	// Retry on server errors (5xx) and rate limiting (429); never on other 4xx.
	return (statusCode >= 500 && statusCode < 600) || statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Jitter of ±25% to avoid synchronized retries against the provider.
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	withJitter := time.Duration(backoff + jitter)
	if withJitter < c.config.InitialBackoff {
		withJitter = c.config.InitialBackoff
	}

	return withJitter
}

// get performs an authenticated GET against the Graph API with retries and
// decodes the 200 response into out. Non-2xx responses become an *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	requestURL := c.config.BaseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var lastErr error
	var lastStatus int
	var lastBody []byte

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt - 1)
			slog.WarnContext(ctx, "Graph API request failed, retrying",
				"path", path,
				"status", lastStatus,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff.String(),
				logging.ErrKey, lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		status, body, err := c.do(ctx, requestURL)
		if err == nil && status < http.StatusBadRequest {
			slog.DebugContext(ctx, "Graph API request completed",
				"path", path, "status", status, "attempt", attempt+1)
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode Graph response: %w", err)
			}
			return nil
		}

		lastErr, lastStatus, lastBody = err, status, body
		if !shouldRetry(status, err) {
			break
		}
	}

	if lastErr != nil {
		slog.ErrorContext(ctx, "Graph API request failed",
			"path", path, logging.ErrKey, lastErr, logging.PriorityCritical())
		return fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
	}

	apiErr := parseErrorResponse(lastStatus, lastBody)
	slog.ErrorContext(ctx, "Graph API error response",
		"path", path, "status", lastStatus, logging.ErrKey, apiErr)
	return apiErr
}

// do executes one request and reads the full body.
func (c *Client) do(ctx context.Context, requestURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// mailboxPath returns the Graph resource path prefix for a mailbox. The
// literal "me" addresses the signed-in user of a session token; anything else
// must be a concrete address or user ID.
func mailboxPath(mailbox string) string {
	if mailbox == "" || mailbox == "me" {
		return "/me"
	}
	return "/users/" + url.PathEscape(mailbox)
}

// collection is the Graph collection envelope.
type collection[T any] struct {
	Value []T `json:"value"`
}
