// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:        server.URL,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}))

	return client, server
}

func TestConfigWithDefaults(t *testing.T) {
	config := Config{}.withDefaults()

	if config.BaseURL != BaseURL {
		t.Errorf("expected BaseURL %s, got %s", BaseURL, config.BaseURL)
	}
	if config.Timeout != DefaultClientTimeout {
		t.Errorf("expected Timeout %v, got %v", DefaultClientTimeout, config.Timeout)
	}
	if config.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected MaxRetries %d, got %d", DefaultMaxRetries, config.MaxRetries)
	}
	if config.BackoffMultiplier != DefaultBackoffMultiplier {
		t.Errorf("expected BackoffMultiplier %f, got %f", DefaultBackoffMultiplier, config.BackoffMultiplier)
	}
}

func TestConfigWithDefaults_PreservesOverrides(t *testing.T) {
	config := Config{
		BaseURL:    "https://graph.example.com/v1.0",
		Timeout:    45 * time.Second,
		MaxRetries: 5,
	}.withDefaults()

	if config.BaseURL != "https://graph.example.com/v1.0" {
		t.Errorf("expected custom BaseURL, got %s", config.BaseURL)
	}
	if config.Timeout != 45*time.Second {
		t.Errorf("expected custom Timeout, got %v", config.Timeout)
	}
	if config.MaxRetries != 5 {
		t.Errorf("expected custom MaxRetries, got %d", config.MaxRetries)
	}
	if config.InitialBackoff != DefaultInitialBackoff {
		t.Errorf("expected default InitialBackoff, got %v", config.InitialBackoff)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   bool
	}{
		{name: "network error", statusCode: 0, err: errors.New("connection refused"), expected: true},
		{name: "server error 500", statusCode: 500, expected: true},
		{name: "server error 503", statusCode: 503, expected: true},
		{name: "rate limited 429", statusCode: 429, expected: true},
		{name: "client error 400", statusCode: 400, expected: false},
		{name: "client error 404", statusCode: 404, expected: false},
		{name: "success 200", statusCode: 200, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.statusCode, tt.err); got != tt.expected {
				t.Errorf("shouldRetry(%d, %v) = %v, expected %v", tt.statusCode, tt.err, got, tt.expected)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	client := NewClient(Config{
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}))

	if got := client.calculateBackoff(0); got != time.Second {
		t.Errorf("expected initial backoff for attempt 0, got %v", got)
	}

	// Later attempts stay within the jittered envelope and under the cap.
	for attempt := 1; attempt <= 6; attempt++ {
		got := client.calculateBackoff(attempt)
		if got < time.Second {
			t.Errorf("attempt %d: backoff %v below initial backoff", attempt, got)
		}
		if got > 10*time.Second+(10*time.Second/4) {
			t.Errorf("attempt %d: backoff %v above cap with jitter", attempt, got)
		}
	}
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name            string
		statusCode      int
		body            string
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "structured graph error",
			statusCode:      404,
			body:            `{"error":{"code":"ErrorItemNotFound","message":"The specified object was not found."}}`,
			expectedCode:    "ErrorItemNotFound",
			expectedMessage: "The specified object was not found.",
		},
		{
			name:            "unstructured body",
			statusCode:      502,
			body:            "bad gateway",
			expectedCode:    "",
			expectedMessage: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseErrorResponse(tt.statusCode, []byte(tt.body))
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, apiErr.StatusCode)
			}
			if apiErr.Code != tt.expectedCode {
				t.Errorf("expected code %q, got %q", tt.expectedCode, apiErr.Code)
			}
			if apiErr.Message != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, apiErr.Message)
			}
		})
	}
}

func TestClient_Get_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"E1","subject":"Standup"}`))
	}))

	if _, err := client.GetEvent(context.Background(), "me", "E1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer token on request, got %q", gotAuth)
	}
}

func TestClient_Get_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":"E1","subject":"Standup"}`))
	}))

	event, err := client.GetEvent(context.Background(), "me", "E1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Subject != "Standup" {
		t.Errorf("expected subject Standup, got %q", event.Subject)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_Get_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorItemNotFound","message":"not found"}}`))
	}))

	_, err := client.GetEvent(context.Background(), "me", "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 attempt for 404, got %d", calls.Load())
	}
}

func TestMailboxPath(t *testing.T) {
	tests := []struct {
		mailbox  string
		expected string
	}{
		{mailbox: "me", expected: "/me"},
		{mailbox: "", expected: "/me"},
		{mailbox: "alice@example.com", expected: "/users/alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.mailbox, func(t *testing.T) {
			if got := mailboxPath(tt.mailbox); got != tt.expected {
				t.Errorf("mailboxPath(%q) = %q, expected %q", tt.mailbox, got, tt.expected)
			}
		})
	}
}
