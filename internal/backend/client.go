// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeInvalidRequest
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeInvalidResponse
)

// ClientError represents a failure talking to the chat backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for errors.Is checks; SendChat wraps them into the
// corresponding ClientError's cause chain.
var (
	ErrTimeout    = errors.New("request timed out")
	ErrAuthFailed = errors.New("authentication failed")
)

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsInvalidRequest reports whether err is a local validation failure that
// never reached the network.
func IsInvalidRequest(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeInvalidRequest
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultTimeout is the fixed timeout applied to every request.
const DefaultTimeout = 30 * time.Second

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL of the inference backend, e.g. http://llm.internal:11434
	BaseURL string

	// APIKey is sent as an opaque bearer token on every request.
	APIKey string

	// Timeout for requests (default: 30s).
	Timeout time.Duration
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the chat backend. It is safe for
// concurrent use.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. A nil logger falls back to zap.NewNop.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// setHeaders applies the auth and content headers used on every request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// =============================================================================
// CHAT
// =============================================================================

// SendChat issues one non-streaming chat request and returns the assistant
// reply text.
//
// A non-blank systemPrompt is prepended to the outbound payload as a single
// synthetic user-role message; it exists only for this request and is never
// handed back to any store. messages may be empty only for such a
// system-prompt-only call. Failures are surfaced immediately; there are no
// retries.
func (c *Client) SendChat(ctx context.Context, messages []Message, model string, systemPrompt string) (string, error) {
	if model == "" {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "model must not be empty"}
	}
	if len(messages) == 0 && strings.TrimSpace(systemPrompt) == "" {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "no messages to send"}
	}

	outbound := make([]Message, 0, len(messages)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		outbound = append(outbound, Message{Role: "user", Content: systemPrompt})
	}
	outbound = append(outbound, messages...)

	reqBody := ChatRequest{
		Model:    model,
		Messages: outbound,
		Stream:   false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeoutErr(err) {
			return "", &ClientError{Type: ErrTypeTimeout, Message: "chat request", Cause: fmt.Errorf("%w: %v", ErrTimeout, err)}
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &ClientError{Type: ErrTypeAuth, Message: "chat request rejected", Cause: fmt.Errorf("%w: %s", ErrAuthFailed, resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		// The backend may include a structured error body.
		var backendErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&backendErr); err == nil && backendErr.Error != "" {
			return "", &ClientError{Type: ErrTypeInvalidResponse, Message: backendErr.Error}
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "chat request failed: " + resp.Status}
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response", Cause: err}
	}

	return result.Message.Content, nil
}

// =============================================================================
// MODEL LIST
// =============================================================================

// ListModels retrieves the names of the available models.
//
// It never fails to the caller: any transport or decode problem degrades to
// an empty list with the failure reported through the logger. A stale or
// empty model picker must not block chat usage.
func (c *Client) ListModels(ctx context.Context) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		c.logger.Warn("model list request could not be created", zap.Error(err))
		return []string{}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("model list fetch failed", zap.Error(err))
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("model list fetch failed",
			zap.Int("status", resp.StatusCode))
		io.Copy(io.Discard, resp.Body)
		return []string{}
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("model list response could not be decoded", zap.Error(err))
		return []string{}
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return names
}

// =============================================================================
// HELPERS
// =============================================================================

// isTimeoutErr distinguishes deadline expiry from other transport failures.
func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
