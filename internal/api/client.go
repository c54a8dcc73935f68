// Package api is the typed gateway to the pptpro backend. Each backend
// resource is exposed as a small set of functions performing one HTTP call
// apiece: no retries, no caching, no batching beyond what the backend itself
// offers. Every request carries the session's bearer token; any 401 response
// tears the session down through a registered hook before the error reaches
// the caller.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned for any 401 response, after session teardown.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the backend's error payload for non-2xx responses.
type APIError struct {
	Status    int
	Detail    string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error %d", e.Status)
}

// TokenSource supplies the current bearer token. Satisfied by the session
// store; returns "" when logged out.
type TokenSource interface {
	AccessToken() string
}

// Config holds client construction options.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// GenerateTimeout applies to long-running AI endpoints. Zero means
	// Timeout is used everywhere.
	GenerateTimeout time.Duration
}

// Client is the HTTP gateway to the backend API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	generateClient *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

// NewClient creates a gateway client. onUnauthorized is invoked exactly once
// per 401 response, before the error propagates; pass the session teardown.
func NewClient(cfg Config, tokens TokenSource, onUnauthorized func(), logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	genTimeout := cfg.GenerateTimeout
	if genTimeout == 0 {
		genTimeout = timeout
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		generateClient: &http.Client{Timeout: genTimeout},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		logger:         logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one JSON request/response round trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doWith(ctx, c.httpClient, method, path, body, out)
}

// doGenerate is do with the extended AI-endpoint timeout.
func (c *Client) doGenerate(ctx context.Context, method, path string, body, out any) error {
	return c.doWith(ctx, c.generateClient, method, path, body, out)
}

func (c *Client) doWith(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := c.prepare(req, body != nil)

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, requestID); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// prepare sets the common headers and returns the request correlation ID.
func (c *Client) prepare(req *http.Request, hasBody bool) string {
	requestID := uuid.NewString()
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return requestID
}

// checkStatus maps non-2xx responses to errors. A 401 triggers the session
// teardown hook before returning.
func (c *Client) checkStatus(resp *http.Response, requestID string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}
	var payload struct {
		Detail string `json:"detail"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		} else if len(data) > 0 {
			apiErr.Detail = strings.TrimSpace(string(data))
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("Session expired, clearing auth",
			zap.String("request_id", requestID))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if apiErr.Detail == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Detail)
	}

	c.logger.Debug("Backend error",
		zap.Int("status", resp.StatusCode),
		zap.String("detail", apiErr.Detail),
		zap.String("request_id", requestID))
	return apiErr
}

// ErrorDetail extracts a user-facing message from a gateway error.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrUnauthorized) {
		return "your session has expired, please log in again"
	}
	return err.Error()
}
