// Package api implements the REST transport to the ledger service.
//
// Every call is a single request with no retry; failures surface as *Error
// (HTTP-level) or a wrapped transport error, and the caller decides whether
// retrying makes sense. Amount fields are decoded straight into integer
// cents via money.Money.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splittab/splittab/internal/metrics"
)

// Error is an HTTP-level failure reported by the ledger service, carrying
// the status code and the service's detail message.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ledger service: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("ledger service: unexpected status %d", e.Status)
}

// Client is the HTTP client for the ledger service. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client rooted at baseURL with the given per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken installs the bearer token attached to subsequent requests.
// An empty token returns the client to anonymous calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the service root, used to absolutize relative resource
// URLs the service returns (receipt and profile picture paths).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AbsoluteURL prepends the service root to a relative resource path. URLs
// that are already absolute pass through unchanged.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return c.baseURL + path
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, reader, contentType, out)
}

// doForm sends an application/x-www-form-urlencoded request, used only by
// the token endpoint.
func (c *Client) doForm(ctx context.Context, op, path, form string, out any) error {
	return c.do(ctx, op, http.MethodPost, path, strings.NewReader(form),
		"application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s: send: %w", op, err)
	}
	defer resp.Body.Close()

	slog.Debug("ledger response",
		"operation", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return c.decodeError(resp)
	}
	metrics.APIRequests.WithLabelValues(op, "ok").Inc()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeError reads the service's {"detail": "..."} error body.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	return apiErr
}
