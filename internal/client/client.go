// Package client talks to the remote analysis service: the authenticated multipart upload
// pipeline, the artifact download and the auth endpoints.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/session"
)

// API paths, relative to the service base URL.
const (
	PathLogin            = "api/auth/login"
	PathSignup           = "api/auth/signup"
	PathAnalyze          = "api/analyze-resume"
	PathMockQuestions    = "api/mock-questions"
	PathGenerateImproved = "api/generate-improved-resume"
)

// maxErrorBody bounds how much of a rejection body is read.
const maxErrorBody = 1 << 20

// Client is an HTTP client for the analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout. The installed HTTP client
// is copied, never changed in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint(path string) string {
	return config.JoinURL(c.baseURL, path)
}

// post issues a POST. A nil session sends no Authorization header.
func (c *Client) post(ctx context.Context, path string, sess *session.Session, body io.Reader, contentType string) (*http.Response, error) {
	url := c.endpoint(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &TransportError{URL: url, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	if sess != nil {
		req.Header.Set("Authorization", sess.Authorization())
	}

	c.logger.Debug("HTTP request", zap.String("method", http.MethodPost), zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Message: "request failed", Cause: err}
	}

	c.logger.Debug("HTTP response", zap.String("url", url), zap.Int("status", resp.StatusCode))
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// rejection builds the error for a non-2xx response, taking the message from the JSON body
// key when present and falling back otherwise.
func rejection(resp *http.Response, key, fallback string) *ServerRejectedError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := fallback
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			message = s
		}
	}
	return &ServerRejectedError{Status: resp.StatusCode, Message: message}
}

// readBody reads a 2xx body.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			URL:     resp.Request.URL.String(),
			Message: "failed to read response body",
			Cause:   err,
		}
	}
	return data, nil
}
