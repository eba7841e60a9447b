// Package github is a thin client for the GitHub REST API v3, covering the
// endpoints the profile analyzer needs. It normalizes error classes
// (user-not-found, expected-absent, rate-limited) and records per-run usage
// telemetry.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIBase is the public GitHub REST API endpoint.
const DefaultAPIBase = "https://api.github.com"

const userAgent = "gitcred-github-analyzer"

// DoFunc performs an HTTP request. The analyzer injects a retrying (and
// optionally caching) implementation here.
type DoFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Client provides methods for interacting with the GitHub REST API.
type Client struct {
	logger      *slog.Logger
	httpDo      DoFunc
	githubToken string
	apiBase     string
	usage       *Usage
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIBase overrides the API base URL. Used by tests and enterprise
// deployments.
func WithAPIBase(base string) ClientOption {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(base, "/")
	}
}

// NewClient creates a new GitHub API client. The token may be empty, in
// which case calls are unauthenticated and subject to tighter rate limits.
func NewClient(logger *slog.Logger, githubToken string, httpDo DoFunc, opts ...ClientOption) *Client {
	c := &Client{
		logger:      logger,
		httpDo:      httpDo,
		githubToken: githubToken,
		apiBase:     DefaultAPIBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithUsage returns a shallow copy of the client that records calls into the
// given tracker. Each orchestration run binds its own tracker so overlapping
// runs keep independent counters.
func (c *Client) WithUsage(usage *Usage) *Client {
	bound := *c
	bound.usage = usage
	return &bound
}

// isValidToken checks whether a token looks like a GitHub token (basic
// format check, prevents header injection from malformed config).
func isValidToken(token string) bool {
	if token == "" {
		return false
	}
	if strings.HasPrefix(token, "github_pat_") ||
		strings.HasPrefix(token, "gho_") ||
		strings.HasPrefix(token, "ghs_") ||
		strings.HasPrefix(token, "ghp_") {
		return true
	}
	// Classic tokens are 40 hex chars
	if len(token) == 40 {
		for _, r := range token {
			if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
				return false
			}
		}
		return true
	}
	return false
}

// get fetches endpoint (path plus query, relative to the API base) and
// decodes the JSON body into v. 404s are classified by endpoint shape: a
// bare user lookup maps to ErrUserNotFound, optional artifacts map to
// ErrResourceNotFound, 403 maps to ErrRateLimited.
func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.githubToken != "" && isValidToken(c.githubToken) {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}

	resp, err := c.httpDo(ctx, req)
	c.usage.record(endpoint, resp)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		if categorize(endpoint) == "user-info" {
			username := strings.TrimPrefix(strings.SplitN(endpoint, "?", 2)[0], "/users/")
			return fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		// Expected-absent for optional artifacts; Debug only, never a warning.
		c.logger.Debug("resource not found", "endpoint", endpoint)
		return fmt.Errorf("%w: %s", ErrResourceNotFound, endpoint)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned status %d", ErrRateLimited, endpoint, resp.StatusCode)
	default:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("github API returned status %d for %s (failed to read response)", resp.StatusCode, endpoint)
		}
		return fmt.Errorf("github API returned status %d for %s: %s", resp.StatusCode, endpoint, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// defaultHTTPClient returns an HTTP client with sane timeouts and
// keep-alive tuned for a burst of sequential API calls.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// DirectDo returns a DoFunc that issues requests on a default HTTP client
// without retries or caching. Callers that care about resilience should
// wrap their own transport instead.
func DirectDo() DoFunc {
	client := defaultHTTPClient()
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return client.Do(req.WithContext(ctx))
	}
}
