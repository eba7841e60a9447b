// Package gitcred analyzes a GitHub account and produces a structured
// quality and activity profile for use as evidence in hiring-credibility
// assessments. ProcessAccount is the sole public entry point.
package gitcred

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/unmask-dev/gitcred/pkg/github"
	"github.com/unmask-dev/gitcred/pkg/httpcache"
)

// Analyzer fetches and aggregates GitHub signals for an account.
type Analyzer struct {
	logger     *slog.Logger
	httpClient *http.Client
	cache      *httpcache.Cache
	github     *github.Client
}

// New creates an Analyzer with the default logger.
func New(ctx context.Context, opts ...Option) *Analyzer {
	return NewWithLogger(ctx, slog.Default(), opts...)
}

// NewWithLogger creates an Analyzer with a custom logger.
func NewWithLogger(ctx context.Context, logger *slog.Logger, opts ...Option) *Analyzer {
	optHolder := &OptionHolder{}
	for _, opt := range opts {
		opt(optHolder)
	}

	var cache *httpcache.Cache

	switch {
	case optHolder.noCache:
		logger.Info("response caching disabled")
	case optHolder.memoryOnlyCache:
		var err error
		cache, err = httpcache.NewMemoryCache(6*time.Hour, logger)
		if err != nil {
			logger.Warn("memory cache initialization failed", "error", err)
			cache = nil
		}
	default:
		var cacheDir string
		if optHolder.cacheDir != "" {
			cacheDir = optHolder.cacheDir
		} else if userCacheDir, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(userCacheDir, "gitcred")
		} else {
			logger.Debug("could not determine user cache directory", "error", err)
		}

		if cacheDir != "" {
			var err error
			cache, err = httpcache.NewDiskCache(ctx, cacheDir, 24*time.Hour, logger)
			if err != nil {
				logger.Warn("cache initialization failed", "error", err, "cache_dir", cacheDir)
				cache = nil
			}
		}
	}

	analyzer := &Analyzer{
		logger: logger,
		cache:  cache,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	do := analyzer.retryableHTTPDo
	if cache != nil {
		do = cache.WrapDo(do, logger)
	}

	var clientOpts []github.ClientOption
	if optHolder.apiBaseURL != "" {
		clientOpts = append(clientOpts, github.WithAPIBase(optHolder.apiBaseURL))
	}
	analyzer.github = github.NewClient(logger, optHolder.githubToken, do, clientOpts...)

	return analyzer
}

// Close shuts down the analyzer, flushing the response cache to disk.
func (a *Analyzer) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

// retryableHTTPDo performs an HTTP request with exponential backoff and
// jitter. Retries network errors, 429 and 5xx. 403 is returned immediately
// so rate-limit exhaustion surfaces as a typed failure instead of burning
// the remaining quota on retries. The returned response body must be closed
// by the caller.
func (a *Analyzer) retryableHTTPDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	deadline := time.Now().Add(20 * time.Second)
	var resp *http.Response
	var lastErr error

	err := retry.Do(
		func() error {
			if time.Now().After(deadline) {
				return retry.Unrecoverable(errors.New("timeout after 20 seconds"))
			}

			var err error
			resp, err = a.httpClient.Do(req.WithContext(ctx)) //nolint:bodyclose // Body closed on error, returned open on success for caller
			if err != nil {
				lastErr = err
				return err
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
				closeErr := resp.Body.Close()
				if readErr != nil {
					a.logger.Debug("failed to read error response body", "error", readErr)
				}
				if closeErr != nil {
					a.logger.Debug("failed to close error response body", "error", closeErr)
				}
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				a.logger.Debug("retryable HTTP error",
					"status", resp.StatusCode,
					"url", req.URL.String())
				return lastErr
			}

			// Success or a non-retryable status; the client classifies it.
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(4*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(200*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Info("retrying HTTP request",
				"attempt", n+1,
				"url", req.URL.String(),
				"error", err)
		}),
		retry.RetryIf(func(err error) bool {
			if time.Now().After(deadline) {
				return false
			}
			return err != nil && !strings.Contains(err.Error(), "timeout after")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", lastErr)
	}

	return resp, nil
}
