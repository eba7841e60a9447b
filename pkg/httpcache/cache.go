// Package httpcache caches GitHub API responses in memory (otter) with
// optional disk persistence, so repeated profile runs against the same
// account don't burn through the rate limit.
package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// Entry is a cached HTTP response body.
type Entry struct {
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
	Data      []byte    `json:"data"`
}

// Cache is an otter-backed response cache. When dir is set, entries are
// periodically snapshotted to disk and reloaded on startup.
type Cache struct {
	cache      otter.Cache[string, Entry]
	logger     *slog.Logger
	saveCancel context.CancelFunc
	dir        string // empty for memory-only
	saveWg     sync.WaitGroup
	ttl        time.Duration
	mu         sync.Mutex
}

func newCache(dir string, ttl time.Duration, logger *slog.Logger) *Cache {
	cache := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      100_000,
		InitialCapacity:  10_000,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})
	return &Cache{
		cache:  *cache,
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}
}

// NewMemoryCache creates a memory-only cache (used by the server, where a
// shared disk snapshot would be wasted effort).
func NewMemoryCache(ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	c := newCache("", ttl, logger)
	logger.Info("memory-only cache initialized", "ttl", ttl)
	return c, nil
}

// NewDiskCache creates a disk-backed cache under dir (used by the CLI).
func NewDiskCache(ctx context.Context, dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := newCache(dir, ttl, logger)
	if err := c.loadFromDisk(); err != nil {
		logger.Warn("failed to load cache from disk", "error", err)
	}
	logger.Info("cache initialized", "dir", dir, "entries_loaded", c.cache.EstimatedSize())

	c.startPeriodicSave(ctx)
	return c, nil
}

func cacheKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get returns the cached body and ETag for url, if present and fresh.
func (c *Cache) Get(url string) (data []byte, etag string, ok bool) {
	entry, found := c.cache.GetIfPresent(cacheKey(url))
	if !found {
		return nil, "", false
	}
	// otter expires on write TTL, but double-check against clock skew
	if time.Now().After(entry.ExpiresAt) {
		c.cache.Invalidate(cacheKey(url))
		return nil, "", false
	}
	return entry.Data, entry.ETag, true
}

// Set stores a response body for url.
func (c *Cache) Set(url string, data []byte, etag string) {
	c.cache.Set(cacheKey(url), Entry{
		Data:      data,
		ExpiresAt: time.Now().Add(c.ttl),
		ETag:      etag,
	})
}

func (c *Cache) snapshotPath() string {
	return filepath.Join(c.dir, "gitcred-cache.gob")
}

func (c *Cache) loadFromDisk() error {
	file, err := os.Open(c.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	valid := 0
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
			valid++
		}
	}
	c.logger.Debug("loaded cache snapshot", "total", len(entries), "valid", valid)
	return nil
}

func (c *Cache) saveToDisk() error {
	if c.dir == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tempPath := c.snapshotPath() + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			c.logger.Debug("failed to remove temp file", "error", removeErr)
		}
	}()

	entries := make(map[string]Entry)
	now := time.Now()
	c.cache.All()(func(key string, entry Entry) bool {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		return fmt.Errorf("encoding cache to file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing cache file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, c.snapshotPath()); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}

	c.logger.Debug("cache saved to disk", "entries", len(entries))
	return nil
}

func (c *Cache) startPeriodicSave(ctx context.Context) {
	saveCtx, cancel := context.WithCancel(ctx)
	c.saveCancel = cancel

	c.saveWg.Add(1)
	go func() {
		defer c.saveWg.Done()
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-saveCtx.Done():
				return
			case <-ticker.C:
				if err := c.saveToDisk(); err != nil {
					c.logger.Error("periodic cache save failed", "error", err)
				}
			}
		}
	}()
}

// Close stops the periodic saver and writes a final snapshot.
func (c *Cache) Close() error {
	if c.saveCancel != nil {
		c.saveCancel()
	}
	c.saveWg.Wait()
	if err := c.saveToDisk(); err != nil {
		c.logger.Error("final cache save failed", "error", err)
		return err
	}
	return nil
}

// WrapDo wraps an HTTP do-function with read-through caching for GET
// requests. Only 200 responses are cached; everything else passes through
// so error classification stays accurate.
func (c *Cache) WrapDo(do func(ctx context.Context, req *http.Request) (*http.Response, error), logger *slog.Logger,
) func(ctx context.Context, req *http.Request) (*http.Response, error) {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			return do(ctx, req)
		}

		url := req.URL.String()
		if data, etag, ok := c.Get(url); ok {
			resp := &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(data)),
				Header:     make(http.Header),
				Request:    req,
			}
			resp.Header.Set("X-From-Cache", "true")
			if etag != "" {
				resp.Header.Set("ETag", etag)
			}
			return resp, nil
		}

		resp, err := do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusOK {
			body, readErr := io.ReadAll(resp.Body)
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.Debug("failed to close response body", "error", closeErr)
			}
			if readErr != nil {
				return nil, readErr
			}
			c.Set(url, body, resp.Header.Get("ETag"))
			resp.Body = io.NopCloser(bytes.NewReader(body))
		}
		return resp, nil
	}
}
