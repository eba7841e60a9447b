package github

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// categoryRule maps an endpoint shape to a telemetry category. Rules are
// evaluated in order; the first match wins.
type categoryRule struct {
	category string
	match    func(endpoint string) bool
}

var categoryRules = []categoryRule{
	{"repositories", func(e string) bool { return strings.Contains(e, "/users/") && strings.Contains(e, "/repos") }},
	{"organizations", func(e string) bool { return strings.Contains(e, "/users/") && strings.Contains(e, "/orgs") }},
	{"events", func(e string) bool { return strings.Contains(e, "/users/") && strings.Contains(e, "/events") }},
	{"user-info", func(e string) bool {
		rest, ok := strings.CutPrefix(strings.SplitN(e, "?", 2)[0], "/users/")
		return ok && !strings.Contains(rest, "/")
	}},
	{"repository-content", func(e string) bool { return strings.Contains(e, "/repos/") && strings.Contains(e, "/contents") }},
	{"contributors", func(e string) bool { return strings.Contains(e, "/repos/") && strings.Contains(e, "/contributors") }},
	{"issues", func(e string) bool { return strings.Contains(e, "/repos/") && strings.Contains(e, "/issues") }},
	{"branch-protection", func(e string) bool { return strings.Contains(e, "/repos/") && strings.Contains(e, "/protection") }},
	{"community", func(e string) bool { return strings.Contains(e, "/repos/") && strings.Contains(e, "/community") }},
	{"organization-details", func(e string) bool { return strings.Contains(e, "/orgs/") }},
}

// categorize buckets an API endpoint for usage telemetry.
func categorize(endpoint string) string {
	for _, rule := range categoryRules {
		if rule.match(endpoint) {
			return rule.category
		}
	}
	return "other"
}

// Usage tracks API call counts and rate-limit state for a single
// orchestration run. It is created fresh per run and threaded through the
// client, so concurrent runs never share counters.
type Usage struct {
	mu            sync.Mutex
	totalCalls    int
	cachedCalls   int
	byCategory    map[string]int
	rateRemaining int
	rateReset     time.Time
}

// NewUsage returns an empty usage tracker.
func NewUsage() *Usage {
	return &Usage{
		byCategory:    make(map[string]int),
		rateRemaining: -1,
	}
}

// record counts one call against the endpoint's category and captures the
// latest rate-limit headers when a response is available. Responses served
// from the local cache never hit the network, so they count separately and
// carry no rate-limit headers worth reading.
func (u *Usage) record(endpoint string, resp *http.Response) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if resp != nil && resp.Header.Get("X-From-Cache") == "true" {
		u.cachedCalls++
		return
	}

	u.totalCalls++
	u.byCategory[categorize(endpoint)]++

	if resp == nil {
		return
	}
	if remaining := resp.Header.Get("x-ratelimit-remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			u.rateRemaining = n
		}
	}
	if reset := resp.Header.Get("x-ratelimit-reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			u.rateReset = time.Unix(epoch, 0).UTC()
		}
	}
}

// UsageSnapshot is a point-in-time copy of the usage counters. TotalCalls
// covers network calls only; CachedCalls counts responses served from the
// local cache.
type UsageSnapshot struct {
	TotalCalls      int            `json:"total_calls"`
	CachedCalls     int            `json:"cached_calls"`
	CallsByCategory map[string]int `json:"calls_by_category"`
	RateRemaining   int            `json:"rate_remaining"` // -1 when unknown
	RateReset       time.Time      `json:"rate_reset,omitzero"`
}

// Snapshot returns a copy of the current counters, safe to read while the
// run is still in flight.
func (u *Usage) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	byCategory := make(map[string]int, len(u.byCategory))
	for category, count := range u.byCategory {
		byCategory[category] = count
	}
	return UsageSnapshot{
		TotalCalls:      u.totalCalls,
		CachedCalls:     u.cachedCalls,
		CallsByCategory: byCategory,
		RateRemaining:   u.rateRemaining,
		RateReset:       u.rateReset,
	}
}
