package gitcred

// OptionHolder stores configuration collected from Option functions.
type OptionHolder struct {
	githubToken     string
	cacheDir        string
	apiBaseURL      string
	noCache         bool
	memoryOnlyCache bool
}

// Option is a functional option for configuring the Analyzer.
type Option func(*OptionHolder)

// WithGitHubToken sets the GitHub API token. Empty means unauthenticated
// calls at lower rate limits.
func WithGitHubToken(token string) Option {
	return func(h *OptionHolder) {
		h.githubToken = token
	}
}

// WithCacheDir sets a custom directory for the disk-backed response cache.
func WithCacheDir(dir string) Option {
	return func(h *OptionHolder) {
		h.cacheDir = dir
	}
}

// WithNoCache disables response caching entirely.
func WithNoCache() Option {
	return func(h *OptionHolder) {
		h.noCache = true
	}
}

// WithMemoryCache uses a memory-only cache instead of the disk-backed one.
// Intended for server deployments.
func WithMemoryCache() Option {
	return func(h *OptionHolder) {
		h.memoryOnlyCache = true
	}
}

// WithAPIBaseURL overrides the GitHub API base URL. Used by tests and
// GitHub Enterprise deployments.
func WithAPIBaseURL(base string) Option {
	return func(h *OptionHolder) {
		h.apiBaseURL = base
	}
}
