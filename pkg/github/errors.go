package github

import "errors"

// Common errors returned by the GitHub API client.
//
// ErrResourceNotFound marks 404s on optional artifacts (file contents,
// workflow directories, branch protection, community profiles). Callers
// treat it as "feature not present" rather than a failure, so it is never
// logged above Debug level.
var (
	ErrUserNotFound     = errors.New("github user not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrRateLimited      = errors.New("github API rate limited or forbidden")
)
