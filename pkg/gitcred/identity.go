package gitcred

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentity is returned when an input cannot be resolved to a
// GitHub username.
var ErrInvalidIdentity = errors.New("could not extract username from input")

var (
	githubURLPattern   = regexp.MustCompile(`(?i)github\.com/([^/?#]+)`)
	bareSegmentPattern = regexp.MustCompile(`^[^/?#]+$`)
)

// ResolveUsername extracts a canonical GitHub username from free-form input:
// a bare handle, a profile URL, or anything containing "github.com/{user}".
// Resolution is idempotent; resolving a canonical username returns it
// unchanged.
func ResolveUsername(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidIdentity)
	}

	// A bare handle has neither path separators nor dots.
	if !strings.Contains(trimmed, "/") && !strings.Contains(trimmed, ".") {
		return trimmed, nil
	}

	if m := githubURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}

	// Inputs like "john.doe" have a dot but no URL structure.
	if bareSegmentPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, input)
}
