package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const perPage = 100 // GitHub's maximum page size

// FetchUser fetches a user's profile. Returns ErrUserNotFound (wrapped) when
// the account does not exist.
func (c *Client) FetchUser(ctx context.Context, username string) (*User, error) {
	var user User
	endpoint := "/users/" + url.PathEscape(username)
	if err := c.get(ctx, endpoint, &user); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched user", "username", username, "name", user.Name)
	return &user, nil
}

// FetchRepositories pages through a user's repositories, sorted by most
// recently updated, stopping at maxRepos or at the first short page.
func (c *Client) FetchRepositories(ctx context.Context, username string, maxRepos int) ([]Repo, error) {
	var all []Repo
	pageSize := perPage
	if maxRepos < pageSize {
		pageSize = maxRepos
	}

	for page := 1; len(all) < maxRepos; page++ {
		endpoint := fmt.Sprintf("/users/%s/repos?page=%d&per_page=%d&sort=updated&direction=desc",
			url.PathEscape(username), page, pageSize)

		var repos []Repo
		if err := c.get(ctx, endpoint, &repos); err != nil {
			return nil, fmt.Errorf("listing repositories for %s: %w", username, err)
		}
		if len(repos) == 0 {
			break
		}

		for _, repo := range repos {
			if len(all) >= maxRepos {
				break
			}
			all = append(all, repo)
		}

		// A short page means we reached the end.
		if len(repos) < pageSize {
			break
		}
	}

	c.logger.Debug("fetched repositories", "username", username, "count", len(all))
	return all, nil
}

// FetchEvents pages through a user's public event stream, capped and
// truncated to maxEvents.
func (c *Client) FetchEvents(ctx context.Context, username string, maxEvents int) ([]Event, error) {
	var all []Event
	pageSize := perPage
	if maxEvents < pageSize {
		pageSize = maxEvents
	}

	for page := 1; len(all) < maxEvents; page++ {
		endpoint := fmt.Sprintf("/users/%s/events?page=%d&per_page=%d", url.PathEscape(username), page, pageSize)

		var events []Event
		if err := c.get(ctx, endpoint, &events); err != nil {
			return nil, fmt.Errorf("listing events for %s: %w", username, err)
		}
		if len(events) == 0 {
			break
		}

		all = append(all, events...)

		if len(events) < pageSize {
			break
		}
	}

	if len(all) > maxEvents {
		all = all[:maxEvents]
	}
	c.logger.Debug("fetched events", "username", username, "count", len(all))
	return all, nil
}

// FetchOrganizations fetches the organizations a user publicly belongs to.
func (c *Client) FetchOrganizations(ctx context.Context, username string) ([]Org, error) {
	var orgs []Org
	endpoint := fmt.Sprintf("/users/%s/orgs", url.PathEscape(username))
	if err := c.get(ctx, endpoint, &orgs); err != nil {
		return nil, fmt.Errorf("listing organizations for %s: %w", username, err)
	}
	c.logger.Debug("fetched organizations", "username", username, "count", len(orgs))
	return orgs, nil
}

// FetchOrganizationDetail fetches the detailed record for one organization.
func (c *Client) FetchOrganizationDetail(ctx context.Context, login string) (*OrgDetail, error) {
	var org OrgDetail
	endpoint := "/orgs/" + url.PathEscape(login)
	if err := c.get(ctx, endpoint, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// FetchDirectory lists the contents of a directory inside a repository.
// Pass an empty path for the repository root. Missing directories return
// ErrResourceNotFound (wrapped); callers treat that as "absent".
func (c *Client) FetchDirectory(ctx context.Context, fullName, path string) ([]ContentEntry, error) {
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", escapeFullName(fullName), escapePath(path))

	var entries []ContentEntry
	if err := c.get(ctx, endpoint, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchFileContent fetches a single file's content, decoding GitHub's
// base64 wrapping. Missing files return ErrResourceNotFound (wrapped).
func (c *Client) FetchFileContent(ctx context.Context, fullName, path string) (string, error) {
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", escapeFullName(fullName), escapePath(path))

	var entry ContentEntry
	if err := c.get(ctx, endpoint, &entry); err != nil {
		return "", err
	}
	if entry.Type != "file" || entry.Content == "" {
		return "", fmt.Errorf("%w: %s is not a file", ErrResourceNotFound, endpoint)
	}

	// GitHub wraps base64 content with newlines.
	raw := strings.ReplaceAll(entry.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decoding content of %s: %w", path, err)
	}
	return string(decoded), nil
}

// FetchRepoIssues fetches up to one page of a repository's issues in all
// states. Pull requests are included; use IssueItem.IsPullRequest to split.
func (c *Client) FetchRepoIssues(ctx context.Context, fullName string) ([]IssueItem, error) {
	endpoint := fmt.Sprintf("/repos/%s/issues?state=all&per_page=%d", escapeFullName(fullName), perPage)

	var issues []IssueItem
	if err := c.get(ctx, endpoint, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// FetchContributors fetches up to one page of a repository's contributors.
func (c *Client) FetchContributors(ctx context.Context, fullName string) ([]Contributor, error) {
	endpoint := fmt.Sprintf("/repos/%s/contributors?per_page=%d", escapeFullName(fullName), perPage)

	var contributors []Contributor
	if err := c.get(ctx, endpoint, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// FetchBranchProtection fetches the protection status of a branch. Branches
// without protection return ErrResourceNotFound (wrapped), which is the
// common case for personal repositories.
func (c *Client) FetchBranchProtection(ctx context.Context, fullName, branch string) (*BranchProtection, error) {
	endpoint := fmt.Sprintf("/repos/%s/branches/%s/protection", escapeFullName(fullName), url.PathEscape(branch))

	var protection BranchProtection
	if err := c.get(ctx, endpoint, &protection); err != nil {
		return nil, err
	}
	return &protection, nil
}

// FetchCommunityProfile fetches a repository's community profile. Absence
// returns ErrResourceNotFound (wrapped).
func (c *Client) FetchCommunityProfile(ctx context.Context, fullName string) (*CommunityProfile, error) {
	endpoint := fmt.Sprintf("/repos/%s/community/profile", escapeFullName(fullName))

	var profile CommunityProfile
	if err := c.get(ctx, endpoint, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// escapeFullName escapes an "owner/repo" pair, preserving the separator.
func escapeFullName(fullName string) string {
	owner, repo, found := strings.Cut(fullName, "/")
	if !found {
		return url.PathEscape(fullName)
	}
	return url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// escapePath escapes a repository-relative path, preserving separators.
func escapePath(path string) string {
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
