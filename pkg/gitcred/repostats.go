package gitcred

import (
	"context"
	"errors"
	"strings"

	"github.com/unmask-dev/gitcred/pkg/github"
)

const repoStatsSampleSize = 5

// repositoryStats samples the first repoStatsSampleSize non-fork repositories
// (in the caller-supplied order, most recently updated first) and aggregates
// issue and pull request counts across the sample. The totals are a
// sample-based estimate, not whole-account counts. Per-repository failures
// are logged and skipped.
func (a *Analyzer) repositoryStats(ctx context.Context, client *github.Client, repos []Repository) (IssueMetrics, PullRequestMetrics) {
	var issues IssueMetrics
	var prs PullRequestMetrics

	for _, repo := range sampleNonForks(repos, repoStatsSampleSize) {
		items, err := client.FetchRepoIssues(ctx, repo.FullName)
		if err != nil {
			a.logger.Warn("failed to analyze repository issues", "repo", repo.Name, "error", err)
			continue
		}

		for _, item := range items {
			if item.IsPullRequest() {
				switch item.State {
				case "open":
					prs.TotalOpen++
				case "closed":
					// The issues endpoint does not expose merge status, so
					// a closed PR counts as merged.
					prs.TotalMerged++
				}
			} else {
				switch item.State {
				case "open":
					issues.TotalOpen++
				case "closed":
					issues.TotalClosed++
				}
			}
			if len(item.Labels) > 0 {
				issues.HasLabels = true
			}
		}

		if a.hasTemplates(ctx, client, repo) {
			issues.HasTemplates = true
			prs.HasTemplates = true
		}
		if a.requiresReviews(ctx, client, repo) {
			prs.RequiresReviews = true
		}
	}

	if prs.TotalMerged > 0 {
		prs.MaintainerMergeRate = roundHalfUp(float64(prs.TotalMerged) / float64(prs.TotalMerged+prs.TotalOpen) * 100)
	}
	return issues, prs
}

// hasTemplates checks the .github directory for issue or PR template files.
// A missing directory is the normal case and resolves to false silently.
func (a *Analyzer) hasTemplates(ctx context.Context, client *github.Client, repo Repository) bool {
	entries, err := client.FetchDirectory(ctx, repo.FullName, ".github")
	if err != nil {
		if !errors.Is(err, github.ErrResourceNotFound) {
			a.logger.Warn("unexpected error checking templates", "repo", repo.Name, "error", err)
		}
		return false
	}
	for _, entry := range entries {
		name := entry.Name
		if strings.Contains(strings.ToLower(name), "template") ||
			name == "PULL_REQUEST_TEMPLATE.md" || name == "ISSUE_TEMPLATE.md" {
			return true
		}
	}
	return false
}

// requiresReviews checks whether the default branch's protection rules
// require pull request reviews. Unprotected branches resolve to false.
func (a *Analyzer) requiresReviews(ctx context.Context, client *github.Client, repo Repository) bool {
	protection, err := client.FetchBranchProtection(ctx, repo.FullName, repo.DefaultBranch)
	if err != nil {
		if !errors.Is(err, github.ErrResourceNotFound) {
			a.logger.Warn("unexpected error checking branch protection", "repo", repo.Name, "error", err)
		}
		return false
	}
	return protection.RequiredPullRequestReviews != nil
}

// sampleNonForks returns the first max non-fork repositories in input order.
func sampleNonForks(repos []Repository, max int) []Repository {
	var sample []Repository
	for _, repo := range repos {
		if repo.IsFork {
			continue
		}
		sample = append(sample, repo)
		if len(sample) == max {
			break
		}
	}
	return sample
}
