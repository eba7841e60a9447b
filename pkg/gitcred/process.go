package gitcred

import (
	"context"
	"fmt"
	"time"

	"github.com/unmask-dev/gitcred/pkg/github"
)

// ProcessAccount analyzes a GitHub account and returns its full profile.
// Only identity resolution, the user lookup, and repository listing are
// fatal; every downstream analysis degrades to empty or default values on
// failure so the returned profile is always structurally complete.
func (a *Analyzer) ProcessAccount(ctx context.Context, input string, opts Options) (*Profile, error) {
	opts = opts.normalized()
	start := time.Now()

	usage := github.NewUsage()
	client := a.github.WithUsage(usage)

	username, err := ResolveUsername(input)
	if err != nil {
		return nil, err
	}
	a.logger.Info("processing github account", "username", username,
		"max_repos", opts.MaxRepos, "analyze_content", opts.AnalyzeContent)

	user, err := client.FetchUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}

	rawRepos, err := client.FetchRepositories(ctx, username, opts.MaxRepos)
	if err != nil {
		return nil, err
	}
	repos := make([]Repository, 0, len(rawRepos))
	for _, raw := range rawRepos {
		repos = append(repos, normalizeRepo(raw))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("account processing canceled: %w", err)
	}

	now := time.Now()

	var events []github.Event
	var activity *ActivityAnalysis
	if !opts.SkipActivity {
		events, err = client.FetchEvents(ctx, username, opts.MaxEvents)
		if err != nil {
			a.logger.Warn("failed to fetch events", "username", username, "error", err)
			events = nil
		}

		issues, prs := a.repositoryStats(ctx, client, repos)
		activity = &ActivityAnalysis{
			CommitFrequency:    commitFrequency(events, now),
			IssueMetrics:       issues,
			PullRequestMetrics: prs,
			Collaboration:      a.collaborationSignals(ctx, client, username, repos, events),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("account processing canceled: %w", err)
	}

	var contents []RepositoryContent
	if opts.AnalyzeContent && len(repos) > 0 {
		for _, repo := range sampleNonForks(repos, opts.MaxContentAnalysis) {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("account processing canceled: %w", err)
			}
			contents = append(contents, a.analyzeRepositoryContent(ctx, client, repo, now))
		}
		a.logger.Info("content analysis complete", "username", username, "repos_analyzed", len(contents))
	}

	languages := languageStats(repos)

	var organizations []Organization
	if !opts.SkipOrganizations {
		organizations = a.fetchOrganizations(ctx, client, username)
	}

	starredRepos, forkedRepos := 0, 0
	for _, repo := range repos {
		starredRepos += repo.Stars
		if repo.IsFork {
			forkedRepos++
		}
	}

	profile := &Profile{
		Username:         user.Login,
		Name:             user.Name,
		Bio:              user.Bio,
		Location:         user.Location,
		Email:            user.Email,
		Blog:             user.Blog,
		Company:          user.Company,
		ProfileURL:       user.HTMLURL,
		AvatarURL:        user.AvatarURL,
		Followers:        user.Followers,
		Following:        user.Following,
		PublicRepos:      user.PublicRepos,
		PublicGists:      user.PublicGists,
		AccountCreatedAt: user.CreatedAt,
		LastActivityAt:   user.UpdatedAt,
		Repositories:     repos,
		Content:          contents,
		Languages:        languages,
		Contributions:    contributionStats(repos, languages, events, now),
		Activity:         activity,
		StarredRepos:     starredRepos,
		ForkedRepos:      forkedRepos,
		Organizations:    organizations,
		OverallQuality:   averageQuality(contents),
		Meta: Provenance{
			ProcessedAt:          now.UTC(),
			Options:              opts,
			RepositoriesAnalyzed: len(contents),
			EventsAnalyzed:       len(events),
			APIUsage:             usage.Snapshot(),
		},
	}
	if profile.Username == "" {
		profile.Username = username
	}
	if profile.ProfileURL == "" {
		profile.ProfileURL = "https://github.com/" + username
	}

	snapshot := usage.Snapshot()
	a.logger.Info("github account processed",
		"username", username,
		"duration", time.Since(start).Round(time.Millisecond),
		"api_calls", snapshot.TotalCalls,
		"calls_by_category", snapshot.CallsByCategory,
		"rate_remaining", snapshot.RateRemaining)

	return profile, nil
}

// normalizeRepo maps a wire repository onto the normalized shape. Missing
// optional fields default to zero values; an absent default branch falls
// back to "main".
func normalizeRepo(raw github.Repo) Repository {
	repo := Repository{
		Name:          raw.Name,
		FullName:      raw.FullName,
		Description:   raw.Description,
		Language:      raw.Language,
		Stars:         raw.Stargazers,
		Forks:         raw.Forks,
		Watchers:      raw.Watchers,
		SizeKB:        raw.Size,
		IsPrivate:     raw.Private,
		IsFork:        raw.Fork,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
		Topics:        raw.Topics,
		URL:           raw.HTMLURL,
		CloneURL:      raw.CloneURL,
		HasIssues:     raw.HasIssues,
		HasProjects:   raw.HasProjects,
		HasWiki:       raw.HasWiki,
		HasPages:      raw.HasPages,
		OpenIssues:    raw.OpenIssues,
		DefaultBranch: raw.DefaultBranch,
	}
	if raw.License != nil {
		repo.License = raw.License.Name
	}
	if repo.Topics == nil {
		repo.Topics = []string{}
	}
	if repo.DefaultBranch == "" {
		repo.DefaultBranch = "main"
	}
	return repo
}

// fetchOrganizations lists the account's organizations and enriches each
// with its detailed record. A failed detail fetch falls back to the minimal
// list entry instead of dropping the organization.
func (a *Analyzer) fetchOrganizations(ctx context.Context, client *github.Client, username string) []Organization {
	orgs, err := client.FetchOrganizations(ctx, username)
	if err != nil {
		a.logger.Warn("failed to fetch organizations", "username", username, "error", err)
		return nil
	}

	organizations := make([]Organization, 0, len(orgs))
	for _, org := range orgs {
		detail, err := client.FetchOrganizationDetail(ctx, org.Login)
		if err != nil {
			a.logger.Warn("failed to fetch organization detail", "org", org.Login, "error", err)
			organizations = append(organizations, Organization{
				Login:     org.Login,
				Name:      org.Login,
				URL:       "https://github.com/" + org.Login,
				AvatarURL: org.AvatarURL,
			})
			continue
		}

		name := detail.Name
		if name == "" {
			name = detail.Login
		}
		organizations = append(organizations, Organization{
			Login:       detail.Login,
			Name:        name,
			Description: detail.Description,
			URL:         detail.HTMLURL,
			AvatarURL:   detail.AvatarURL,
			PublicRepos: detail.PublicRepos,
			Location:    detail.Location,
			Blog:        detail.Blog,
			Email:       detail.Email,
			CreatedAt:   detail.CreatedAt,
		})
	}
	return organizations
}
