package gitcred

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/unmask-dev/gitcred/pkg/github"
)

const collaborationSampleSize = 3

// collaborationSignals measures how much the account works with others:
// distinct outside contributors on the account's starred repositories,
// contributions to repositories the account does not own, the fork/star
// ratio, and community file presence.
func (a *Analyzer) collaborationSignals(ctx context.Context, client *github.Client, username string, repos []Repository, events []github.Event) CollaborationSignals {
	signals := CollaborationSignals{}

	for _, event := range events {
		switch event.Type {
		case "PullRequestEvent", "IssuesEvent", "PullRequestReviewEvent":
		default:
			continue
		}
		owner, _, found := strings.Cut(event.Repo.Name, "/")
		if found && owner != username {
			signals.OutsideContributions++
		}
	}

	contributors := make(map[string]bool)
	for _, repo := range starredNonForks(repos, collaborationSampleSize) {
		list, err := client.FetchContributors(ctx, repo.FullName)
		if err != nil {
			a.logger.Warn("failed to analyze contributors", "repo", repo.Name, "error", err)
		} else {
			for _, contributor := range list {
				if contributor.Login != username {
					contributors[contributor.Login] = true
				}
			}
		}

		profile, err := client.FetchCommunityProfile(ctx, repo.FullName)
		if err != nil {
			if !errors.Is(err, github.ErrResourceNotFound) {
				a.logger.Warn("unexpected error checking community profile", "repo", repo.Name, "error", err)
			}
			continue
		}
		if profile.Files.CodeOfConduct != nil {
			signals.HasCodeOfConduct = true
		}
		if profile.Files.Contributing != nil {
			signals.HasContributingGuide = true
		}
		if profile.Files.Security != nil {
			signals.HasSecurityPolicy = true
		}
	}

	signals.UniqueContributors = len(contributors)
	signals.CoreTeamSize = min(5, signals.UniqueContributors)

	totalStars, totalForks := 0, 0
	for _, repo := range repos {
		totalStars += repo.Stars
		totalForks += repo.Forks
	}
	ratio := 0.0
	if totalStars > 0 {
		ratio = float64(totalForks) / float64(totalStars)
	}
	signals.ForkToStarRatio = math.Round(ratio*100) / 100

	factors := []float64{
		capRatio(float64(signals.OutsideContributions), 10),
		capRatio(float64(signals.UniqueContributors), 5),
		capRatio(ratio, 0.1),
		boolFactor(signals.HasCodeOfConduct),
		boolFactor(signals.HasContributingGuide),
	}
	sum := 0.0
	for _, f := range factors {
		sum += f
	}
	signals.CommunityEngagement = roundHalfUp(sum / float64(len(factors)) * 100)

	return signals
}

// starredNonForks returns the first max non-fork repositories with at least
// one star, in input order.
func starredNonForks(repos []Repository, max int) []Repository {
	var sample []Repository
	for _, repo := range repos {
		if repo.IsFork || repo.Stars == 0 {
			continue
		}
		sample = append(sample, repo)
		if len(sample) == max {
			break
		}
	}
	return sample
}

// capRatio normalizes value/limit into [0,1].
func capRatio(value, limit float64) float64 {
	if value > limit {
		return 1
	}
	return value / limit
}

func boolFactor(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
