package gitcred

import (
	"regexp"
	"time"

	"github.com/unmask-dev/gitcred/pkg/github"
)

var conventionalCommitPattern = regexp.MustCompile(
	`^(feat|fix|docs|style|refactor|test|chore|build|ci|perf|revert)(\(.+\))?: .+`)

// commitFrequency derives commit counts within rolling windows ending at now
// and a commit message quality score from the push events in the stream.
func commitFrequency(events []github.Event, now time.Time) CommitFrequency {
	oneWeekAgo := now.Add(-7 * 24 * time.Hour)
	oneMonthAgo := now.Add(-30 * 24 * time.Hour)
	oneYearAgo := now.Add(-365 * 24 * time.Hour)

	var lastWeek, lastMonth, lastYear int
	var messages []string

	for _, event := range events {
		if event.Type != "PushEvent" {
			continue
		}
		commits := len(event.Payload.Commits)
		if event.CreatedAt.After(oneWeekAgo) {
			lastWeek += commits
		}
		if event.CreatedAt.After(oneMonthAgo) {
			lastMonth += commits
		}
		if event.CreatedAt.After(oneYearAgo) {
			lastYear += commits
		}
		for _, commit := range event.Payload.Commits {
			if commit.Message != "" {
				messages = append(messages, commit.Message)
			}
		}
	}

	// Neutral score when there is nothing to judge.
	quality := 50
	conventional := false

	if len(messages) > 0 {
		conventionalCount := 0
		totalLength := 0
		descriptive := 0
		for _, msg := range messages {
			if conventionalCommitPattern.MatchString(msg) {
				conventionalCount++
			}
			totalLength += len(msg)
			if len(msg) > 20 {
				descriptive++
			}
		}
		conventional = float64(conventionalCount)/float64(len(messages)) > 0.5

		avgLength := float64(totalLength) / float64(len(messages))
		lengthPoints := avgLength / 20 * 30
		if avgLength > 20 {
			lengthPoints = 30
		}
		descriptivePoints := float64(descriptive) / float64(len(messages)) * 40
		conventionalPoints := 0.0
		if conventional {
			conventionalPoints = 30
		}
		quality = clamp(roundHalfUp(lengthPoints + descriptivePoints + conventionalPoints))
	}

	return CommitFrequency{
		LastWeek:            lastWeek,
		LastMonth:           lastMonth,
		LastYear:            lastYear,
		AveragePerWeek:      roundHalfUp(float64(lastYear) / 52),
		MessageQuality:      quality,
		ConventionalCommits: conventional,
	}
}

// weekdays in a fixed order so ties in activity counts resolve the same way
// on every run.
var weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// contributionStats summarizes the event stream into aggregate counters.
// All counts cover the fetched event window, not full account history.
func contributionStats(repos []Repository, languages []LanguageStat, events []github.Event, now time.Time) ContributionStats {
	stats := ContributionStats{
		TotalRepositories: len(repos),
	}
	if len(languages) > 0 {
		stats.MostUsedLanguage = languages[0].Language
	}
	if len(events) == 0 {
		return stats
	}

	oneYearAgo := now.AddDate(-1, 0, 0)
	activeByDay := make(map[time.Weekday]int)
	contributionDays := make(map[string]bool)

	for _, event := range events {
		switch event.Type {
		case "PushEvent":
			stats.TotalCommits += len(event.Payload.Commits)
		case "PullRequestEvent":
			stats.TotalPullRequests++
		case "IssuesEvent":
			stats.TotalIssues++
		}
		if event.CreatedAt.After(oneYearAgo) {
			stats.ContributionsLastYear++
		}
		activeByDay[event.CreatedAt.Weekday()]++
		contributionDays[event.CreatedAt.Format("2006-01-02")] = true
	}

	best := 0
	for _, day := range weekdays {
		if activeByDay[day] > best {
			best = activeByDay[day]
			stats.MostActiveDay = day.String()
		}
	}

	stats.StreakDays = currentStreak(contributionDays, now)
	return stats
}

// currentStreak counts consecutive active days ending today. A streak whose
// latest activity was yesterday still counts as one day, giving a one-day
// grace period before it resets.
func currentStreak(days map[string]bool, now time.Time) int {
	if days[now.Format("2006-01-02")] {
		streak := 1
		for i := 1; ; i++ {
			if !days[now.AddDate(0, 0, -i).Format("2006-01-02")] {
				break
			}
			streak++
		}
		return streak
	}
	if days[now.AddDate(0, 0, -1).Format("2006-01-02")] {
		return 1
	}
	return 0
}
