// Package main implements the gitcred CLI tool for GitHub account analysis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/unmask-dev/gitcred/pkg/gitcred"
)

var (
	githubToken    = flag.String("github-token", "", "GitHub token for API access (or set GITHUB_TOKEN)")
	cacheDir       = flag.String("cache-dir", "", "Cache directory (or set CACHE_DIR)")
	noCache        = flag.Bool("no-cache", false, "Disable caching")
	maxRepos       = flag.Int("max-repos", 100, "Maximum repositories to fetch")
	skipOrgs       = flag.Bool("skip-orgs", false, "Skip organization lookup")
	skipActivity   = flag.Bool("skip-activity", false, "Skip activity analysis")
	analyzeContent = flag.Bool("content", false, "Analyze repository content (README, workflows, manifests)")
	maxContent     = flag.Int("max-content", 10, "Maximum repositories to content-analyze")
	jsonOutput     = flag.Bool("json", false, "Print the full profile as JSON")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	version        = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("gitcred CLI v1.2.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <github-username-or-url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	input := args[0]

	// A local .env is convenient for development; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *githubToken == "" {
		*githubToken = os.Getenv("GITHUB_TOKEN")
		// If still empty, try to get from gh CLI
		if *githubToken == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if token, err := exec.CommandContext(ctx, "gh", "auth", "token").Output(); err == nil {
				*githubToken = strings.TrimSpace(string(token))
			}
		}
	}
	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	analyzerOpts := []gitcred.Option{
		gitcred.WithGitHubToken(*githubToken),
	}
	if *noCache {
		analyzerOpts = append(analyzerOpts, gitcred.WithNoCache())
	} else if *cacheDir != "" {
		analyzerOpts = append(analyzerOpts, gitcred.WithCacheDir(*cacheDir))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	analyzer := gitcred.NewWithLogger(ctx, logger, analyzerOpts...)
	defer func() {
		if err := analyzer.Close(); err != nil {
			logger.Error("failed to close analyzer", "error", err)
		}
	}()

	profile, err := analyzer.ProcessAccount(ctx, input, gitcred.Options{
		MaxRepos:           *maxRepos,
		SkipOrganizations:  *skipOrgs,
		SkipActivity:       *skipActivity,
		AnalyzeContent:     *analyzeContent,
		MaxContentAnalysis: *maxContent,
	})
	if err != nil {
		cancel()
		logger.Error("account analysis failed", "error", err)
		fmt.Fprintf(os.Stderr, "could not analyze this GitHub account: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(profile); err != nil {
			logger.Error("failed to encode profile", "error", err)
			os.Exit(1)
		}
		return
	}

	printProfile(profile)
}

func printProfile(profile *gitcred.Profile) {
	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgHiBlack)
	value := color.New(color.FgWhite)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	header.Printf("\n%s", profile.Username)
	if profile.Name != "" {
		fmt.Printf(" (%s)", profile.Name)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("─", 50))

	if profile.Bio != "" {
		fmt.Printf("  %s\n", profile.Bio)
	}
	if profile.Location != "" {
		label.Print("  location: ")
		value.Println(profile.Location)
	}
	if profile.Company != "" {
		label.Print("  company:  ")
		value.Println(profile.Company)
	}
	label.Print("  joined:   ")
	value.Println(profile.AccountCreatedAt.Format("Jan 2006"))

	fmt.Println()
	label.Print("  followers: ")
	fmt.Printf("%d", profile.Followers)
	label.Print("   public repos: ")
	fmt.Printf("%d", profile.PublicRepos)
	label.Print("   stars earned: ")
	fmt.Printf("%d", profile.StarredRepos)
	label.Print("   forks: ")
	fmt.Printf("%d\n", profile.ForkedRepos)

	if len(profile.Languages) > 0 {
		header.Println("\nLanguages")
		limit := min(5, len(profile.Languages))
		for _, lang := range profile.Languages[:limit] {
			fmt.Printf("  %-14s %5.1f%%\n", lang.Language, lang.Percentage)
		}
	}

	stats := profile.Contributions
	header.Println("\nRecent Activity")
	fmt.Printf("  commits: %d   pull requests: %d   issues: %d\n",
		stats.TotalCommits, stats.TotalPullRequests, stats.TotalIssues)
	if stats.StreakDays > 0 {
		fmt.Printf("  streak: %d days\n", stats.StreakDays)
	}
	if stats.MostActiveDay != "" {
		fmt.Printf("  most active day: %s\n", stats.MostActiveDay)
	}

	if profile.Activity != nil {
		freq := profile.Activity.CommitFrequency
		fmt.Printf("  commits last week/month/year: %d / %d / %d\n",
			freq.LastWeek, freq.LastMonth, freq.LastYear)
		fmt.Print("  commit message quality: ")
		scoreColor(freq.MessageQuality, good, warn, bad).Printf("%d/100\n", freq.MessageQuality)
		fmt.Print("  community engagement:   ")
		engagement := profile.Activity.Collaboration.CommunityEngagement
		scoreColor(engagement, good, warn, bad).Printf("%d/100\n", engagement)
	}

	if profile.OverallQuality != nil {
		q := profile.OverallQuality
		header.Println("\nRepository Quality")
		fmt.Print("  overall: ")
		scoreColor(q.Overall, good, warn, bad).Printf("%d/100\n", q.Overall)
		fmt.Printf("  readme: %d   organization: %d   ci/cd: %d\n", q.Readme, q.CodeOrganization, q.CICD)
		fmt.Printf("  docs: %d   maintenance: %d   community: %d\n", q.Documentation, q.Maintenance, q.Community)
	}

	if len(profile.Organizations) > 0 {
		header.Println("\nOrganizations")
		for _, org := range profile.Organizations {
			fmt.Printf("  %s", org.Login)
			if org.Name != "" && org.Name != org.Login {
				label.Printf(" (%s)", org.Name)
			}
			fmt.Println()
		}
	}

	usage := profile.Meta.APIUsage
	label.Printf("\n%d API calls", usage.TotalCalls)
	if usage.CachedCalls > 0 {
		label.Printf(", %d served from cache", usage.CachedCalls)
	}
	if usage.RateRemaining >= 0 {
		label.Printf(", %d rate limit remaining", usage.RateRemaining)
	}
	fmt.Println()
}

func scoreColor(score int, good, warn, bad *color.Color) *color.Color {
	switch {
	case score >= 70:
		return good
	case score >= 40:
		return warn
	default:
		return bad
	}
}
