package gitcred

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestAnalyzer(t *testing.T, handler http.Handler) *Analyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := NewWithLogger(context.Background(), logger,
		WithNoCache(),
		WithAPIBaseURL(server.URL),
	)
	t.Cleanup(func() {
		if err := analyzer.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return analyzer
}

func TestProcessAccountEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","public_repos":3}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"forked","full_name":"octocat/forked","fork":true,"language":"Go","size":2000},
			{"name":"ts-app","full_name":"octocat/ts-app","stargazers_count":5,"language":"TypeScript","size":1000},
			{"name":"py-tool","full_name":"octocat/py-tool","stargazers_count":0,"language":"Python","size":500}
		]`)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "octocat", Options{
		SkipOrganizations: true,
		SkipActivity:      true,
	})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	if profile.Username != "octocat" {
		t.Errorf("Username = %q, want octocat", profile.Username)
	}
	if len(profile.Repositories) != 3 {
		t.Fatalf("got %d repositories, want 3", len(profile.Repositories))
	}

	// Forks count toward language stats; fork exclusion applies to content
	// and stats sampling only.
	if len(profile.Languages) != 3 {
		t.Fatalf("got %d languages, want 3", len(profile.Languages))
	}
	if profile.Languages[0].Language != "Go" {
		t.Errorf("top language = %q, want Go", profile.Languages[0].Language)
	}

	if profile.ForkedRepos != 1 {
		t.Errorf("ForkedRepos = %d, want 1", profile.ForkedRepos)
	}
	if profile.StarredRepos != 5 {
		t.Errorf("StarredRepos = %d, want 5", profile.StarredRepos)
	}
	if profile.Activity != nil {
		t.Error("Activity should be nil when activity analysis is disabled")
	}
	if profile.Content != nil {
		t.Error("Content should be nil when content analysis is disabled")
	}
	if profile.OverallQuality != nil {
		t.Error("OverallQuality should be nil without content analysis")
	}

	if profile.Meta.APIUsage.TotalCalls != 2 {
		t.Errorf("TotalCalls = %d, want 2 (user + repos)", profile.Meta.APIUsage.TotalCalls)
	}
}

func TestProcessAccountLanguagePercentages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"forked","full_name":"octocat/forked","fork":true},
			{"name":"ts-app","full_name":"octocat/ts-app","stargazers_count":5,"language":"TypeScript","size":1000},
			{"name":"py-tool","full_name":"octocat/py-tool","language":"Python","size":500}
		]`)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "https://github.com/octocat", Options{
		SkipOrganizations: true,
		SkipActivity:      true,
	})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	if len(profile.Languages) != 2 {
		t.Fatalf("got %d languages, want 2 (fork has no size)", len(profile.Languages))
	}
	if profile.Languages[0].Language != "TypeScript" || math.Abs(profile.Languages[0].Percentage-66.666) > 0.01 {
		t.Errorf("languages[0] = %+v, want TypeScript ~66.67%%", profile.Languages[0])
	}
	if profile.Languages[1].Language != "Python" || math.Abs(profile.Languages[1].Percentage-33.333) > 0.01 {
		t.Errorf("languages[1] = %+v, want Python ~33.33%%", profile.Languages[1])
	}
}

func TestProcessAccountZeroOptionsRunFullScope(t *testing.T) {
	orgsFetched := false
	eventsFetched := false

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat/events", func(w http.ResponseWriter, _ *http.Request) {
		eventsFetched = true
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat/orgs", func(w http.ResponseWriter, _ *http.Request) {
		orgsFetched = true
		fmt.Fprint(w, `[]`)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "octocat", Options{})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	// Zero-value options mean the default scope: activity and organizations
	// are analyzed unless explicitly skipped.
	if profile.Activity == nil {
		t.Error("Activity = nil, want populated for zero-value options")
	}
	if !eventsFetched {
		t.Error("events endpoint never called for zero-value options")
	}
	if !orgsFetched {
		t.Error("orgs endpoint never called for zero-value options")
	}
	if profile.Content != nil {
		t.Error("Content should stay nil without AnalyzeContent")
	}
}

func TestProcessAccountUserNotFound(t *testing.T) {
	analyzer := newTestAnalyzer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := analyzer.ProcessAccount(context.Background(), "ghost", Options{})
	if err == nil {
		t.Fatal("ProcessAccount(ghost) should fail")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q should identify the missing user", err)
	}
}

func TestProcessAccountInvalidIdentity(t *testing.T) {
	analyzer := newTestAnalyzer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no API call expected for invalid identity")
	}))

	_, err := analyzer.ProcessAccount(context.Background(), "", Options{})
	if !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("error = %v, want ErrInvalidIdentity", err)
	}
}

func TestProcessAccountContentSampleCap(t *testing.T) {
	repoJSON := func(i int, fork bool) string {
		return fmt.Sprintf(`{"name":"repo-%d","full_name":"octocat/repo-%d","fork":%t,"language":"Go","size":100}`, i, i, fork)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		repos := []string{repoJSON(1, true)}
		for i := 2; i <= 6; i++ {
			repos = append(repos, repoJSON(i, false))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(repos, ","))
	})
	// All contents lookups 404: optional artifacts are simply absent.
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "octocat", Options{
		SkipOrganizations:  true,
		SkipActivity:       true,
		AnalyzeContent:     true,
		MaxContentAnalysis: 2,
	})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	if len(profile.Content) != 2 {
		t.Fatalf("got %d content entries, want 2 (cap respected)", len(profile.Content))
	}
	// The fork is skipped; the first two non-forks are analyzed in order.
	if profile.Content[0].RepoName != "repo-2" || profile.Content[1].RepoName != "repo-3" {
		t.Errorf("analyzed [%s, %s], want [repo-2, repo-3]",
			profile.Content[0].RepoName, profile.Content[1].RepoName)
	}

	// Missing workflows directory degrades to empty, never an error.
	for _, content := range profile.Content {
		if len(content.Workflows) != 0 {
			t.Errorf("Workflows = %v, want empty for absent directory", content.Workflows)
		}
		if content.Readme.Exists {
			t.Error("Readme.Exists = true with no README served")
		}
	}

	if profile.OverallQuality == nil {
		t.Fatal("OverallQuality should be set after content analysis")
	}
	checkScoreBounds(t, *profile.OverallQuality)
}

func TestProcessAccountActivityDegradesGracefully(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"name":"solo","full_name":"octocat/solo","stargazers_count":3,"language":"Go","size":100,"default_branch":"main"}]`)
	})
	mux.HandleFunc("/users/octocat/events", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"type":"PushEvent","created_at":"2026-08-30T10:00:00Z","repo":{"name":"octocat/solo"},
			 "payload":{"commits":[{"message":"feat: add streaming support to the profile pipeline"}]}},
			{"type":"PullRequestEvent","created_at":"2026-08-29T10:00:00Z","repo":{"name":"other/project"}}
		]`)
	})
	// Issues, contributors, protection, community all missing.
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "octocat", Options{
		SkipOrganizations: true,
	})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	if profile.Activity == nil {
		t.Fatal("Activity = nil, want populated")
	}
	if profile.Activity.Collaboration.OutsideContributions != 1 {
		t.Errorf("OutsideContributions = %d, want 1", profile.Activity.Collaboration.OutsideContributions)
	}
	if profile.Contributions.TotalCommits != 1 {
		t.Errorf("TotalCommits = %d, want 1", profile.Contributions.TotalCommits)
	}
	if profile.Meta.EventsAnalyzed != 2 {
		t.Errorf("EventsAnalyzed = %d, want 2", profile.Meta.EventsAnalyzed)
	}
}

func TestProcessAccountOrganizationFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"octocat"}`)
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/users/octocat/orgs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"login":"acme","avatar_url":"https://example.com/a.png"},{"login":"globex"}]`)
	})
	mux.HandleFunc("/orgs/acme", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login":"acme","name":"Acme Corp","public_repos":42,"html_url":"https://github.com/acme"}`)
	})
	// globex detail lookup fails; the org must fall back to list info.
	mux.HandleFunc("/orgs/globex", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	analyzer := newTestAnalyzer(t, mux)
	profile, err := analyzer.ProcessAccount(context.Background(), "octocat", Options{
		SkipActivity: true,
	})
	if err != nil {
		t.Fatalf("ProcessAccount() error = %v", err)
	}

	if len(profile.Organizations) != 2 {
		t.Fatalf("got %d organizations, want 2", len(profile.Organizations))
	}
	if profile.Organizations[0].Name != "Acme Corp" || profile.Organizations[0].PublicRepos != 42 {
		t.Errorf("organizations[0] = %+v, want detailed Acme Corp", profile.Organizations[0])
	}
	if profile.Organizations[1].Login != "globex" || profile.Organizations[1].Name != "globex" {
		t.Errorf("organizations[1] = %+v, want minimal globex fallback", profile.Organizations[1])
	}
}
