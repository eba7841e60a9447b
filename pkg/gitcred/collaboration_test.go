package gitcred

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/unmask-dev/gitcred/pkg/github"
)

func repoEvent(eventType, repoName string) github.Event {
	var event github.Event
	event.Type = eventType
	event.Repo.Name = repoName
	return event
}

func TestCollaborationSignals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/lib/contributors", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"login":"alice","contributions":20},
			{"login":"bob","contributions":5},
			{"login":"carol","contributions":2},
			{"login":"octocat","contributions":100}
		]`)
	})
	mux.HandleFunc("/repos/octocat/lib/community/profile", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files":{"code_of_conduct":{"name":"Code of Conduct"},"contributing":null,"security":{"name":"Security Policy"}}}`)
	})

	analyzer := newTestAnalyzer(t, mux)
	repos := []Repository{
		{Name: "lib", FullName: "octocat/lib", Stars: 10, Forks: 1},
	}
	events := []github.Event{
		repoEvent("PullRequestEvent", "other/project"),
		repoEvent("IssuesEvent", "someone/tool"),
		repoEvent("PullRequestEvent", "octocat/lib"),
		repoEvent("PushEvent", "other/project"),
	}

	signals := analyzer.collaborationSignals(context.Background(), analyzer.github, "octocat", repos, events)

	// Only PR/issue/review events on repos the account does not own count.
	if signals.OutsideContributions != 2 {
		t.Errorf("OutsideContributions = %d, want 2", signals.OutsideContributions)
	}
	// The account itself never counts as a contributor.
	if signals.UniqueContributors != 3 {
		t.Errorf("UniqueContributors = %d, want 3", signals.UniqueContributors)
	}
	if signals.CoreTeamSize != 3 {
		t.Errorf("CoreTeamSize = %d, want 3", signals.CoreTeamSize)
	}
	if !signals.HasCodeOfConduct {
		t.Error("HasCodeOfConduct = false, want true")
	}
	if signals.HasContributingGuide {
		t.Error("HasContributingGuide = true, want false for null file")
	}
	if !signals.HasSecurityPolicy {
		t.Error("HasSecurityPolicy = false, want true")
	}
	if signals.ForkToStarRatio != 0.1 {
		t.Errorf("ForkToStarRatio = %v, want 0.1", signals.ForkToStarRatio)
	}

	// Five factors: outside 2/10, contributors 3/5, ratio 0.1/0.1 capped,
	// code of conduct 1, contributing guide 0. Mean 0.56 scales to 56.
	if signals.CommunityEngagement != 56 {
		t.Errorf("CommunityEngagement = %d, want 56", signals.CommunityEngagement)
	}
}

func TestCollaborationSignalsRatioRounding(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/tool/contributors", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	analyzer := newTestAnalyzer(t, mux)
	repos := []Repository{
		{Name: "tool", FullName: "octocat/tool", Stars: 3, Forks: 1},
	}

	signals := analyzer.collaborationSignals(context.Background(), analyzer.github, "octocat", repos, nil)

	// 1/3 rounds to two decimal places.
	if signals.ForkToStarRatio != 0.33 {
		t.Errorf("ForkToStarRatio = %v, want 0.33", signals.ForkToStarRatio)
	}
	// The unrounded ratio exceeds the 0.1 cap, so it contributes a full
	// factor; everything else is zero. Mean 0.2 scales to 20.
	if signals.CommunityEngagement != 20 {
		t.Errorf("CommunityEngagement = %d, want 20", signals.CommunityEngagement)
	}
}

func TestCollaborationSignalsNoStars(t *testing.T) {
	analyzer := newTestAnalyzer(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call %s with no starred repositories", r.URL.Path)
	}))
	repos := []Repository{
		{Name: "quiet", FullName: "octocat/quiet", Forks: 2},
		{Name: "mirror", FullName: "octocat/mirror", IsFork: true},
	}

	signals := analyzer.collaborationSignals(context.Background(), analyzer.github, "octocat", repos, nil)

	if signals.UniqueContributors != 0 || signals.CoreTeamSize != 0 {
		t.Errorf("contributors = %d, core team = %d, want 0/0",
			signals.UniqueContributors, signals.CoreTeamSize)
	}
	// Forks without stars produce a zero ratio, never a division by zero.
	if signals.ForkToStarRatio != 0 {
		t.Errorf("ForkToStarRatio = %v, want 0 with no stars", signals.ForkToStarRatio)
	}
	if signals.CommunityEngagement != 0 {
		t.Errorf("CommunityEngagement = %d, want 0", signals.CommunityEngagement)
	}
}

func TestCapRatio(t *testing.T) {
	tests := []struct {
		value, limit, want float64
	}{
		{0, 10, 0},
		{5, 10, 0.5},
		{15, 10, 1},
		{0.05, 0.1, 0.5},
		{0.1, 0.1, 1},
	}
	for _, tt := range tests {
		if got := capRatio(tt.value, tt.limit); got != tt.want {
			t.Errorf("capRatio(%v, %v) = %v, want %v", tt.value, tt.limit, got, tt.want)
		}
	}
}
