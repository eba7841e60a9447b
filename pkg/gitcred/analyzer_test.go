package gitcred

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/unmask-dev/gitcred/pkg/github"
)

func TestRetryableHTTPDoRetriesServerErrors(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/users/flaky", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"login":"flaky"}`)
	})

	analyzer := newTestAnalyzer(t, mux)

	user, err := analyzer.github.FetchUser(context.Background(), "flaky")
	if err != nil {
		t.Fatalf("FetchUser() error = %v, want success after retries", err)
	}
	if user.Login != "flaky" {
		t.Errorf("Login = %q, want flaky", user.Login)
	}
	if calls != 3 {
		t.Errorf("upstream calls = %d, want 3 (two 500s then success)", calls)
	}
}

func TestRetryableHTTPDoDoesNotRetryForbidden(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/users/limited", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	analyzer := newTestAnalyzer(t, mux)

	_, err := analyzer.github.FetchUser(context.Background(), "limited")
	if !errors.Is(err, github.ErrRateLimited) {
		t.Fatalf("FetchUser() error = %v, want ErrRateLimited", err)
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (403 is not retried)", calls)
	}
}
