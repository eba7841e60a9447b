// Package main implements the gitcred web server exposing GitHub account
// analysis over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/unmask-dev/gitcred/pkg/gitcred"
)

var (
	port        = flag.String("port", "8080", "Port for web server (or set PORT)")
	githubToken = flag.String("github-token", "", "GitHub API token (or set GITHUB_TOKEN)")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Show version")
)

type rateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		requests: make(map[string][]time.Time),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	// Analysis runs take many GitHub calls each; keep this tight.
	if len(valid) >= 5 {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

type server struct {
	logger   *slog.Logger
	analyzer *gitcred.Analyzer
	limiter  *rateLimiter
}

type profileRequest struct {
	Input   string          `json:"input"`
	Options gitcred.Options `json:"options"`
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !s.limiter.allow(ip) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	// Analysis runs take seconds to tens of seconds depending on options.
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	start := time.Now()
	profile, err := s.analyzer.ProcessAccount(ctx, req.Input, req.Options)
	if err != nil {
		s.logger.Warn("account analysis failed", "input", req.Input, "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, gitcred.ErrInvalidIdentity) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("could not analyze account: %v", err), status)
		return
	}
	s.logger.Info("profile served",
		"username", profile.Username,
		"duration", time.Since(start).Round(time.Millisecond),
		"client_ip", ip)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		s.logger.Error("failed to encode profile", "error", err)
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Debug("failed to write health response", "error", err)
	}
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("gitcred Server v1.2.0")
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *githubToken == "" {
		*githubToken = os.Getenv("GITHUB_TOKEN")
	}
	if envPort := os.Getenv("PORT"); envPort != "" {
		*port = envPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := gitcred.NewWithLogger(ctx, logger,
		gitcred.WithGitHubToken(*githubToken),
		gitcred.WithMemoryCache(),
	)
	defer func() {
		if err := analyzer.Close(); err != nil {
			logger.Error("failed to close analyzer", "error", err)
		}
	}()

	srv := &server{
		logger:   logger,
		analyzer: analyzer,
		limiter:  newRateLimiter(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/profile", srv.handleProfile)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	httpServer := &http.Server{
		Addr:              ":" + *port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      4 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("starting gitcred server", "port", *port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
