package gitcred

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/unmask-dev/gitcred/pkg/github"
)

// analyzeRepositoryContent runs the full content analysis for one
// repository: README, package manifest, CI workflows, code structure, and
// the composed quality score. The root listing is fetched once and shared
// between README detection and structure analysis. Missing optional files
// resolve to absent, never errors.
func (a *Analyzer) analyzeRepositoryContent(ctx context.Context, client *github.Client, repo Repository, now time.Time) RepositoryContent {
	a.logger.Debug("analyzing repository content", "repo", repo.Name)

	rootEntries := a.fetchDirectory(ctx, client, repo, "")

	readmeContent := ""
	for _, entry := range rootEntries {
		if entry.Type == "file" && readmeFilePattern.MatchString(entry.Name) {
			readmeContent = a.fetchOptionalFile(ctx, client, repo, entry.Name)
			break
		}
	}
	readme := analyzeReadme(readmeContent)

	var pkg *PackageAnalysis
	for _, entry := range rootEntries {
		if entry.Type == "file" && entry.Name == "package.json" {
			if content := a.fetchOptionalFile(ctx, client, repo, "package.json"); content != "" {
				parsed, err := analyzePackageJSON(content)
				if err != nil {
					a.logger.Warn("failed to parse package.json", "repo", repo.Name, "error", err)
				} else {
					pkg = parsed
				}
			}
			break
		}
	}

	workflows := a.analyzeWorkflows(ctx, client, repo)
	structure := analyzeCodeStructure(rootEntries)
	quality := scoreRepository(readme, pkg, workflows, structure, repo, now)

	return RepositoryContent{
		RepoName:      repo.Name,
		Readme:        readme,
		Package:       pkg,
		Workflows:     workflows,
		CodeStructure: structure,
		Quality:       quality,
	}
}

// analyzeWorkflows lists .github/workflows and classifies each YAML file.
// A missing directory is the normal case and yields an empty result.
func (a *Analyzer) analyzeWorkflows(ctx context.Context, client *github.Client, repo Repository) []WorkflowAnalysis {
	entries := a.fetchDirectory(ctx, client, repo, ".github/workflows")

	var workflows []WorkflowAnalysis
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		if !strings.HasSuffix(entry.Name, ".yml") && !strings.HasSuffix(entry.Name, ".yaml") {
			continue
		}
		content := a.fetchOptionalFile(ctx, client, repo, ".github/workflows/"+entry.Name)
		if content == "" {
			continue
		}
		workflows = append(workflows, analyzeWorkflow(entry.Name, content))
	}
	return workflows
}

// fetchDirectory lists a repository directory, treating absence as empty.
func (a *Analyzer) fetchDirectory(ctx context.Context, client *github.Client, repo Repository, path string) []github.ContentEntry {
	entries, err := client.FetchDirectory(ctx, repo.FullName, path)
	if err != nil {
		if !errors.Is(err, github.ErrResourceNotFound) {
			a.logger.Warn("unexpected error listing directory", "repo", repo.Name, "path", path, "error", err)
		}
		return nil
	}
	return entries
}

// fetchOptionalFile fetches a file's content, treating absence as empty.
func (a *Analyzer) fetchOptionalFile(ctx context.Context, client *github.Client, repo Repository, path string) string {
	content, err := client.FetchFileContent(ctx, repo.FullName, path)
	if err != nil {
		if !errors.Is(err, github.ErrResourceNotFound) {
			a.logger.Warn("unexpected error fetching file", "repo", repo.Name, "path", path, "error", err)
		}
		return ""
	}
	return content
}
