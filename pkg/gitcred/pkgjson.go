package gitcred

import (
	"encoding/json"
	"fmt"
	"strings"
)

// packageManifest mirrors the package.json fields the analysis cares about.
type packageManifest struct {
	License         any               `json:"license"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// frameworkRule maps a framework name to the dependency names that signal it.
// Rules are evaluated in order so detected-framework lists are deterministic.
type frameworkRule struct {
	name     string
	packages []string
}

var frameworkRules = []frameworkRule{
	{"react", []string{"react", "@types/react", "react-dom"}},
	{"vue", []string{"vue", "@vue/cli", "vue-router", "vuex"}},
	{"angular", []string{"@angular/core", "@angular/cli", "angular"}},
	{"express", []string{"express", "fastify", "koa"}},
	{"nestjs", []string{"@nestjs/core", "@nestjs/common"}},
	{"nextjs", []string{"next"}},
	{"nuxt", []string{"nuxt"}},
	{"svelte", []string{"svelte", "sveltekit"}},
	{"gatsby", []string{"gatsby"}},
	{"flutter", []string{"flutter"}},
	{"django", []string{"django"}},
	{"rails", []string{"rails"}},
}

var (
	lintingTools = []string{"eslint", "tslint", "jshint", "prettier", "stylelint"}
	testingTools = []string{"jest", "mocha", "jasmine", "karma", "cypress", "playwright", "vitest"}
	buildTools   = []string{"webpack", "rollup", "parcel", "vite", "esbuild"}
)

// analyzePackageJSON parses a package.json manifest and detects frameworks
// and tooling against fixed dependency-name tables.
func analyzePackageJSON(content string) (*PackageAnalysis, error) {
	var manifest packageManifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	allDeps := make(map[string]bool, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for dep := range manifest.Dependencies {
		allDeps[dep] = true
	}
	for dep := range manifest.DevDependencies {
		allDeps[dep] = true
	}

	var frameworks []string
	for _, rule := range frameworkRules {
		for _, pkg := range rule.packages {
			if allDeps[pkg] {
				frameworks = append(frameworks, rule.name)
				break
			}
		}
	}

	hasLinting := anyDep(allDeps, lintingTools) || anyScriptContains(manifest.Scripts, "lint")
	hasTesting := anyDep(allDeps, testingTools) || anyScriptContains(manifest.Scripts, "test")

	_, hasDocsScript := manifest.Scripts["docs"]

	return &PackageAnalysis{
		Exists:             true,
		HasScripts:         len(manifest.Scripts) > 0,
		ScriptCount:        len(manifest.Scripts),
		DependencyCount:    len(manifest.Dependencies),
		DevDependencyCount: len(manifest.DevDependencies),
		HasLinting:         hasLinting,
		HasTesting:         hasTesting,
		HasTypeScript:      allDeps["typescript"] || allDeps["@types/node"],
		HasDocumentation:   hasDocsScript || allDeps["typedoc"] || allDeps["jsdoc"],
		HasValidLicense:    manifest.License != nil && manifest.License != "",
		Frameworks:         frameworks,
		BuildTools:         matchingDeps(allDeps, buildTools),
		TestingFrameworks:  matchingDeps(allDeps, testingTools),
		LintingTools:       matchingDeps(allDeps, lintingTools),
	}, nil
}

func anyDep(deps map[string]bool, names []string) bool {
	for _, name := range names {
		if deps[name] {
			return true
		}
	}
	return false
}

func matchingDeps(deps map[string]bool, names []string) []string {
	var matched []string
	for _, name := range names {
		if deps[name] {
			matched = append(matched, name)
		}
	}
	return matched
}

func anyScriptContains(scripts map[string]string, substr string) bool {
	for name := range scripts {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}
