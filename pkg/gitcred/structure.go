package gitcred

import (
	"regexp"
	"strings"

	"github.com/unmask-dev/gitcred/pkg/github"
)

var (
	configExtPattern   = regexp.MustCompile(`\.(json|yml|yaml|toml|ini|conf|config)$`)
	configNamePattern  = regexp.MustCompile(`(?i)^(\..*rc|\..*ignore|.*\.config\.|dockerfile)`)
	testDirPattern     = regexp.MustCompile(`test|spec|__tests__|tests`)
	docsDirPattern     = regexp.MustCompile(`docs?|documentation|wiki`)
	examplesDirPattern = regexp.MustCompile(`examples?|demo|samples?`)
)

// analyzeCodeStructure derives layout signals and an organization score from
// a repository's root directory listing.
func analyzeCodeStructure(entries []github.ContentEntry) CodeStructure {
	structure := CodeStructure{
		LanguageFiles: make(map[string]int),
	}

	for _, entry := range entries {
		switch entry.Type {
		case "file":
			structure.FileCount++

			name := strings.ToLower(entry.Name)
			if idx := strings.LastIndex(name, "."); idx >= 0 {
				structure.LanguageFiles["."+name[idx+1:]]++
			}

			if configExtPattern.MatchString(name) || configNamePattern.MatchString(entry.Name) {
				structure.HasConfigFiles = true
			}
		case "dir":
			structure.DirectoryCount++

			dirName := strings.ToLower(entry.Name)
			if testDirPattern.MatchString(dirName) {
				structure.HasTests = true
			}
			if docsDirPattern.MatchString(dirName) {
				structure.HasDocumentation = true
			}
			if examplesDirPattern.MatchString(dirName) {
				structure.HasExamples = true
			}
		}
	}

	score := 0

	if structure.HasTests {
		score += 20
	}
	if structure.HasDocumentation {
		score += 10
	}
	if structure.HasExamples {
		score += 10
	}

	if structure.DirectoryCount >= 3 {
		score += 10
	}
	if structure.HasConfigFiles {
		score += 10
	}
	if structure.FileCount > 5 && structure.FileCount < 100 {
		score += 10
	}

	languageCount := len(structure.LanguageFiles)
	if languageCount >= 2 {
		score += 10
	}
	if languageCount >= 4 {
		score += 10
	}
	if languageCount <= 8 {
		score += 10
	}

	structure.OrganizationScore = clamp(score)
	return structure
}
