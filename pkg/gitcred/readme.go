package gitcred

import (
	"regexp"
	"strings"
)

var (
	readmeFilePattern = regexp.MustCompile(`(?i)^readme\.(md|rst|txt)$`)

	imagePattern = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkPattern  = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	badgePattern = regexp.MustCompile(
		`(?i)!\[.*?\]\(https?://.*?(shields\.io|badge|travis|circleci|github\.com/.*/workflows)`)
	installPattern = regexp.MustCompile(`install|npm i|yarn add|pip install|composer install|go get`)
	usagePattern   = regexp.MustCompile(`usage|example|getting started|quick start`)
	contribPattern = regexp.MustCompile(`contributing|contribution`)
	licensePattern = regexp.MustCompile(`license|mit|apache|gpl`)
)

// analyzeReadme derives structural signals and a tiered quality score from
// README markdown. An empty content string means no README was found.
func analyzeReadme(content string) ReadmeAnalysis {
	if content == "" {
		return ReadmeAnalysis{}
	}

	lower := strings.ToLower(content)

	var sections []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			sections = append(sections, strings.TrimSpace(strings.TrimLeft(trimmed, "# ")))
		}
	}

	imageCount := len(imagePattern.FindAllString(content, -1))
	linkCount := len(linkPattern.FindAllString(content, -1))
	codeBlockCount := strings.Count(content, "```") / 2

	analysis := ReadmeAnalysis{
		Exists:            true,
		Length:            len(content),
		Sections:          sections,
		HasBadges:         badgePattern.MatchString(content),
		HasInstallInstr:   installPattern.MatchString(lower),
		HasUsageExamples:  usagePattern.MatchString(lower) && codeBlockCount > 0,
		HasContributing:   contribPattern.MatchString(lower),
		HasLicenseMention: licensePattern.MatchString(lower),
		ImageCount:        imageCount,
		LinkCount:         linkCount,
		CodeBlockCount:    codeBlockCount,
	}

	score := 0

	// Length tiers, with a point for staying digestible.
	if analysis.Length > 500 {
		score += 5
	}
	if analysis.Length > 1500 {
		score += 5
	}
	if analysis.Length > 3000 {
		score += 10
	}
	if analysis.Length < 10000 {
		score += 5
	}

	if len(sections) >= 3 {
		score += 10
	}
	if analysis.HasBadges {
		score += 10
	}
	if analysis.HasInstallInstr {
		score += 15
	}
	if analysis.HasUsageExamples {
		score += 15
	}
	if analysis.HasContributing {
		score += 10
	}
	if analysis.HasLicenseMention {
		score += 5
	}
	if imageCount > 0 {
		score += 5
	}
	if codeBlockCount >= 2 {
		score += 5
	}

	analysis.QualityScore = clamp(score)
	return analysis
}
