package gitcred

import (
	"math"
	"time"
)

// Weighted factors behind the overall quality score. Weights sum to 1.0.
const (
	weightReadme           = 0.25
	weightCI               = 0.15
	weightTests            = 0.15
	weightLinting          = 0.10
	weightDependencyHealth = 0.10
	weightCommunityFiles   = 0.15
	weightRecentActivity   = 0.10
)

// scoreRepository composes per-repository content signals into the weighted
// quality score. The top-level cicd/documentation/maintenance/community
// fields use their own derivations and are not copies of breakdown entries.
func scoreRepository(readme ReadmeAnalysis, pkg *PackageAnalysis, workflows []WorkflowAnalysis, structure CodeStructure, repo Repository, now time.Time) QualityScore {
	breakdown := QualityBreakdown{
		ReadmeQuality:  readme.QualityScore,
		CommunityFiles: boolPoints(readme.HasContributing, 50) + boolPoints(readme.HasLicenseMention, 50),
	}
	if len(workflows) > 0 {
		breakdown.HasCI = 100
	}
	if structure.HasTests {
		breakdown.HasTests = 100
	}
	if pkg != nil && pkg.HasLinting {
		breakdown.HasLinting = 100
	}
	// The outdated-dependency count is a placeholder that is never
	// populated, so a present manifest always scores 100.
	breakdown.DependencyHealth = 50
	if pkg != nil {
		breakdown.DependencyHealth = max(0, 100-pkg.OutdatedDependencies*10)
	}

	weeksSinceUpdate := int(now.Sub(repo.UpdatedAt).Hours() / (24 * 7))
	breakdown.RecentActivity = max(0, 100-weeksSinceUpdate)

	overall := float64(breakdown.ReadmeQuality)*weightReadme +
		float64(breakdown.HasCI)*weightCI +
		float64(breakdown.HasTests)*weightTests +
		float64(breakdown.HasLinting)*weightLinting +
		float64(breakdown.DependencyHealth)*weightDependencyHealth +
		float64(breakdown.CommunityFiles)*weightCommunityFiles +
		float64(breakdown.RecentActivity)*weightRecentActivity

	cicd := 0
	if len(workflows) > 0 {
		total := 0
		for _, w := range workflows {
			total += w.Complexity
		}
		cicd = roundHalfUp(float64(total) / float64(len(workflows)))
	}

	documentation := 0
	switch {
	case structure.HasDocumentation:
		documentation = 80
	case readme.Exists:
		documentation = 60
	}

	starBonus := 0
	if repo.Stars > 10 {
		starBonus = 20
	}

	return QualityScore{
		Overall:          clamp(roundHalfUp(overall)),
		Readme:           clamp(readme.QualityScore),
		CodeOrganization: clamp(structure.OrganizationScore),
		CICD:             clamp(cicd),
		Documentation:    clamp(documentation),
		Maintenance:      clamp(roundHalfUp(float64(breakdown.RecentActivity+breakdown.DependencyHealth) / 2)),
		Community:        clamp(roundHalfUp(float64(breakdown.CommunityFiles+starBonus) / 2)),
		Breakdown:        breakdown,
	}
}

// averageQuality computes the account-level quality score as the mean of
// the per-repository scores, field by field.
func averageQuality(contents []RepositoryContent) *QualityScore {
	if len(contents) == 0 {
		return nil
	}

	var sum QualityScore
	for _, content := range contents {
		q := content.Quality
		sum.Overall += q.Overall
		sum.Readme += q.Readme
		sum.CodeOrganization += q.CodeOrganization
		sum.CICD += q.CICD
		sum.Documentation += q.Documentation
		sum.Maintenance += q.Maintenance
		sum.Community += q.Community
		sum.Breakdown.ReadmeQuality += q.Breakdown.ReadmeQuality
		sum.Breakdown.HasCI += q.Breakdown.HasCI
		sum.Breakdown.HasTests += q.Breakdown.HasTests
		sum.Breakdown.HasLinting += q.Breakdown.HasLinting
		sum.Breakdown.DependencyHealth += q.Breakdown.DependencyHealth
		sum.Breakdown.CommunityFiles += q.Breakdown.CommunityFiles
		sum.Breakdown.RecentActivity += q.Breakdown.RecentActivity
	}

	n := len(contents)
	mean := func(total int) int {
		return roundHalfUp(float64(total) / float64(n))
	}
	return &QualityScore{
		Overall:          mean(sum.Overall),
		Readme:           mean(sum.Readme),
		CodeOrganization: mean(sum.CodeOrganization),
		CICD:             mean(sum.CICD),
		Documentation:    mean(sum.Documentation),
		Maintenance:      mean(sum.Maintenance),
		Community:        mean(sum.Community),
		Breakdown: QualityBreakdown{
			ReadmeQuality:    mean(sum.Breakdown.ReadmeQuality),
			HasCI:            mean(sum.Breakdown.HasCI),
			HasTests:         mean(sum.Breakdown.HasTests),
			HasLinting:       mean(sum.Breakdown.HasLinting),
			DependencyHealth: mean(sum.Breakdown.DependencyHealth),
			CommunityFiles:   mean(sum.Breakdown.CommunityFiles),
			RecentActivity:   mean(sum.Breakdown.RecentActivity),
		},
	}
}

// clamp bounds a score to [0,100].
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundHalfUp(v float64) int {
	return int(math.Round(v))
}

func boolPoints(b bool, points int) int {
	if b {
		return points
	}
	return 0
}
