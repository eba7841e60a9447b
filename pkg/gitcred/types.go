package gitcred

import (
	"time"

	"github.com/unmask-dev/gitcred/pkg/github"
)

// Profile is the aggregate result of analyzing one GitHub account. It is
// constructed fresh on every ProcessAccount call and never persisted by this
// package.
type Profile struct {
	Username         string              `json:"username"`
	Name             string              `json:"name"`
	Bio              string              `json:"bio"`
	Location         string              `json:"location"`
	Email            string              `json:"email"`
	Blog             string              `json:"blog"`
	Company          string              `json:"company"`
	ProfileURL       string              `json:"profile_url"`
	AvatarURL        string              `json:"avatar_url"`
	Followers        int                 `json:"followers"`
	Following        int                 `json:"following"`
	PublicRepos      int                 `json:"public_repos"`
	PublicGists      int                 `json:"public_gists"`
	AccountCreatedAt time.Time           `json:"account_created_at"`
	LastActivityAt   time.Time           `json:"last_activity_at,omitzero"`
	Repositories     []Repository        `json:"repositories"`
	Content          []RepositoryContent `json:"repository_content,omitempty"`
	Languages        []LanguageStat      `json:"languages"`
	Contributions    ContributionStats   `json:"contributions"`
	Activity         *ActivityAnalysis   `json:"activity_analysis,omitempty"`
	StarredRepos     int                 `json:"starred_repos"`
	ForkedRepos      int                 `json:"forked_repos"`
	Organizations    []Organization      `json:"organizations"`
	OverallQuality   *QualityScore       `json:"overall_quality,omitempty"`
	Meta             Provenance          `json:"meta"`
}

// Repository is the normalized view of one repository.
type Repository struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	Language      string    `json:"language"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	SizeKB        int       `json:"size_kb"`
	IsPrivate     bool      `json:"is_private"`
	IsFork        bool      `json:"is_fork"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Topics        []string  `json:"topics"`
	URL           string    `json:"url"`
	CloneURL      string    `json:"clone_url"`
	License       string    `json:"license,omitempty"`
	HasIssues     bool      `json:"has_issues"`
	HasProjects   bool      `json:"has_projects"`
	HasWiki       bool      `json:"has_wiki"`
	HasPages      bool      `json:"has_pages"`
	OpenIssues    int       `json:"open_issues"`
	DefaultBranch string    `json:"default_branch"`
}

// LanguageStat is one entry of the size-weighted language breakdown.
type LanguageStat struct {
	Language   string  `json:"language"`
	Bytes      int     `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

// ContributionStats summarizes recent public activity. The counters cover a
// bounded window of recent events, not full account history.
type ContributionStats struct {
	TotalCommits          int    `json:"total_commits"`
	TotalPullRequests     int    `json:"total_pull_requests"`
	TotalIssues           int    `json:"total_issues"`
	TotalRepositories     int    `json:"total_repositories"`
	StreakDays            int    `json:"streak_days"`
	ContributionsLastYear int    `json:"contributions_last_year"`
	MostActiveDay         string `json:"most_active_day,omitempty"`
	MostUsedLanguage      string `json:"most_used_language,omitempty"`
}

// ActivityAnalysis bundles the event-stream derived metrics.
type ActivityAnalysis struct {
	CommitFrequency    CommitFrequency      `json:"commit_frequency"`
	IssueMetrics       IssueMetrics         `json:"issue_metrics"`
	PullRequestMetrics PullRequestMetrics   `json:"pull_request_metrics"`
	Collaboration      CollaborationSignals `json:"collaboration_signals"`
}

// CommitFrequency counts pushed commits within rolling windows ending now.
type CommitFrequency struct {
	LastWeek            int  `json:"last_week"`
	LastMonth           int  `json:"last_month"`
	LastYear            int  `json:"last_year"`
	AveragePerWeek      int  `json:"average_per_week"`
	MessageQuality      int  `json:"commit_message_quality"` // 0-100
	ConventionalCommits bool `json:"conventional_commits"`
}

// IssueMetrics aggregates issue counts across the sampled repositories.
// The timing fields need issue-timeline analysis and are always zero.
type IssueMetrics struct {
	TotalOpen              int     `json:"total_open"`
	TotalClosed            int     `json:"total_closed"`
	AverageResponseHours   float64 `json:"average_response_hours"`
	AverageResolutionHours float64 `json:"average_resolution_hours"`
	HasLabels              bool    `json:"has_labels"`
	HasTemplates           bool    `json:"has_templates"`
	MaintainerResponseRate int     `json:"maintainer_response_rate"` // 0-100
}

// PullRequestMetrics aggregates PR counts across the sampled repositories.
// The timing fields need PR-timeline analysis and are always zero.
type PullRequestMetrics struct {
	TotalOpen           int     `json:"total_open"`
	TotalMerged         int     `json:"total_merged"`
	AverageReviewHours  float64 `json:"average_review_hours"`
	AverageMergeHours   float64 `json:"average_merge_hours"`
	HasTemplates        bool    `json:"has_templates"`
	RequiresReviews     bool    `json:"requires_reviews"`
	MaintainerMergeRate int     `json:"maintainer_merge_rate"` // 0-100
}

// CollaborationSignals measures how much the account works with others.
type CollaborationSignals struct {
	UniqueContributors   int     `json:"unique_contributors"`
	CoreTeamSize         int     `json:"core_team_size"`
	OutsideContributions int     `json:"outside_contributions"`
	ForkToStarRatio      float64 `json:"fork_to_star_ratio"`
	CommunityEngagement  int     `json:"community_engagement"` // 0-100
	HasCodeOfConduct     bool    `json:"has_code_of_conduct"`
	HasContributingGuide bool    `json:"has_contributing_guide"`
	HasSecurityPolicy    bool    `json:"has_security_policy"`
}

// RepositoryContent is the per-repository content analysis bundle.
type RepositoryContent struct {
	RepoName      string             `json:"repo_name"`
	Readme        ReadmeAnalysis     `json:"readme"`
	Package       *PackageAnalysis   `json:"package_json,omitempty"`
	Workflows     []WorkflowAnalysis `json:"workflows"`
	CodeStructure CodeStructure      `json:"code_structure"`
	Quality       QualityScore       `json:"quality_score"`
}

// ReadmeAnalysis describes the repository README, if one exists in the root.
type ReadmeAnalysis struct {
	Exists            bool     `json:"exists"`
	Length            int      `json:"length"`
	Sections          []string `json:"sections"`
	HasBadges         bool     `json:"has_badges"`
	HasInstallInstr   bool     `json:"has_install_instructions"`
	HasUsageExamples  bool     `json:"has_usage_examples"`
	HasContributing   bool     `json:"has_contributing"`
	HasLicenseMention bool     `json:"has_license"`
	ImageCount        int      `json:"image_count"`
	LinkCount         int      `json:"link_count"`
	CodeBlockCount    int      `json:"code_block_count"`
	QualityScore      int      `json:"quality_score"` // 0-100
}

// PackageAnalysis describes a parsed package.json manifest.
type PackageAnalysis struct {
	Exists             bool     `json:"exists"`
	HasScripts         bool     `json:"has_scripts"`
	ScriptCount        int      `json:"script_count"`
	DependencyCount    int      `json:"dependency_count"`
	DevDependencyCount int      `json:"dev_dependency_count"`
	HasLinting         bool     `json:"has_linting"`
	HasTesting         bool     `json:"has_testing"`
	HasTypeScript      bool     `json:"has_typescript"`
	HasDocumentation   bool     `json:"has_documentation"`
	HasValidLicense    bool     `json:"has_valid_license"`
	Frameworks         []string `json:"frameworks,omitempty"`
	BuildTools         []string `json:"build_tools,omitempty"`
	TestingFrameworks  []string `json:"testing_frameworks,omitempty"`
	LintingTools       []string `json:"linting_tools,omitempty"`
	// OutdatedDependencies would need a registry lookup and is always zero.
	OutdatedDependencies int `json:"outdated_dependencies"`
}

// WorkflowAnalysis describes one GitHub Actions workflow file.
type WorkflowAnalysis struct {
	Name           string   `json:"name"`
	FileName       string   `json:"file_name"`
	Triggers       []string `json:"triggers"`
	Jobs           []string `json:"jobs"`
	HasTestJob     bool     `json:"has_test_job"`
	HasLintJob     bool     `json:"has_lint_job"`
	HasBuildJob    bool     `json:"has_build_job"`
	HasDeployJob   bool     `json:"has_deploy_job"`
	UsesSecrets    bool     `json:"uses_secrets"`
	MatrixStrategy bool     `json:"matrix_strategy"`
	Complexity     int      `json:"complexity"` // 0-100
}

// CodeStructure describes the repository root layout.
type CodeStructure struct {
	FileCount         int            `json:"file_count"`
	DirectoryCount    int            `json:"directory_count"`
	LanguageFiles     map[string]int `json:"language_files"`
	HasTests          bool           `json:"has_tests"`
	HasDocumentation  bool           `json:"has_documentation"`
	HasExamples       bool           `json:"has_examples"`
	HasConfigFiles    bool           `json:"has_config_files"`
	OrganizationScore int            `json:"organization_score"` // 0-100
}

// QualityScore is the composed per-repository (or account-mean) score.
// Every field is bounded to [0,100].
type QualityScore struct {
	Overall          int              `json:"overall"`
	Readme           int              `json:"readme"`
	CodeOrganization int              `json:"code_organization"`
	CICD             int              `json:"cicd"`
	Documentation    int              `json:"documentation"`
	Maintenance      int              `json:"maintenance"`
	Community        int              `json:"community"`
	Breakdown        QualityBreakdown `json:"breakdown"`
}

// QualityBreakdown holds the weighted factors behind Overall.
type QualityBreakdown struct {
	ReadmeQuality    int `json:"readme_quality"`
	HasCI            int `json:"has_ci"`
	HasTests         int `json:"has_tests"`
	HasLinting       int `json:"has_linting"`
	DependencyHealth int `json:"dependency_health"`
	CommunityFiles   int `json:"community_files"`
	RecentActivity   int `json:"recent_activity"`
}

// Organization is one organization the account publicly belongs to.
type Organization struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	AvatarURL   string    `json:"avatar_url"`
	PublicRepos int       `json:"public_repos"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Provenance records how and when a profile was produced.
type Provenance struct {
	ProcessedAt          time.Time            `json:"processed_at"`
	Options              Options              `json:"options"`
	RepositoriesAnalyzed int                  `json:"repositories_analyzed"`
	EventsAnalyzed       int                  `json:"events_analyzed"`
	APIUsage             github.UsageSnapshot `json:"api_usage"`
}

// Options controls the scope of a ProcessAccount run. The zero value is the
// default run: activity and organization analysis on, content analysis off.
// The boolean flags are phrased as skips so that an empty options payload
// keeps the default scope.
type Options struct {
	MaxRepos           int  `json:"max_repos"`
	MaxEvents          int  `json:"max_events"`
	SkipOrganizations  bool `json:"skip_organizations"`
	SkipActivity       bool `json:"skip_activity"`
	AnalyzeContent     bool `json:"analyze_content"`
	MaxContentAnalysis int  `json:"max_content_analysis"`
}

// DefaultOptions returns the options used when the caller passes zero values.
func DefaultOptions() Options {
	return Options{
		MaxRepos:           100,
		MaxEvents:          300,
		MaxContentAnalysis: 10,
	}
}

// normalized fills unset numeric fields with defaults.
func (o Options) normalized() Options {
	defaults := DefaultOptions()
	if o.MaxRepos <= 0 {
		o.MaxRepos = defaults.MaxRepos
	}
	if o.MaxEvents <= 0 {
		o.MaxEvents = defaults.MaxEvents
	}
	if o.MaxContentAnalysis <= 0 {
		o.MaxContentAnalysis = defaults.MaxContentAnalysis
	}
	return o
}
