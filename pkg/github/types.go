package github

import "time"

// User represents a GitHub user profile.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Email       string    `json:"email"`
	Blog        string    `json:"blog"`
	Company     string    `json:"company"`
	HTMLURL     string    `json:"html_url"`
	AvatarURL   string    `json:"avatar_url"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// License is the license block attached to a repository.
type License struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Repo represents a repository as returned by the repository list endpoint.
type Repo struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	Language      string    `json:"language"`
	Stargazers    int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Watchers      int       `json:"watchers_count"`
	Size          int       `json:"size"`
	Private       bool      `json:"private"`
	Fork          bool      `json:"fork"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Topics        []string  `json:"topics"`
	HTMLURL       string    `json:"html_url"`
	CloneURL      string    `json:"clone_url"`
	License       *License  `json:"license"`
	HasIssues     bool      `json:"has_issues"`
	HasProjects   bool      `json:"has_projects"`
	HasWiki       bool      `json:"has_wiki"`
	HasPages      bool      `json:"has_pages"`
	OpenIssues    int       `json:"open_issues_count"`
	DefaultBranch string    `json:"default_branch"`
}

// EventCommit is a commit entry inside a push event payload.
type EventCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// EventPayload carries the subset of event payload fields the analyzers use.
type EventPayload struct {
	Commits []EventCommit `json:"commits"`
}

// Event represents an entry from a user's public event stream.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload EventPayload `json:"payload"`
}

// Label is an issue or pull request label.
type Label struct {
	Name string `json:"name"`
}

// IssueItem is an entry from the combined issues endpoint. GitHub returns
// pull requests on the same endpoint; the pull_request marker distinguishes
// them.
type IssueItem struct {
	Number      int       `json:"number"`
	State       string    `json:"state"`
	Labels      []Label   `json:"labels"`
	CreatedAt   time.Time `json:"created_at"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

// IsPullRequest reports whether the item is a pull request rather than a
// plain issue.
func (i IssueItem) IsPullRequest() bool { return i.PullRequest != nil }

// Contributor is an entry from a repository's contributors list.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// ContentEntry is a file or directory from the repository contents endpoint.
type ContentEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"` // "file" or "dir"
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// BranchProtection is the protection status of a branch. Only the review
// requirement matters downstream.
type BranchProtection struct {
	RequiredPullRequestReviews *struct {
		RequiredApprovingReviewCount int `json:"required_approving_review_count"`
	} `json:"required_pull_request_reviews"`
}

// CommunityFile marks the presence of a community health file.
type CommunityFile struct {
	URL string `json:"url"`
}

// CommunityProfile is the repository community profile.
type CommunityProfile struct {
	HealthPercentage int `json:"health_percentage"`
	Files            struct {
		CodeOfConduct *CommunityFile `json:"code_of_conduct"`
		Contributing  *CommunityFile `json:"contributing"`
		Security      *CommunityFile `json:"security"`
	} `json:"files"`
}

// Org is an entry from a user's organization list.
type Org struct {
	Login     string `json:"login"`
	URL       string `json:"url"`
	AvatarURL string `json:"avatar_url"`
}

// OrgDetail is the detailed organization record.
type OrgDetail struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	AvatarURL   string    `json:"avatar_url"`
	PublicRepos int       `json:"public_repos"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
