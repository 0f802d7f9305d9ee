package models

import "time"

// Repository is one tracked GitHub repository, keyed by its owner/name pair.
type Repository struct {
	ID              int64      `json:"id"`
	FullName        string     `json:"full_name"`
	Owner           string     `json:"owner"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	Language        string     `json:"language"`
	Homepage        string     `json:"homepage"`
	LicenseName     string     `json:"license_name"`
	Topics          []string   `json:"topics"`
	Stars           int        `json:"stars"`
	Forks           int        `json:"forks"`
	OpenIssuesCount int        `json:"open_issues_count"`
	SubscribersCount int       `json:"subscribers_count"`
	NetworkCount    int        `json:"network_count"`
	OwnerAvatarURL  string     `json:"owner_avatar_url"`
	OwnerDisplayName string    `json:"owner_display_name"`
	OwnerGitHubID   int64      `json:"owner_id_github"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`

	Activity ActivityStats `json:"activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityStats is the derived activity block refreshed on every full ingestion.
type ActivityStats struct {
	Score                 float64    `json:"activity_score"`
	RecentCommitsCount    int        `json:"recent_commits_count"`
	RecentPRsOpenedCount  int        `json:"recent_prs_opened_count"`
	RecentPRsMergedCount  int        `json:"recent_prs_merged_count"`
	RecentContributorsCount int      `json:"recent_contributors_count"`
	LastCommitAt          *time.Time `json:"last_commit_at,omitempty"`
}

// Verified reports whether an owner or maintainer has ever claimed the repository.
func (r *Repository) Verified() bool {
	return r.VerifiedAt != nil
}
