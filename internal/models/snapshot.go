package models

import "time"

// Snapshot is one append-only point-in-time measurement for a repository.
// Rows are never updated or deleted; charts read them ordered by RecordedAt.
type Snapshot struct {
	ID                 int64     `json:"id"`
	RepositoryID       int64     `json:"repo_id"`
	Stars              int       `json:"stars"`
	Forks              int       `json:"forks"`
	Contributors       int       `json:"contributors"`
	ActivityScore      float64   `json:"activity_score"`
	RecentCommitsCount int       `json:"recent_commits_count"`
	RecordedAt         time.Time `json:"recorded_at"`
}
