package models

import "time"

// Ownership roles for a user-repository link.
const (
	RoleOwner      = "owner"
	RoleMaintainer = "maintainer"
)

// User is the locally mirrored profile of an account managed by the hosted
// auth provider. Only the fields needed for display and linking live here.
type User struct {
	ID             string    `json:"id"`
	GitHubUsername string    `json:"github_username"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RepositoryLink ties a user to a tracked repository with a role.
type RepositoryLink struct {
	UserID       string    `json:"user_id"`
	RepositoryID int64     `json:"repo_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
