package githubapi

import "time"

// RepoDetails is the repository-details endpoint response. Optional blocks
// (license, permissions) are pointers because anonymous or low-scope fetches
// omit them.
type RepoDetails struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	Language        string   `json:"language"`
	Homepage        string   `json:"homepage"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	SubscribersCount int     `json:"subscribers_count"`
	NetworkCount    int      `json:"network_count"`

	Owner struct {
		Login     string `json:"login"`
		ID        int64  `json:"id"`
		AvatarURL string `json:"avatar_url"`
	} `json:"owner"`

	License *struct {
		Name   string `json:"name"`
		SPDXID string `json:"spdx_id"`
	} `json:"license"`

	Permissions *struct {
		Admin    bool `json:"admin"`
		Maintain bool `json:"maintain"`
		Push     bool `json:"push"`
	} `json:"permissions"`
}

// LicenseName returns the display license, preferring the full name.
func (r *RepoDetails) LicenseName() string {
	if r.License == nil {
		return ""
	}
	if r.License.Name != "" {
		return r.License.Name
	}
	return r.License.SPDXID
}

// CallerControls reports whether the permissions block (present only when the
// request carried the caller's own token) grants admin or maintain access.
func (r *RepoDetails) CallerControls() bool {
	return r.Permissions != nil && (r.Permissions.Admin || r.Permissions.Maintain)
}

// UserDetails is the user-details endpoint response.
type UserDetails struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the profile name, falling back to the login.
func (u *UserDetails) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// CommitEntry is one element of the commits-since listing. The top-level
// author is the linked platform account and is missing for commits whose
// email has no account (bots, webhooks, pre-account history).
type CommitEntry struct {
	SHA    string `json:"sha"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Commit struct {
		Author struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
		Committer struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// searchResult carries the only field the PR search queries need.
type searchResult struct {
	TotalCount int `json:"total_count"`
}
