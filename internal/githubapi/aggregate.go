package githubapi

import "time"

// Signals is the normalized activity measurement set feeding the score.
type Signals struct {
	RecentCommits      int
	ActiveContributors int
	PRsOpened          int
	PRsMerged          int
	LastCommitAt       *time.Time
}

// Aggregate reduces one commits page and the two PR search counts into
// Signals. The commits endpoint filters server-side by the since window and
// returns entries newest first; the first entry's committer timestamp is
// taken as the last-commit time.
func Aggregate(commits []CommitEntry, prsOpened, prsMerged int) Signals {
	sig := Signals{
		RecentCommits: len(commits),
		PRsOpened:     prsOpened,
		PRsMerged:     prsMerged,
	}

	if len(commits) == 0 {
		return sig
	}

	last := commits[0].Commit.Committer.Date
	sig.LastCommitAt = &last

	// Contributor identity is the platform login when the commit has a
	// linked account, else the raw author email. Bot and webhook commits
	// often carry only an email.
	identities := make(map[string]struct{})
	for _, c := range commits {
		switch {
		case c.Author != nil && c.Author.Login != "":
			identities[c.Author.Login] = struct{}{}
		case c.Commit.Author.Email != "":
			identities[c.Commit.Author.Email] = struct{}{}
		}
	}
	sig.ActiveContributors = len(identities)

	return sig
}
