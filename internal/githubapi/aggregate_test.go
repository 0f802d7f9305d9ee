package githubapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitWith(login, email string, at time.Time) CommitEntry {
	var c CommitEntry
	if login != "" {
		c.Author = &struct {
			Login string `json:"login"`
		}{Login: login}
	}
	c.Commit.Author.Email = email
	c.Commit.Committer.Date = at
	return c
}

func TestAggregateEmpty(t *testing.T) {
	sig := Aggregate(nil, 3, 2)

	assert.Equal(t, 0, sig.RecentCommits)
	assert.Equal(t, 0, sig.ActiveContributors)
	assert.Equal(t, 3, sig.PRsOpened)
	assert.Equal(t, 2, sig.PRsMerged)
	assert.Nil(t, sig.LastCommitAt)
}

func TestAggregateDeduplicatesContributors(t *testing.T) {
	newest := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	commits := []CommitEntry{
		commitWith("alice", "alice@corp.example", newest),
		commitWith("alice", "alice@home.example", newest.Add(-time.Hour)),
		commitWith("", "bot@ci.example", newest.Add(-2*time.Hour)),
	}

	sig := Aggregate(commits, 0, 0)

	assert.Equal(t, 3, sig.RecentCommits)
	// alice counts once despite two emails; the bot counts by email.
	assert.Equal(t, 2, sig.ActiveContributors)
	require.NotNil(t, sig.LastCommitAt)
	assert.Equal(t, newest, *sig.LastCommitAt)
}

func TestAggregateSkipsIdentitylessCommits(t *testing.T) {
	newest := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	commits := []CommitEntry{
		commitWith("", "", newest),
		commitWith("bob", "", newest.Add(-time.Hour)),
	}

	sig := Aggregate(commits, 0, 0)

	assert.Equal(t, 2, sig.RecentCommits)
	assert.Equal(t, 1, sig.ActiveContributors)
}
