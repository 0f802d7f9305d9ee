package ingest

import (
	"math"
	"time"

	"github.com/truststars/ingestd/internal/githubapi"
)

// ScoreConfig holds the scoring weights and recency thresholds. These are
// product-owned tuning parameters; changing them changes every leaderboard
// position, so treat edits as a product decision rather than a refactor.
type ScoreConfig struct {
	ContributorWeight float64
	CommitWeight      float64
	PRMergedWeight    float64
	PROpenedWeight    float64

	// RecencyBoost applies when the last commit is younger than BoostWindow;
	// StalePenalty applies when it is older than StaleWindow.
	RecencyBoost float64
	BoostWindow  time.Duration
	StalePenalty float64
	StaleWindow  time.Duration
}

// DefaultScoreConfig returns the shipped scoring constants. The weighting
// favors breadth of active participation and completed work over raw commit
// volume, so trivial high-frequency commits cannot game the leaderboard.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		ContributorWeight: 10,
		CommitWeight:      0.5,
		PRMergedWeight:    5,
		PROpenedWeight:    1,
		RecencyBoost:      1.2,
		BoostWindow:       48 * time.Hour,
		StalePenalty:      0.5,
		StaleWindow:       14 * 24 * time.Hour,
	}
}

// ComputeScore combines normalized signals into a single comparable activity
// score, applying the recency multiplier only when a last-commit time exists.
// The result is non-negative and rounded half-up to two decimal places.
func (c ScoreConfig) ComputeScore(sig githubapi.Signals, now time.Time) float64 {
	score := float64(sig.ActiveContributors)*c.ContributorWeight +
		float64(sig.RecentCommits)*c.CommitWeight +
		float64(sig.PRsMerged)*c.PRMergedWeight +
		float64(sig.PRsOpened)*c.PROpenedWeight

	if sig.LastCommitAt != nil {
		age := now.Sub(*sig.LastCommitAt)
		switch {
		case age < c.BoostWindow:
			score *= c.RecencyBoost
		case age > c.StaleWindow:
			score *= c.StalePenalty
		}
	}

	return math.Round(score*100) / 100
}
