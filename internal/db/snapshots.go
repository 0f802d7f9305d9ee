package db

import (
	"context"
	"fmt"

	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/models"
)

// AppendSnapshot inserts one history row. Snapshots are append-only and are
// never updated or deleted; the history table reconstructs trends over time.
func (s *PostgresStore) AppendSnapshot(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO repo_stats_history (
			repo_id, stars, forks, contributors, activity_score,
			recent_commits_count, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, recorded_at`

	err := s.db.QueryRowContext(ctx, query,
		snap.RepositoryID,
		snap.Stars,
		snap.Forks,
		snap.Contributors,
		snap.ActivityScore,
		snap.RecentCommitsCount,
	).Scan(&snap.ID, &snap.RecordedAt)

	if err != nil {
		return apperrors.NewPersistenceError("failed to append snapshot", err)
	}

	return nil
}

// ListSnapshots retrieves all history rows for a repository ordered by
// recorded_at ascending, the order the chart consumer expects.
func (s *PostgresStore) ListSnapshots(ctx context.Context, repoID int64) ([]*models.Snapshot, error) {
	query := `
		SELECT id, repo_id, stars, forks, contributors, activity_score,
			recent_commits_count, recorded_at
		FROM repo_stats_history
		WHERE repo_id = $1
		ORDER BY recorded_at ASC`

	rows, err := s.db.QueryContext(ctx, query, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(
			&snap.ID,
			&snap.RepositoryID,
			&snap.Stars,
			&snap.Forks,
			&snap.Contributors,
			&snap.ActivityScore,
			&snap.RecentCommitsCount,
			&snap.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return snaps, nil
}
