package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/models"
)

const repositoryColumns = `
	id, full_name, owner, name, description, image_url, language, homepage,
	license_name, topics, stars, forks, open_issues_count, subscribers_count,
	network_count, owner_avatar_url, owner_display_name, owner_id_github,
	verified_at, last_synced_at, activity_score, recent_commits_count,
	recent_prs_opened_count, recent_prs_merged_count, recent_contributors_count,
	last_commit_at, created_at, updated_at`

// UpsertRepository inserts or updates a repository by its case-insensitive
// natural key. verified_at is never cleared once set: an unverified re-add
// of an already verified repository keeps the original verification time.
func (s *PostgresStore) UpsertRepository(ctx context.Context, repo *models.Repository) error {
	query := `
		INSERT INTO repositories (
			full_name, owner, name, description, image_url, language, homepage,
			license_name, topics, stars, forks, open_issues_count,
			subscribers_count, network_count, owner_avatar_url,
			owner_display_name, owner_id_github, verified_at, last_synced_at,
			activity_score, recent_commits_count, recent_prs_opened_count,
			recent_prs_merged_count, recent_contributors_count, last_commit_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW(), NOW()
		)
		ON CONFLICT (lower(full_name)) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			owner = EXCLUDED.owner,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			language = EXCLUDED.language,
			homepage = EXCLUDED.homepage,
			license_name = EXCLUDED.license_name,
			topics = EXCLUDED.topics,
			stars = EXCLUDED.stars,
			forks = EXCLUDED.forks,
			open_issues_count = EXCLUDED.open_issues_count,
			subscribers_count = EXCLUDED.subscribers_count,
			network_count = EXCLUDED.network_count,
			owner_avatar_url = EXCLUDED.owner_avatar_url,
			owner_display_name = EXCLUDED.owner_display_name,
			owner_id_github = EXCLUDED.owner_id_github,
			verified_at = COALESCE(repositories.verified_at, EXCLUDED.verified_at),
			last_synced_at = EXCLUDED.last_synced_at,
			activity_score = EXCLUDED.activity_score,
			recent_commits_count = EXCLUDED.recent_commits_count,
			recent_prs_opened_count = EXCLUDED.recent_prs_opened_count,
			recent_prs_merged_count = EXCLUDED.recent_prs_merged_count,
			recent_contributors_count = EXCLUDED.recent_contributors_count,
			last_commit_at = EXCLUDED.last_commit_at,
			updated_at = NOW()
		RETURNING id, verified_at`

	err := s.db.QueryRowContext(ctx, query,
		repo.FullName,
		repo.Owner,
		repo.Name,
		repo.Description,
		repo.ImageURL,
		repo.Language,
		repo.Homepage,
		repo.LicenseName,
		pq.Array(repo.Topics),
		repo.Stars,
		repo.Forks,
		repo.OpenIssuesCount,
		repo.SubscribersCount,
		repo.NetworkCount,
		repo.OwnerAvatarURL,
		repo.OwnerDisplayName,
		repo.OwnerGitHubID,
		repo.VerifiedAt,
		repo.LastSyncedAt,
		repo.Activity.Score,
		repo.Activity.RecentCommitsCount,
		repo.Activity.RecentPRsOpenedCount,
		repo.Activity.RecentPRsMergedCount,
		repo.Activity.RecentContributorsCount,
		repo.Activity.LastCommitAt,
	).Scan(&repo.ID, &repo.VerifiedAt)

	if err != nil {
		return apperrors.NewPersistenceError("failed to upsert repository", err)
	}

	return nil
}

// UpdateRepositoryMetadata refreshes the popularity counters and display
// metadata of an existing repository without touching its activity block.
// Used by bulk sync, which does not re-fetch activity signals.
func (s *PostgresStore) UpdateRepositoryMetadata(ctx context.Context, repo *models.Repository) error {
	query := `
		UPDATE repositories SET
			stars = $1,
			forks = $2,
			open_issues_count = $3,
			subscribers_count = $4,
			network_count = $5,
			description = $6,
			language = $7,
			homepage = $8,
			license_name = $9,
			topics = $10,
			owner_avatar_url = $11,
			owner_display_name = $12,
			owner_id_github = $13,
			last_synced_at = $14,
			updated_at = NOW()
		WHERE id = $15`

	result, err := s.db.ExecContext(ctx, query,
		repo.Stars,
		repo.Forks,
		repo.OpenIssuesCount,
		repo.SubscribersCount,
		repo.NetworkCount,
		repo.Description,
		repo.Language,
		repo.Homepage,
		repo.LicenseName,
		pq.Array(repo.Topics),
		repo.OwnerAvatarURL,
		repo.OwnerDisplayName,
		repo.OwnerGitHubID,
		repo.LastSyncedAt,
		repo.ID,
	)
	if err != nil {
		return apperrors.NewPersistenceError("failed to update repository metadata", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("repository not found with id %d", repo.ID), nil)
	}

	return nil
}

// GetRepositoryByFullName retrieves a repository by its natural key,
// matching case-insensitively.
func (s *PostgresStore) GetRepositoryByFullName(ctx context.Context, fullName string) (*models.Repository, error) {
	query := `SELECT ` + repositoryColumns + `
		FROM repositories WHERE lower(full_name) = lower($1)`

	repo, err := scanRepository(s.db.QueryRowContext(ctx, query, fullName))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("repository not found: %s", fullName), nil)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	return repo, nil
}

// ListRepositories retrieves all repositories ordered by activity score for
// the leaderboard.
func (s *PostgresStore) ListRepositories(ctx context.Context) ([]*models.Repository, error) {
	query := `SELECT ` + repositoryColumns + `
		FROM repositories ORDER BY activity_score DESC, stars DESC`
	return s.queryRepositories(ctx, query)
}

// ListRepositoriesForSync retrieves every tracked repository in insertion
// order for the bulk refresh.
func (s *PostgresStore) ListRepositoriesForSync(ctx context.Context) ([]*models.Repository, error) {
	query := `SELECT ` + repositoryColumns + `
		FROM repositories ORDER BY id`
	return s.queryRepositories(ctx, query)
}

func (s *PostgresStore) queryRepositories(ctx context.Context, query string) ([]*models.Repository, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository row: %w", err)
		}
		repos = append(repos, repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repository rows: %w", err)
	}

	return repos, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRepository(row rowScanner) (*models.Repository, error) {
	var repo models.Repository
	err := row.Scan(
		&repo.ID,
		&repo.FullName,
		&repo.Owner,
		&repo.Name,
		&repo.Description,
		&repo.ImageURL,
		&repo.Language,
		&repo.Homepage,
		&repo.LicenseName,
		pq.Array(&repo.Topics),
		&repo.Stars,
		&repo.Forks,
		&repo.OpenIssuesCount,
		&repo.SubscribersCount,
		&repo.NetworkCount,
		&repo.OwnerAvatarURL,
		&repo.OwnerDisplayName,
		&repo.OwnerGitHubID,
		&repo.VerifiedAt,
		&repo.LastSyncedAt,
		&repo.Activity.Score,
		&repo.Activity.RecentCommitsCount,
		&repo.Activity.RecentPRsOpenedCount,
		&repo.Activity.RecentPRsMergedCount,
		&repo.Activity.RecentContributorsCount,
		&repo.Activity.LastCommitAt,
		&repo.CreatedAt,
		&repo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}
