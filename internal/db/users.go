package db

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/models"
)

// UpsertUser creates or refreshes the locally mirrored profile row for an
// account. Runs before any repository link is written so the link's foreign
// key always resolves.
func (s *PostgresStore) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, github_username, display_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			github_username = EXCLUDED.github_username,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, user.ID, user.GitHubUsername, user.DisplayName, user.AvatarURL); err != nil {
		return apperrors.NewPersistenceError("failed to upsert user", err)
	}

	return nil
}

// LinkRepository creates or updates the ownership link between a user and a
// repository.
func (s *PostgresStore) LinkRepository(ctx context.Context, userID string, repoID int64, role string) error {
	query := `
		INSERT INTO user_repositories (user_id, repo_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, repo_id) DO UPDATE SET
			role = EXCLUDED.role`

	if _, err := s.db.ExecContext(ctx, query, userID, repoID, role); err != nil {
		return apperrors.NewPersistenceError("failed to link repository", err)
	}

	return nil
}

// GetLink retrieves the ownership link between a user and a repository.
func (s *PostgresStore) GetLink(ctx context.Context, userID string, repoID int64) (*models.RepositoryLink, error) {
	query := `
		SELECT user_id, repo_id, role, created_at
		FROM user_repositories
		WHERE user_id = $1 AND repo_id = $2`

	var link models.RepositoryLink
	err := s.db.QueryRowContext(ctx, query, userID, repoID).Scan(
		&link.UserID,
		&link.RepositoryID,
		&link.Role,
		&link.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("repository is not linked to this account", nil)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get repository link: %w", err)
	}

	return &link, nil
}

// UnlinkRepository removes the link between a user and a repository, then
// garbage-collects the repository when no links to it remain. The remaining
// link count is taken after the delete inside the same transaction, and the
// foreign key from user_repositories blocks the delete if a concurrent
// re-link lands first, so a repository is never removed while a link to it
// still exists.
func (s *PostgresStore) UnlinkRepository(ctx context.Context, userID string, repoID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperrors.NewPersistenceError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM user_repositories WHERE user_id = $1 AND repo_id = $2`,
		userID, repoID)
	if err != nil {
		return false, apperrors.NewPersistenceError("failed to remove repository link", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return false, apperrors.NewNotFoundError("repository is not linked to this account", nil)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_repositories WHERE repo_id = $1`,
		repoID).Scan(&remaining); err != nil {
		return false, fmt.Errorf("failed to count remaining links: %w", err)
	}

	deleted := false
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM repositories WHERE id = $1`, repoID); err != nil {
			return false, apperrors.NewPersistenceError("failed to delete orphaned repository", err)
		}
		deleted = true
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.NewPersistenceError("failed to commit unlink transaction", err)
	}

	return deleted, nil
}
