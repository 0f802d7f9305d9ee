package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/truststars/ingestd/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store defines the interface for database operations
type Store interface {
	// Repository operations
	GetRepositoryByFullName(ctx context.Context, fullName string) (*models.Repository, error)
	ListRepositories(ctx context.Context) ([]*models.Repository, error)
	ListRepositoriesForSync(ctx context.Context) ([]*models.Repository, error)
	UpsertRepository(ctx context.Context, repo *models.Repository) error
	UpdateRepositoryMetadata(ctx context.Context, repo *models.Repository) error

	// Snapshot operations (append-only history)
	AppendSnapshot(ctx context.Context, snap *models.Snapshot) error
	ListSnapshots(ctx context.Context, repoID int64) ([]*models.Snapshot, error)

	// User and ownership-link operations
	UpsertUser(ctx context.Context, user *models.User) error
	LinkRepository(ctx context.Context, userID string, repoID int64, role string) error
	UnlinkRepository(ctx context.Context, userID string, repoID int64) (repoDeleted bool, err error)
	GetLink(ctx context.Context, userID string, repoID int64) (*models.RepositoryLink, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
