package api

import (
	"context"

	"github.com/truststars/ingestd/internal/ingest"
	"github.com/truststars/ingestd/internal/models"
)

// IngestService is the pipeline surface the HTTP layer depends on.
type IngestService interface {
	IngestRepository(ctx context.Context, req ingest.IngestRequest) (*models.Repository, error)
	SyncAll(ctx context.Context) (*ingest.SyncResult, error)
	UnlinkRepository(ctx context.Context, userID, fullName string) error
	GetRepository(ctx context.Context, fullName string) (*models.Repository, error)
	ListRepositories(ctx context.Context) ([]*models.Repository, error)
	History(ctx context.Context, fullName string) ([]*models.Snapshot, error)
}
