package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/truststars/ingestd/internal/db"
	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/githubapi"
	"github.com/truststars/ingestd/internal/models"
	"github.com/truststars/ingestd/internal/utils"
)

const (
	// activityWindow is the lookback for commit and PR signals.
	activityWindow = 30 * 24 * time.Hour

	// syncConcurrency bounds in-flight fetches during bulk sync. The work is
	// rate-limit-bound, not CPU-bound, so the limit stays small.
	syncConcurrency = 5
)

// SourceClient is the GitHub access surface the orchestrator depends on.
type SourceClient interface {
	GetRepository(ctx context.Context, owner, name, callerToken string) (*githubapi.RepoDetails, error)
	GetUser(ctx context.Context, login, callerToken string) (*githubapi.UserDetails, error)
	ListRecentCommits(ctx context.Context, owner, name string, since time.Time, callerToken string) ([]githubapi.CommitEntry, error)
	CountPRsOpenedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error)
	CountPRsMergedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error)
}

// Service orchestrates the fetch → aggregate → score → persist pipeline.
type Service struct {
	client SourceClient
	store  db.Store
	logger *logrus.Logger
	score  ScoreConfig
	now    func() time.Time
}

func NewService(client SourceClient, store db.Store, logger *logrus.Logger, score ScoreConfig) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
		score:  score,
		now:    time.Now,
	}
}

// Actor identifies the externally authenticated account performing an add.
type Actor struct {
	ID             string `json:"id"`
	GitHubUsername string `json:"github_username"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatar_url"`
}

// IngestRequest is the input for a single-repository ingestion.
type IngestRequest struct {
	// Ref is the repository reference: owner/name or a GitHub URL.
	Ref string
	// CallerToken is the acting account's own GitHub token, if any. It heads
	// the credential chain and enables permission-based verification.
	CallerToken string
	// Description and ImageURL override the fetched metadata when set.
	Description string
	ImageURL    string
	// Actor links the repository to an account when present.
	Actor *Actor
}

// SyncResult reports bulk-sync completion to operators.
type SyncResult struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// IngestRepository runs the full pipeline for one repository: resolve the
// acting profile, fetch details and activity signals, score, upsert the
// record, link the actor and append a history snapshot. A failed details
// fetch aborts before any repository write; failed signal sub-fetches
// degrade to zero instead of aborting.
func (s *Service) IngestRepository(ctx context.Context, req IngestRequest) (*models.Repository, error) {
	owner, name, err := utils.ParseFullName(req.Ref)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid repository reference", err)
	}
	fullName := owner + "/" + name

	log := s.logger.WithField("repository", fullName)

	// The profile row must exist before any link references it.
	if req.Actor != nil {
		if err := s.store.UpsertUser(ctx, &models.User{
			ID:             req.Actor.ID,
			GitHubUsername: req.Actor.GitHubUsername,
			DisplayName:    req.Actor.DisplayName,
			AvatarURL:      req.Actor.AvatarURL,
		}); err != nil {
			return nil, err
		}
	}

	details, err := s.client.GetRepository(ctx, owner, name, req.CallerToken)
	if err != nil {
		log.WithError(err).Error("Failed to fetch repository details")
		return nil, err
	}

	ownerDisplayName := s.resolveOwnerDisplayName(ctx, details.Owner.Login, req.CallerToken)

	// Verification requires the caller's own token: the permissions block
	// reflects whoever authenticated the request.
	isVerified := req.CallerToken != "" && details.CallerControls()

	now := s.now()
	signals := s.fetchSignals(ctx, owner, name, details.FullName, req.CallerToken)
	score := s.score.ComputeScore(signals, now)

	repo := &models.Repository{
		FullName:         details.FullName,
		Owner:            details.Owner.Login,
		Name:             details.Name,
		Description:      details.Description,
		ImageURL:         details.Owner.AvatarURL,
		Language:         details.Language,
		Homepage:         details.Homepage,
		LicenseName:      details.LicenseName(),
		Topics:           details.Topics,
		Stars:            details.StargazersCount,
		Forks:            details.ForksCount,
		OpenIssuesCount:  details.OpenIssuesCount,
		SubscribersCount: details.SubscribersCount,
		NetworkCount:     details.NetworkCount,
		OwnerAvatarURL:   details.Owner.AvatarURL,
		OwnerDisplayName: ownerDisplayName,
		OwnerGitHubID:    details.Owner.ID,
		LastSyncedAt:     &now,
		Activity: models.ActivityStats{
			Score:                   score,
			RecentCommitsCount:      signals.RecentCommits,
			RecentPRsOpenedCount:    signals.PRsOpened,
			RecentPRsMergedCount:    signals.PRsMerged,
			RecentContributorsCount: signals.ActiveContributors,
			LastCommitAt:            signals.LastCommitAt,
		},
	}
	if repo.FullName == "" {
		repo.FullName = fullName
	}
	if req.Description != "" {
		repo.Description = req.Description
	}
	if req.ImageURL != "" {
		repo.ImageURL = req.ImageURL
	}
	if isVerified {
		repo.VerifiedAt = &now
	}

	if err := s.store.UpsertRepository(ctx, repo); err != nil {
		log.WithError(err).Error("Failed to upsert repository")
		return nil, err
	}

	if req.Actor != nil {
		role := models.RoleMaintainer
		if isVerified && details.Permissions.Admin {
			role = models.RoleOwner
		}
		if err := s.store.LinkRepository(ctx, req.Actor.ID, repo.ID, role); err != nil {
			log.WithError(err).Error("Failed to link repository to account")
			return nil, err
		}
	}

	s.appendSnapshot(ctx, log, repo.ID, details.StargazersCount, details.ForksCount, signals.ActiveContributors, score, signals.RecentCommits)

	log.WithFields(logrus.Fields{
		"score":    score,
		"verified": isVerified,
	}).Info("Repository ingested")

	return repo, nil
}

// fetchSignals gathers the activity window's raw signals. Each sub-fetch
// failure degrades that signal to zero so partial API availability (search
// rate-limited while commits succeed, for instance) never aborts ingestion.
func (s *Service) fetchSignals(ctx context.Context, owner, name, fullName, callerToken string) githubapi.Signals {
	since := s.now().Add(-activityWindow)
	log := s.logger.WithField("repository", fullName)

	commits, err := s.client.ListRecentCommits(ctx, owner, name, since, callerToken)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch recent commits, treating as zero")
		commits = nil
	}

	opened, err := s.client.CountPRsOpenedSince(ctx, fullName, since, callerToken)
	if err != nil {
		log.WithError(err).Warn("Failed to count opened PRs, treating as zero")
		opened = 0
	}

	merged, err := s.client.CountPRsMergedSince(ctx, fullName, since, callerToken)
	if err != nil {
		log.WithError(err).Warn("Failed to count merged PRs, treating as zero")
		merged = 0
	}

	return githubapi.Aggregate(commits, opened, merged)
}

func (s *Service) resolveOwnerDisplayName(ctx context.Context, login, callerToken string) string {
	user, err := s.client.GetUser(ctx, login, callerToken)
	if err != nil {
		s.logger.WithError(err).WithField("login", login).Warn("Failed to fetch owner profile, using login")
		return login
	}
	return user.DisplayName()
}

// appendSnapshot writes the history row after the record it describes. A
// failed append is logged but does not fail the run: the record is already
// committed and the chart tolerates a missing point.
func (s *Service) appendSnapshot(ctx context.Context, log *logrus.Entry, repoID int64, stars, forks, contributors int, score float64, commits int) {
	err := s.store.AppendSnapshot(ctx, &models.Snapshot{
		RepositoryID:       repoID,
		Stars:              stars,
		Forks:              forks,
		Contributors:       contributors,
		ActivityScore:      score,
		RecentCommitsCount: commits,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to append history snapshot")
	}
}

// SyncAll refreshes the popularity counters and display metadata of every
// tracked repository using only the service credential. Per-item failures
// are counted and do not abort the batch.
func (s *Service) SyncAll(ctx context.Context) (*SyncResult, error) {
	repos, err := s.store.ListRepositoriesForSync(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Total: len(repos)}
	if len(repos) == 0 {
		return result, nil
	}

	var success, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if err := s.syncOne(gctx, repo); err != nil {
				s.logger.WithError(err).WithField("repository", repo.FullName).Error("Failed to sync repository")
				failed.Add(1)
			} else {
				success.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	result.Success = int(success.Load())
	result.Failed = int(failed.Load())

	s.logger.WithFields(logrus.Fields{
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed,
	}).Info("Bulk sync completed")

	return result, nil
}

// syncOne refreshes one repository: details and owner display name only, no
// activity re-fetch. The metadata update lands before the history append.
func (s *Service) syncOne(ctx context.Context, repo *models.Repository) error {
	details, err := s.client.GetRepository(ctx, repo.Owner, repo.Name, "")
	if err != nil {
		return err
	}

	now := s.now()
	repo.Stars = details.StargazersCount
	repo.Forks = details.ForksCount
	repo.OpenIssuesCount = details.OpenIssuesCount
	repo.SubscribersCount = details.SubscribersCount
	repo.NetworkCount = details.NetworkCount
	repo.Description = details.Description
	repo.Language = details.Language
	repo.Homepage = details.Homepage
	repo.LicenseName = details.LicenseName()
	repo.Topics = details.Topics
	repo.OwnerAvatarURL = details.Owner.AvatarURL
	repo.OwnerGitHubID = details.Owner.ID
	repo.OwnerDisplayName = s.resolveOwnerDisplayName(ctx, details.Owner.Login, "")
	repo.LastSyncedAt = &now

	if err := s.store.UpdateRepositoryMetadata(ctx, repo); err != nil {
		return err
	}

	log := s.logger.WithField("repository", repo.FullName)
	s.appendSnapshot(ctx, log, repo.ID, repo.Stars, repo.Forks, repo.Activity.RecentContributorsCount, repo.Activity.Score, repo.Activity.RecentCommitsCount)

	return nil
}

// Run invokes SyncAll on a fixed interval until the context is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SyncAll(ctx); err != nil {
				s.logger.Errorf("Scheduled sync failed: %v", err)
			}
		case <-ctx.Done():
			s.logger.Info("Stopping sync scheduler")
			return
		}
	}
}

// UnlinkRepository removes the ownership link between the account and the
// repository, deleting the repository itself once no links remain.
func (s *Service) UnlinkRepository(ctx context.Context, userID, fullName string) error {
	repo, err := s.store.GetRepositoryByFullName(ctx, fullName)
	if err != nil {
		return err
	}

	deleted, err := s.store.UnlinkRepository(ctx, userID, repo.ID)
	if err != nil {
		return err
	}

	log := s.logger.WithFields(logrus.Fields{
		"repository": fullName,
		"user":       userID,
	})
	if deleted {
		log.Info("Repository unlinked and garbage-collected")
	} else {
		log.Info("Repository unlinked")
	}

	return nil
}

// GetRepository returns one tracked repository by natural key.
func (s *Service) GetRepository(ctx context.Context, fullName string) (*models.Repository, error) {
	return s.store.GetRepositoryByFullName(ctx, fullName)
}

// ListRepositories returns all tracked repositories ordered by score.
func (s *Service) ListRepositories(ctx context.Context) ([]*models.Repository, error) {
	return s.store.ListRepositories(ctx)
}

// History returns the repository's snapshots ordered by recording time.
func (s *Service) History(ctx context.Context, fullName string) ([]*models.Snapshot, error) {
	repo, err := s.store.GetRepositoryByFullName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	return s.store.ListSnapshots(ctx, repo.ID)
}
