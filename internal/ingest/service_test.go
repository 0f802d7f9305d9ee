package ingest

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/githubapi"
	"github.com/truststars/ingestd/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetRepositoryByFullName(ctx context.Context, fullName string) (*models.Repository, error) {
	args := m.Called(ctx, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repository), args.Error(1)
}

func (m *mockStore) ListRepositories(ctx context.Context) ([]*models.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Repository), args.Error(1)
}

func (m *mockStore) ListRepositoriesForSync(ctx context.Context) ([]*models.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Repository), args.Error(1)
}

func (m *mockStore) UpsertRepository(ctx context.Context, repo *models.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *mockStore) UpdateRepositoryMetadata(ctx context.Context, repo *models.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *mockStore) AppendSnapshot(ctx context.Context, snap *models.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *mockStore) ListSnapshots(ctx context.Context, repoID int64) ([]*models.Snapshot, error) {
	args := m.Called(ctx, repoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Snapshot), args.Error(1)
}

func (m *mockStore) UpsertUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockStore) LinkRepository(ctx context.Context, userID string, repoID int64, role string) error {
	args := m.Called(ctx, userID, repoID, role)
	return args.Error(0)
}

func (m *mockStore) UnlinkRepository(ctx context.Context, userID string, repoID int64) (bool, error) {
	args := m.Called(ctx, userID, repoID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) GetLink(ctx context.Context, userID string, repoID int64) (*models.RepositoryLink, error) {
	args := m.Called(ctx, userID, repoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RepositoryLink), args.Error(1)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetRepository(ctx context.Context, owner, name, callerToken string) (*githubapi.RepoDetails, error) {
	args := m.Called(ctx, owner, name, callerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*githubapi.RepoDetails), args.Error(1)
}

func (m *mockSource) GetUser(ctx context.Context, login, callerToken string) (*githubapi.UserDetails, error) {
	args := m.Called(ctx, login, callerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*githubapi.UserDetails), args.Error(1)
}

func (m *mockSource) ListRecentCommits(ctx context.Context, owner, name string, since time.Time, callerToken string) ([]githubapi.CommitEntry, error) {
	args := m.Called(ctx, owner, name, since, callerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]githubapi.CommitEntry), args.Error(1)
}

func (m *mockSource) CountPRsOpenedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error) {
	args := m.Called(ctx, fullName, since, callerToken)
	return args.Int(0), args.Error(1)
}

func (m *mockSource) CountPRsMergedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error) {
	args := m.Called(ctx, fullName, since, callerToken)
	return args.Int(0), args.Error(1)
}

func newTestService(source *mockSource, store *mockStore) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(source, store, logger, DefaultScoreConfig())
	svc.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func detailsFixture() *githubapi.RepoDetails {
	d := &githubapi.RepoDetails{
		ID:              42,
		Name:            "app",
		FullName:        "acme/app",
		Description:     "upstream description",
		Language:        "Go",
		Topics:          []string{"tooling"},
		StargazersCount: 120,
		ForksCount:      8,
	}
	d.Owner.Login = "acme"
	d.Owner.ID = 999
	d.Owner.AvatarURL = "https://avatars.example/acme"
	return d
}

func commitFixture(login string, at time.Time) githubapi.CommitEntry {
	var c githubapi.CommitEntry
	if login != "" {
		c.Author = &struct {
			Login string `json:"login"`
		}{Login: login}
	}
	c.Commit.Committer.Date = at
	return c
}

func TestIngestRepositoryHappyPath(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)
	now := svc.now()

	details := detailsFixture()
	details.Permissions = &struct {
		Admin    bool `json:"admin"`
		Maintain bool `json:"maintain"`
		Push     bool `json:"push"`
	}{Admin: true}

	source.On("GetRepository", mock.Anything, "acme", "app", "caller-token").Return(details, nil)
	source.On("GetUser", mock.Anything, "acme", "caller-token").Return(&githubapi.UserDetails{Login: "acme", Name: "Acme Inc"}, nil)
	source.On("ListRecentCommits", mock.Anything, "acme", "app", mock.Anything, "caller-token").
		Return([]githubapi.CommitEntry{
			commitFixture("alice", now.Add(-10*time.Hour)),
			commitFixture("bob", now.Add(-20*time.Hour)),
		}, nil)
	source.On("CountPRsOpenedSince", mock.Anything, "acme/app", mock.Anything, "caller-token").Return(1, nil)
	source.On("CountPRsMergedSince", mock.Anything, "acme/app", mock.Anything, "caller-token").Return(2, nil)

	store.On("UpsertUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "user-1" && u.GitHubUsername == "alice"
	})).Return(nil)
	store.On("UpsertRepository", mock.Anything, mock.MatchedBy(func(r *models.Repository) bool {
		return r.FullName == "acme/app" && r.Verified() && r.OwnerDisplayName == "Acme Inc"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Repository).ID = 7
	})
	store.On("LinkRepository", mock.Anything, "user-1", int64(7), models.RoleOwner).Return(nil)
	store.On("AppendSnapshot", mock.Anything, mock.MatchedBy(func(s *models.Snapshot) bool {
		return s.RepositoryID == 7 && s.Stars == 120 && s.Contributors == 2
	})).Return(nil)

	repo, err := svc.IngestRepository(context.Background(), IngestRequest{
		Ref:         "https://github.com/acme/app",
		CallerToken: "caller-token",
		Actor:       &Actor{ID: "user-1", GitHubUsername: "alice"},
	})

	require.NoError(t, err)
	assert.Equal(t, "acme/app", repo.FullName)
	assert.True(t, repo.Verified())
	// 2 contributors, 2 commits, 2 merged, 1 opened, boosted: (20+1+10+1)*1.2
	assert.Equal(t, 38.40, repo.Activity.Score)
	assert.Equal(t, 2, repo.Activity.RecentContributorsCount)

	store.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestIngestRepositoryInvalidRef(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	_, err := svc.IngestRepository(context.Background(), IngestRequest{Ref: "not a repo ref"})

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
	store.AssertNotCalled(t, "UpsertRepository", mock.Anything, mock.Anything)
}

func TestIngestRepositoryDetailsFetchFailureWritesNothing(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	source.On("GetRepository", mock.Anything, "acme", "gone", "").
		Return(nil, apperrors.NewNotFoundError("repository not found", nil))

	_, err := svc.IngestRepository(context.Background(), IngestRequest{Ref: "acme/gone"})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	store.AssertNotCalled(t, "UpsertRepository", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "AppendSnapshot", mock.Anything, mock.Anything)
}

func TestIngestRepositorySignalFailuresDegradeToZero(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	source.On("GetRepository", mock.Anything, "acme", "app", "").Return(detailsFixture(), nil)
	source.On("GetUser", mock.Anything, "acme", "").Return(nil, apperrors.NewTransientError("upstream error", nil))
	source.On("ListRecentCommits", mock.Anything, "acme", "app", mock.Anything, "").
		Return(nil, apperrors.NewRateLimitError("rate limited", nil))
	source.On("CountPRsOpenedSince", mock.Anything, "acme/app", mock.Anything, "").Return(0, apperrors.NewRateLimitError("rate limited", nil))
	source.On("CountPRsMergedSince", mock.Anything, "acme/app", mock.Anything, "").Return(3, nil)

	store.On("UpsertRepository", mock.Anything, mock.Anything).Return(nil)
	store.On("AppendSnapshot", mock.Anything, mock.Anything).Return(nil)

	repo, err := svc.IngestRepository(context.Background(), IngestRequest{Ref: "acme/app"})

	require.NoError(t, err)
	// Only merged PRs survived: 3 * 5, no multiplier without a last commit.
	assert.Equal(t, 15.0, repo.Activity.Score)
	assert.Equal(t, 0, repo.Activity.RecentCommitsCount)
	assert.Nil(t, repo.Activity.LastCommitAt)
	// Owner display name falls back to the login.
	assert.Equal(t, "acme", repo.OwnerDisplayName)
	// Anonymous ingestion never verifies.
	assert.False(t, repo.Verified())
}

func TestIngestRepositoryOverridesAndMaintainerRole(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	details := detailsFixture()
	details.Permissions = &struct {
		Admin    bool `json:"admin"`
		Maintain bool `json:"maintain"`
		Push     bool `json:"push"`
	}{Maintain: true}

	source.On("GetRepository", mock.Anything, "acme", "app", "tok").Return(details, nil)
	source.On("GetUser", mock.Anything, "acme", "tok").Return(&githubapi.UserDetails{Login: "acme"}, nil)
	source.On("ListRecentCommits", mock.Anything, "acme", "app", mock.Anything, "tok").Return([]githubapi.CommitEntry{}, nil)
	source.On("CountPRsOpenedSince", mock.Anything, "acme/app", mock.Anything, "tok").Return(0, nil)
	source.On("CountPRsMergedSince", mock.Anything, "acme/app", mock.Anything, "tok").Return(0, nil)

	store.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)
	store.On("UpsertRepository", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Repository).ID = 11
	})
	store.On("LinkRepository", mock.Anything, "user-2", int64(11), models.RoleMaintainer).Return(nil)
	store.On("AppendSnapshot", mock.Anything, mock.Anything).Return(nil)

	repo, err := svc.IngestRepository(context.Background(), IngestRequest{
		Ref:         "acme/app",
		CallerToken: "tok",
		Description: "custom blurb",
		ImageURL:    "https://img.example/logo.png",
		Actor:       &Actor{ID: "user-2", GitHubUsername: "bob"},
	})

	require.NoError(t, err)
	assert.Equal(t, "custom blurb", repo.Description)
	assert.Equal(t, "https://img.example/logo.png", repo.ImageURL)
	assert.True(t, repo.Verified())
	store.AssertExpectations(t)
}

func TestSyncAllCountsPerItemFailures(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	tracked := []*models.Repository{
		{ID: 1, FullName: "acme/one", Owner: "acme", Name: "one"},
		{ID: 2, FullName: "acme/two", Owner: "acme", Name: "two"},
		{ID: 3, FullName: "acme/gone", Owner: "acme", Name: "gone"},
	}
	store.On("ListRepositoriesForSync", mock.Anything).Return(tracked, nil)

	for _, name := range []string{"one", "two"} {
		source.On("GetRepository", mock.Anything, "acme", name, "").Return(detailsFixture(), nil)
	}
	source.On("GetRepository", mock.Anything, "acme", "gone", "").
		Return(nil, apperrors.NewNotFoundError("repository not found", nil))
	source.On("GetUser", mock.Anything, "acme", "").Return(&githubapi.UserDetails{Login: "acme"}, nil)

	store.On("UpdateRepositoryMetadata", mock.Anything, mock.Anything).Return(nil)
	store.On("AppendSnapshot", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.SyncAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	store.AssertNumberOfCalls(t, "UpdateRepositoryMetadata", 2)
	store.AssertNumberOfCalls(t, "AppendSnapshot", 2)
}

func TestSyncAllEmpty(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	store.On("ListRepositoriesForSync", mock.Anything).Return([]*models.Repository{}, nil)

	result, err := svc.SyncAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SyncResult{}, result)
	source.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAllPreservesActivityBlock(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	tracked := []*models.Repository{{
		ID: 1, FullName: "acme/app", Owner: "acme", Name: "app",
		Activity: models.ActivityStats{Score: 38.4, RecentContributorsCount: 2, RecentCommitsCount: 9},
	}}
	store.On("ListRepositoriesForSync", mock.Anything).Return(tracked, nil)
	source.On("GetRepository", mock.Anything, "acme", "app", "").Return(detailsFixture(), nil)
	source.On("GetUser", mock.Anything, "acme", "").Return(&githubapi.UserDetails{Login: "acme"}, nil)

	store.On("UpdateRepositoryMetadata", mock.Anything, mock.MatchedBy(func(r *models.Repository) bool {
		// Metadata refreshed, activity untouched.
		return r.Stars == 120 && r.Activity.Score == 38.4
	})).Return(nil)
	store.On("AppendSnapshot", mock.Anything, mock.MatchedBy(func(s *models.Snapshot) bool {
		return s.Contributors == 2 && s.ActivityScore == 38.4 && s.Stars == 120
	})).Return(nil)

	_, err := svc.SyncAll(context.Background())

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUnlinkRepository(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	store.On("GetRepositoryByFullName", mock.Anything, "acme/app").
		Return(&models.Repository{ID: 5, FullName: "acme/app"}, nil)
	store.On("UnlinkRepository", mock.Anything, "user-1", int64(5)).Return(true, nil)

	err := svc.UnlinkRepository(context.Background(), "user-1", "acme/app")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUnlinkRepositoryUnknownRepo(t *testing.T) {
	source := new(mockSource)
	store := new(mockStore)
	svc := newTestService(source, store)

	store.On("GetRepositoryByFullName", mock.Anything, "acme/missing").
		Return(nil, apperrors.NewNotFoundError("repository not found", nil))

	err := svc.UnlinkRepository(context.Background(), "user-1", "acme/missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	store.AssertNotCalled(t, "UnlinkRepository", mock.Anything, mock.Anything, mock.Anything)
}
