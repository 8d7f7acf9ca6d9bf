package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/autsoft/hwsw-jobs/internal/jobsapi"
	"github.com/autsoft/hwsw-jobs/internal/models"
	"github.com/autsoft/hwsw-jobs/internal/repository"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) ListPositions(ctx context.Context, opts jobsapi.ListOptions) ([]models.Position, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Position), args.Error(1)
}

func (m *MockRemote) GetPosition(ctx context.Context, id string) (*models.Position, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Position), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Upsert(ctx context.Context, id, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *MockCache) Get(ctx context.Context, id string) (string, bool, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Bool(1), args.Error(2)
}

func strPtr(s string) *string { return &s }

func position123() *models.Position {
	return &models.Position{
		ID:          "123",
		Title:       "Go Developer",
		Company:     "AutSoft",
		Location:    "Budapest",
		CompanyLogo: strPtr("http://logo.example/a.png"),
		URL:         "http://apply.example/123",
	}
}

func TestToHTTPS(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"absent", nil, nil},
		{"http", strPtr("http://x"), strPtr("https://x")},
		{"already https", strPtr("https://x"), strPtr("https://x")},
		{"no scheme", strPtr("x/http://y"), strPtr("x/http://y")},
		{"empty", strPtr(""), strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHTTPS(tt.in)
			assert.Equal(t, tt.want, got)
			// idempotent
			assert.Equal(t, got, ToHTTPS(got))
		})
	}
}

func TestToHTTPS_DoesNotMutateInput(t *testing.T) {
	in := strPtr("http://x")
	_ = ToHTTPS(in)
	assert.Equal(t, "http://x", *in)
}

func TestResolveApplyURL_MissFetchesAndSaves(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)

	cache.On("Get", mock.Anything, "123").Return("", false, nil).Once()
	remote.On("GetPosition", mock.Anything, "123").Return(position123(), nil).Once()
	cache.On("Upsert", mock.Anything, "123", "http://apply.example/123").Return(nil).Once()

	i := NewInteractor(remote, cache, nil)
	url, err := i.ResolveApplyURL(context.Background(), "123")

	require.NoError(t, err)
	assert.Equal(t, "http://apply.example/123", url, "apply url is not https-normalized")
	remote.AssertNumberOfCalls(t, "GetPosition", 1)
	cache.AssertNumberOfCalls(t, "Upsert", 1)
	cache.AssertExpectations(t)
}

func TestResolveApplyURL_HitSkipsNetwork(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)

	cache.On("Get", mock.Anything, "123").Return("http://cached", true, nil)

	i := NewInteractor(remote, cache, nil)
	url, err := i.ResolveApplyURL(context.Background(), "123")

	require.NoError(t, err)
	assert.Equal(t, "http://cached", url)
	remote.AssertNotCalled(t, "GetPosition", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveApplyURL_CacheErrorFallsThrough(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)

	cache.On("Get", mock.Anything, "123").Return("", false, errors.New("disk on fire"))
	remote.On("GetPosition", mock.Anything, "123").Return(position123(), nil)
	cache.On("Upsert", mock.Anything, "123", "http://apply.example/123").Return(errors.New("still on fire"))

	i := NewInteractor(remote, cache, nil)
	url, err := i.ResolveApplyURL(context.Background(), "123")

	require.NoError(t, err, "cache failures must not fail the lookup")
	assert.Equal(t, "http://apply.example/123", url)
}

func TestResolveApplyURL_NotFound(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)

	cache.On("Get", mock.Anything, "nope").Return("", false, nil)
	remote.On("GetPosition", mock.Anything, "nope").Return(nil, jobsapi.ErrNotFound)

	i := NewInteractor(remote, cache, nil)
	_, err := i.ResolveApplyURL(context.Background(), "nope")

	assert.ErrorIs(t, err, jobsapi.ErrNotFound)
	cache.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveApplyURL_NetworkError(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)

	cache.On("Get", mock.Anything, "123").Return("", false, nil)
	remote.On("GetPosition", mock.Anything, "123").
		Return(nil, &jobsapi.NetworkError{Op: "get position", StatusCode: 503})

	i := NewInteractor(remote, cache, nil)
	_, err := i.ResolveApplyURL(context.Background(), "123")

	assert.True(t, jobsapi.IsNetworkError(err))
	remote.AssertNumberOfCalls(t, "GetPosition", 1)
}

func TestResolveApplyURL_NoCacheAlwaysFetches(t *testing.T) {
	remote := new(MockRemote)
	remote.On("GetPosition", mock.Anything, "123").Return(position123(), nil)

	i := NewInteractor(remote, nil, nil)
	for n := 0; n < 2; n++ {
		url, err := i.ResolveApplyURL(context.Background(), "123")
		require.NoError(t, err)
		assert.Equal(t, "http://apply.example/123", url)
	}
	remote.AssertNumberOfCalls(t, "GetPosition", 2)
}

func TestResolveApplyURL_MissThenHitWithSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:resolve?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, db.AutoMigrate(&models.JobURL{}))

	repo := repository.NewJobURLsRepository(db)
	remote := new(MockRemote)
	remote.On("GetPosition", mock.Anything, "123").Return(position123(), nil).Once()

	i := NewInteractor(remote, repo, nil)
	ctx := context.Background()

	first, err := i.ResolveApplyURL(ctx, "123")
	require.NoError(t, err)
	second, err := i.ResolveApplyURL(ctx, "123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	remote.AssertNumberOfCalls(t, "GetPosition", 1)

	url, ok, err := repo.Get(ctx, "123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://apply.example/123", url)
}

func TestListAllJobs_NormalizesLogosInOrder(t *testing.T) {
	remote := new(MockRemote)
	remote.On("ListPositions", mock.Anything, jobsapi.ListOptions{Search: "go"}).Return([]models.Position{
		{ID: "b", Title: "B", CompanyLogo: strPtr("http://logo/b")},
		{ID: "a", Title: "A"},
		{ID: "c", Title: "C", CompanyLogo: strPtr("https://logo/c")},
	}, nil)

	i := NewInteractor(remote, nil, nil)
	listings, err := i.ListAllJobs(context.Background(), jobsapi.ListOptions{Search: "go"})
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, []string{"b", "a", "c"}, []string{listings[0].ID, listings[1].ID, listings[2].ID})
	assert.Equal(t, "https://logo/b", *listings[0].CompanyLogo)
	assert.Nil(t, listings[1].CompanyLogo)
	assert.Equal(t, "https://logo/c", *listings[2].CompanyLogo)
}

func TestListAllJobs_Error(t *testing.T) {
	remote := new(MockRemote)
	remote.On("ListPositions", mock.Anything, mock.Anything).Return(nil, &jobsapi.NetworkError{Op: "list", Err: errors.New("boom")})

	i := NewInteractor(remote, nil, nil)
	_, err := i.ListAllJobs(context.Background(), jobsapi.ListOptions{})
	assert.True(t, jobsapi.IsNetworkError(err))
}

func TestFetchJobDetails_DoesNotTouchCache(t *testing.T) {
	remote := new(MockRemote)
	cache := new(MockCache)
	remote.On("GetPosition", mock.Anything, "123").Return(position123(), nil)

	i := NewInteractor(remote, cache, nil)
	d, err := i.FetchJobDetails(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "https://logo.example/a.png", *d.CompanyLogo)
	assert.Equal(t, "http://apply.example/123", d.URL)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
