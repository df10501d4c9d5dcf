package video

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/utils/platformerrors"
)

func seed(t *testing.T, repo *InMemoryRepository, owner uuid.UUID) *domain.Video {
	t.Helper()
	v := &domain.Video{ID: uuid.New(), UserID: owner, Title: "clip", Version: 1, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), v))
	return v
}

func TestInMemoryRepository_GetByID(t *testing.T) {
	repo := NewInMemoryRepository()
	v := seed(t, repo, uuid.New())

	got, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Title, got.Title)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestInMemoryRepository_UpdateChecksVersion(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	v := seed(t, repo, uuid.New())

	first, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)

	url := "https://cdn.example/landscape/a.mp4"
	first.VideoURL = &url
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	other := "https://cdn.example/landscape/b.mp4"
	second.VideoURL = &other
	err = repo.Update(ctx, second)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	stored, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, url, *stored.VideoURL, "first writer is kept")
}

func TestInMemoryRepository_ConcurrentUpdatesOneWins(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	v := seed(t, repo, uuid.New())

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		loaded, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		wg.Add(1)
		go func(loaded *domain.Video) {
			defer wg.Done()
			if repo.Update(ctx, loaded) == nil {
				wins.Add(1)
			}
		}(loaded)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	v := seed(t, repo, uuid.New())

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip", again.Title)
}

func TestInMemoryRepository_ListByUser(t *testing.T) {
	repo := NewInMemoryRepository()
	owner := uuid.New()
	seed(t, repo, owner)
	seed(t, repo, owner)
	seed(t, repo, uuid.New())

	videos, err := repo.ListByUser(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}
