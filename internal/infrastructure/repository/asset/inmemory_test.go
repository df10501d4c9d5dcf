package asset

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/utils/assetid"
)

func TestInMemoryRepository_ListByVideo(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	target := uuid.New()

	for _, kind := range []video.AssetKind{video.AssetKindVideo, video.AssetKindThumbnail} {
		require.NoError(t, repo.Record(ctx, &video.Asset{ID: assetid.New(), VideoID: target, Kind: kind}))
	}
	require.NoError(t, repo.Record(ctx, &video.Asset{ID: assetid.New(), VideoID: uuid.New(), Kind: video.AssetKindVideo}))

	assets, err := repo.ListByVideo(ctx, target)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, video.AssetKindVideo, assets[0].Kind)
	assert.Equal(t, video.AssetKindThumbnail, assets[1].Kind)

	assets[0].StorageKey = "mutated"
	again, err := repo.ListByVideo(ctx, target)
	require.NoError(t, err)
	assert.Empty(t, again[0].StorageKey)

	none, err := repo.ListByVideo(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
