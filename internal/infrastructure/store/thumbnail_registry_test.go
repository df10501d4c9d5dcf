package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/upload-api/internal/domain/video"
)

func TestThumbnailRegistry_PutGet(t *testing.T) {
	registry := NewThumbnailRegistry(zerolog.Nop())
	id := uuid.New()

	_, err := registry.Get(id)
	assert.ErrorIs(t, err, ErrThumbnailNotFound)

	data := []byte("png-bytes")
	registry.Put(id, video.Thumbnail{Data: data, ContentType: "image/png"})
	data[0] = 'X'

	got, err := registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got.Data), "registry must keep its own copy")
	assert.Equal(t, "image/png", got.ContentType)

	got.Data[0] = 'Y'
	again, err := registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(again.Data))
}

func TestThumbnailRegistry_LastWriterWins(t *testing.T) {
	registry := NewThumbnailRegistry(zerolog.Nop())
	id := uuid.New()

	registry.Put(id, video.Thumbnail{Data: []byte("first"), ContentType: "image/png"})
	registry.Put(id, video.Thumbnail{Data: []byte("second"), ContentType: "image/jpeg"})

	got, err := registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got.Data))
	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, 1, registry.Len())
}

func TestThumbnailRegistry_Concurrent(t *testing.T) {
	registry := NewThumbnailRegistry(zerolog.Nop())
	ids := make([]uuid.UUID, 16)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			registry.Put(id, video.Thumbnail{Data: []byte{byte(i)}, ContentType: "image/png"})
			_, _ = registry.Get(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(ids), registry.Len())
}
