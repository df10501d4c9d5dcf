package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/domain/video"
)

// ErrThumbnailNotFound is returned when no thumbnail was registered for a video.
var ErrThumbnailNotFound = video.ErrThumbnailNotFound

// ThumbnailRegistry is a process-local thumbnail store keyed by video id.
// Entries are unbounded and the last writer wins.
type ThumbnailRegistry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]video.Thumbnail
	log     zerolog.Logger
}

func NewThumbnailRegistry(log zerolog.Logger) *ThumbnailRegistry {
	return &ThumbnailRegistry{
		entries: make(map[uuid.UUID]video.Thumbnail),
		log:     log.With().Str("component", "thumbnail-registry").Logger(),
	}
}

// Put stores a copy of the thumbnail, replacing any previous entry.
func (r *ThumbnailRegistry) Put(videoID uuid.UUID, thumbnail video.Thumbnail) {
	entry := video.Thumbnail{
		Data:        append([]byte(nil), thumbnail.Data...),
		ContentType: thumbnail.ContentType,
	}

	r.mu.Lock()
	_, replaced := r.entries[videoID]
	r.entries[videoID] = entry
	r.mu.Unlock()

	r.log.Debug().
		Str("video_id", videoID.String()).
		Int("bytes", len(entry.Data)).
		Bool("replaced", replaced).
		Msg("thumbnail registered")
}

// Get returns a copy of the entry for videoID.
func (r *ThumbnailRegistry) Get(videoID uuid.UUID) (video.Thumbnail, error) {
	r.mu.RLock()
	entry, ok := r.entries[videoID]
	r.mu.RUnlock()

	if !ok {
		return video.Thumbnail{}, ErrThumbnailNotFound
	}
	return video.Thumbnail{
		Data:        append([]byte(nil), entry.Data...),
		ContentType: entry.ContentType,
	}, nil
}

// Len reports the number of registered thumbnails.
func (r *ThumbnailRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
