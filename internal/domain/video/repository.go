package video

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository exposes data access for video records.
type Repository interface {
	Create(ctx context.Context, v *Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*Video, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Video, error)
	// Update overwrites the whole record when v.Version matches the stored
	// version, then bumps v.Version. A mismatch fails with ErrVersionConflict.
	Update(ctx context.Context, v *Video) error
}

// AssetStore persists binary assets and returns the URL they are served from.
type AssetStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Provider() string
}

// MetadataProber reads the primary video stream geometry of a file on disk.
type MetadataProber interface {
	Probe(ctx context.Context, path string) (StreamGeometry, error)
}

// ThumbnailRegistry keeps thumbnails in process memory keyed by video.
type ThumbnailRegistry interface {
	Put(videoID uuid.UUID, thumbnail Thumbnail)
	Get(videoID uuid.UUID) (Thumbnail, error)
}

// AssetLedger records every asset written to a backend.
type AssetLedger interface {
	Record(ctx context.Context, asset *Asset) error
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*Asset, error)
}

// Stores groups the backends per asset kind.
type Stores struct {
	Videos     AssetStore
	Thumbnails AssetStore
}
