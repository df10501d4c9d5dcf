package video

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Video is a video record owned by a single user.
type Video struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	VideoURL     *string   `json:"video_url"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateParams describes a new video draft.
type CreateParams struct {
	UserID      uuid.UUID
	Title       string
	Description string
}

// Upload is the transient asset of one request.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// StreamGeometry is the frame size of the primary video stream.
type StreamGeometry struct {
	Width  int
	Height int
}

// Thumbnail is a registry entry.
type Thumbnail struct {
	Data        []byte
	ContentType string
}

// AssetKind distinguishes ledger entries.
type AssetKind string

const (
	AssetKindVideo     AssetKind = "video"
	AssetKindThumbnail AssetKind = "thumbnail"
)

// Asset records one binary written to a storage backend.
type Asset struct {
	ID              string    `json:"id"`
	VideoID         uuid.UUID `json:"video_id"`
	Kind            AssetKind `json:"kind"`
	StorageProvider string    `json:"storage_provider"`
	StorageKey      string    `json:"storage_key"`
	URL             string    `json:"url"`
	DeclaredMIME    string    `json:"declared_mime"`
	DetectedMIME    string    `json:"detected_mime"`
	Bytes           int64     `json:"bytes"`
	Sha256          string    `json:"sha256"`
	Orientation     string    `json:"orientation,omitempty"`
	CreatedBy       uuid.UUID `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}
