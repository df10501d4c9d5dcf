package video

import "errors"

var (
	// ErrProbeFailed means the media prober exited non-zero or timed out.
	ErrProbeFailed = errors.New("media probe failed")
	// ErrMetadataUnavailable means the prober succeeded but reported no usable geometry.
	ErrMetadataUnavailable = errors.New("video metadata unavailable")
	// ErrStorageFailure wraps any asset backend error.
	ErrStorageFailure = errors.New("asset storage failure")
	// ErrThumbnailNotFound is returned by a registry without an entry for the video.
	ErrThumbnailNotFound = errors.New("thumbnail not found")
	// ErrVersionConflict is returned by a repository when the stored version moved on.
	ErrVersionConflict = errors.New("video record was modified concurrently")
)
