package responses

import (
	"tubely/upload-api/internal/domain/video"
)

// ListResponse wraps collection payloads.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Object: "list", Data: items}
}

// VideoList is the swagger name of a list of video records.
type VideoList = ListResponse[*video.Video]

// AssetList is the swagger name of a list of ledger entries.
type AssetList = ListResponse[*video.Asset]

// CreateVideoRequest is the body of POST /videos.
type CreateVideoRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}
