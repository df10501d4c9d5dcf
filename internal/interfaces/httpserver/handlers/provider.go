package handlers

import (
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
)

// Provider wires HTTP handlers.
type Provider struct {
	Videos     *VideoHandler
	Thumbnails *ThumbnailHandler
}

func NewProvider(cfg *config.Config, service *video.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Videos:     NewVideoHandler(cfg, service, log),
		Thumbnails: NewThumbnailHandler(cfg, service, log),
	}
}
