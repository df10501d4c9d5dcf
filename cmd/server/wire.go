//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/auth"
	"tubely/upload-api/internal/infrastructure/storage"
	"tubely/upload-api/internal/interfaces/httpserver"
)

var storageSet = wire.NewSet(
	storage.NewS3Storage,
	storage.NewLocalStorage,
	provideStores,
	provideHealthChecks,
)

var videoSet = wire.NewSet(
	provideDatabase,
	provideVideoRepository,
	provideAssetLedger,
	provideProber,
	provideThumbnailRegistry,
	video.NewService,
)

// BuildApplication assembles the upload API with Wire.
func BuildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(
		auth.NewValidator,
		storageSet,
		videoSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
