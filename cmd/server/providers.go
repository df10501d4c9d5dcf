package main

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/database"
	"tubely/upload-api/internal/infrastructure/probe"
	assetrepo "tubely/upload-api/internal/infrastructure/repository/asset"
	videorepo "tubely/upload-api/internal/infrastructure/repository/video"
	"tubely/upload-api/internal/infrastructure/storage"
	"tubely/upload-api/internal/infrastructure/store"
	"tubely/upload-api/internal/interfaces/httpserver"
)

// provideDatabase connects and migrates postgres. It returns a nil handle when
// no DSN is configured so the in-memory repositories take over.
func provideDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	if !cfg.HasDatabase() {
		log.Warn().Msg("DB_POSTGRESQL_WRITE_DSN is not set; records are kept in memory")
		return nil, nil
	}
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideVideoRepository(db *gorm.DB) video.Repository {
	if db == nil {
		return videorepo.NewInMemoryRepository()
	}
	return videorepo.NewRepository(db)
}

func provideAssetLedger(db *gorm.DB) video.AssetLedger {
	if db == nil {
		return assetrepo.NewInMemoryRepository()
	}
	return assetrepo.NewRepository(db)
}

// provideStores sends videos to the object store and thumbnails to the
// backend picked by THUMBNAIL_STORAGE.
func provideStores(cfg *config.Config, s3 *storage.S3Storage, local *storage.LocalStorage) video.Stores {
	stores := video.Stores{Videos: s3, Thumbnails: local}
	if cfg.ThumbnailStorage == storage.ProviderS3 {
		stores.Thumbnails = s3
	}
	return stores
}

func provideProber(cfg *config.Config, log zerolog.Logger) video.MetadataProber {
	if _, err := exec.LookPath(cfg.FFProbePath); err != nil {
		log.Warn().Err(err).Str("path", cfg.FFProbePath).Msg("ffprobe not found; video uploads will fail")
	}
	return probe.NewFFProbe(cfg, log)
}

func provideThumbnailRegistry(log zerolog.Logger) video.ThumbnailRegistry {
	return store.NewThumbnailRegistry(log)
}

func provideHealthChecks(s3 *storage.S3Storage, local *storage.LocalStorage) httpserver.HealthChecks {
	return httpserver.HealthChecks{
		storage.ProviderS3:    s3,
		storage.ProviderLocal: local,
	}
}
