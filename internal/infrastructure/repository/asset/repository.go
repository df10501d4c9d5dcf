package asset

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/database/entities"
	"tubely/upload-api/internal/utils/platformerrors"
)

// Repository is the postgres asset ledger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, a *video.Asset) error {
	entity := entities.Asset{
		ID:              a.ID,
		VideoID:         a.VideoID,
		Kind:            string(a.Kind),
		StorageProvider: a.StorageProvider,
		StorageKey:      a.StorageKey,
		URL:             a.URL,
		DeclaredMIME:    a.DeclaredMIME,
		DetectedMIME:    a.DetectedMIME,
		Bytes:           a.Bytes,
		Sha256:          a.Sha256,
		Orientation:     a.Orientation,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to record asset", err, "7d2f9b4e-0a6c-4e31-b8d5-c1f3a7e9b260")
	}
	return nil
}

func (r *Repository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*video.Asset, error) {
	var rows []entities.Asset
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list assets", err, "b5a1e8c3-9d4f-4207-a6e2-3c8b0f5d7a19")
	}

	assets := make([]*video.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, &video.Asset{
			ID:              row.ID,
			VideoID:         row.VideoID,
			Kind:            video.AssetKind(row.Kind),
			StorageProvider: row.StorageProvider,
			StorageKey:      row.StorageKey,
			URL:             row.URL,
			DeclaredMIME:    row.DeclaredMIME,
			DetectedMIME:    row.DetectedMIME,
			Bytes:           row.Bytes,
			Sha256:          row.Sha256,
			Orientation:     row.Orientation,
			CreatedBy:       row.CreatedBy,
			CreatedAt:       row.CreatedAt,
		})
	}
	return assets, nil
}
