package video

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/database/entities"
	"tubely/upload-api/internal/utils/platformerrors"
)

// Repository persists video records in postgres.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, v *domain.Video) error {
	entity := toEntity(v)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create video", err, "6a1e3c8f-2b7d-4f05-9c4a-e8d1b0f7a352")
	}
	v.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	var entity entities.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"video not found", err, "c8f4a2d1-7e3b-4c96-a0d5-1b9e6f2c7a84",
				map[string]any{"video_id": id.String()})
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get video", err, "1d7b5e9a-3f2c-4a68-b4e1-c0a7d9f3e516")
	}
	return toDomain(entity), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Video, error) {
	var rows []entities.Video
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list videos", err, "e2a9c6f0-8b4d-4175-9e3a-5f1c7d0b2a68")
	}

	videos := make([]*domain.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, toDomain(row))
	}
	return videos, nil
}

// Update overwrites the record when its stored version still equals v.Version.
func (r *Repository) Update(ctx context.Context, v *domain.Video) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("id = ? AND version = ?", v.ID, v.Version).
		Updates(map[string]any{
			"title":         v.Title,
			"description":   v.Description,
			"thumbnail_url": v.ThumbnailURL,
			"video_url":     v.VideoURL,
			"updated_at":    v.UpdatedAt,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update video", result.Error, "9f3d7a1b-5c0e-4e82-a6b9-2d4f8c1e0a73")
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return err
		}
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"video was modified by another request", domain.ErrVersionConflict, "3b8e0c5f-a1d7-4926-8f4c-7e2a9d6b1c05",
			map[string]any{"video_id": v.ID.String(), "version": v.Version})
	}
	v.Version++
	return nil
}

func toEntity(v *domain.Video) entities.Video {
	return entities.Video{
		ID:           v.ID,
		UserID:       v.UserID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
		VideoURL:     v.VideoURL,
		Version:      v.Version,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toDomain(entity entities.Video) *domain.Video {
	return &domain.Video{
		ID:           entity.ID,
		UserID:       entity.UserID,
		Title:        entity.Title,
		Description:  entity.Description,
		ThumbnailURL: entity.ThumbnailURL,
		VideoURL:     entity.VideoURL,
		Version:      entity.Version,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
