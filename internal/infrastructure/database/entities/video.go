package entities

import (
	"time"

	"github.com/google/uuid"
)

// Video is the persisted video record.
type Video struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"not null"`
	Description  string    `gorm:"not null;default:''"`
	ThumbnailURL *string
	VideoURL     *string
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time
}

func (Video) TableName() string {
	return "videos"
}
