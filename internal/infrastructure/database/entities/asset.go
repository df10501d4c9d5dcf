package entities

import (
	"time"

	"github.com/google/uuid"
)

// Asset is one ledger row per stored binary.
type Asset struct {
	ID              string    `gorm:"type:varchar(40);primaryKey"`
	VideoID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind            string    `gorm:"type:varchar(16);not null"`
	StorageProvider string    `gorm:"type:varchar(32);not null"`
	StorageKey      string    `gorm:"type:varchar(255);not null"`
	URL             string    `gorm:"not null"`
	DeclaredMIME    string    `gorm:"column:declared_mime;type:varchar(64);not null"`
	DetectedMIME    string    `gorm:"column:detected_mime;type:varchar(128)"`
	Bytes           int64     `gorm:"not null"`
	Sha256          string    `gorm:"type:char(64);not null"`
	Orientation     string    `gorm:"type:varchar(16)"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
