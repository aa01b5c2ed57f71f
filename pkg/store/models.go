package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID          string `gorm:"primaryKey"`
	PhoneNumber string `gorm:"uniqueIndex;not null"`
	Name        string
	IsActive    bool           `gorm:"not null;default:true"`
	Preferences datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time
}

type VideoRequestModel struct {
	ID          string         `gorm:"primaryKey"`
	UserID      string         `gorm:"not null;index"`
	Subject     string         `gorm:"not null;index"`
	Topic       string         `gorm:"not null"`
	Level       string         `gorm:"not null"`
	Query       string         `gorm:"type:text"`
	Status      string         `gorm:"not null;index"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null;index"`
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type VideoModel struct {
	ID          string         `gorm:"primaryKey"`
	RequestID   string         `gorm:"not null;uniqueIndex"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"type:text"`
	StorageURL  string         `gorm:"not null"`
	Duration    int
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null"`
}
