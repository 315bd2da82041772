package models

import (
	"time"
)

type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Username     string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	ImageURL     string `gorm:"type:text"`
	Online       bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
}
