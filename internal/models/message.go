package models

import (
	"time"
)

type Message struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	SenderID   string    `gorm:"type:varchar(36);not null;index"`
	ReceiverID string    `gorm:"type:varchar(36);not null;index"`
	ChatID     string    `gorm:"size:80;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	SentAt     time.Time `gorm:"not null;index"`
	Seen       bool      `gorm:"not null;default:false"`
}
