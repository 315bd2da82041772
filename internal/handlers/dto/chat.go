package dto

import (
	"time"
)

type SendMessageRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type ChatRequest struct {
	ChatID string `json:"chat_id" binding:"required"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

type MessageResponse struct {
	ID       string    `json:"id"`
	Sender   string    `json:"sender"`
	Receiver string    `json:"receiver"`
	ChatID   string    `json:"chat_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	Seen     bool      `json:"seen"`
}
