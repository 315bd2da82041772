package services

import (
	"github.com/murmurchat/murmur-backend/internal/models"
)

// UserStore and MessageStore are satisfied by both the database package and
// the in-memory store.

type UserStore interface {
	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	SearchUsers(query, excludeID string) ([]models.User, error)
	SetOnline(id string, online bool) error
}

type MessageStore interface {
	SaveMessage(message *models.Message) error
	MessagesByChat(chatID string) ([]models.Message, error)
	MarkSeen(chatID, receiverID string) (int64, error)
	LatestByChat(userID string) ([]models.Message, error)
}

// Notifier pushes best-effort events to connected clients. A nil Notifier is
// allowed; delivery is never guaranteed either way.
type Notifier interface {
	Notify(userID, eventType string, data interface{})
}
