package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/chat"
	"github.com/murmurchat/murmur-backend/internal/models"
)

type ChatService struct {
	users    UserStore
	messages MessageStore
	notifier Notifier
	log      *zap.Logger
}

func NewChatService(users UserStore, messages MessageStore, notifier Notifier, log *zap.Logger) *ChatService {
	return &ChatService{users: users, messages: messages, notifier: notifier, log: log}
}

// Counterpart is the profile of the other participant as shown in chat and
// conversation listings. It is nil when the user cannot be resolved.
type Counterpart struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	ImageURL string `json:"image"`
	Online   bool   `json:"status"`
}

// ConversationSummary describes one chat of a user through its most recent
// message.
type ConversationSummary struct {
	ChatID      string       `json:"id"`
	Counterpart *Counterpart `json:"other_user"`
	LastMessage string       `json:"last_message"`
	SenderID    string       `json:"sender"`
	SentAt      time.Time    `json:"updated_at"`
	Seen        bool         `json:"seen"`
}

type ChatView struct {
	ChatID      string           `json:"chat_id"`
	Counterpart *Counterpart     `json:"other_user"`
	Messages    []models.Message `json:"messages"`
}

// Send validates and appends a message. The chat identifier is derived from
// the pair once, at creation, and stored with the message.
func (s *ChatService) Send(senderID, receiverID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("message content is required")
	}
	chatID, err := chat.ID(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(receiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ChatID:     chatID,
		Content:    content,
	}
	if err := s.messages.SaveMessage(message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(receiverID, "message.new", message)
	}

	return message, nil
}

// Conversations lists the chats of a user, one entry per chat, most recently
// active first. A counterpart that cannot be resolved leaves the entry in
// place with nil profile fields instead of failing the whole listing.
func (s *ChatService) Conversations(userID string) ([]ConversationSummary, error) {
	latest, err := s.messages.LatestByChat(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(latest))
	for _, message := range latest {
		otherID := message.ReceiverID
		if otherID == userID {
			otherID = message.SenderID
		}

		summary := ConversationSummary{
			ChatID:      message.ChatID,
			LastMessage: message.Content,
			SenderID:    message.SenderID,
			SentAt:      message.SentAt,
			Seen:        message.Seen,
		}

		other, err := s.users.GetUser(otherID)
		if err != nil {
			s.log.Warn("counterpart did not resolve",
				zap.String("chat_id", message.ChatID),
				zap.String("user_id", otherID),
				zap.Error(err))
		} else {
			summary.Counterpart = counterpartOf(other)
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetChat returns the full history of a chat to one of its participants.
func (s *ChatService) GetChat(callerID, chatID string) (*ChatView, error) {
	otherID, err := chat.Counterpart(callerID, chatID)
	if err != nil {
		return nil, err
	}

	other, err := s.users.GetUser(otherID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.MessagesByChat(chatID)
	if err != nil {
		return nil, err
	}

	return &ChatView{
		ChatID:      chatID,
		Counterpart: counterpartOf(other),
		Messages:    messages,
	}, nil
}

// MarkSeen marks every message addressed to the caller in the chat as seen
// and returns the number of messages affected.
func (s *ChatService) MarkSeen(callerID, chatID string) (int64, error) {
	if _, err := chat.Counterpart(callerID, chatID); err != nil {
		return 0, err
	}
	return s.messages.MarkSeen(chatID, callerID)
}

func counterpartOf(user *models.User) *Counterpart {
	return &Counterpart{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		ImageURL: user.ImageURL,
		Online:   user.Online,
	}
}
