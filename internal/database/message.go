package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/murmurchat/murmur-backend/internal/models"
)

// SaveMessage persists a message, assigning the id and the server-side
// timestamp. Messages are immutable after this point except for the seen flag.
func (d *Database) SaveMessage(message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	return d.db.Create(message).Error
}

func (d *Database) MessagesByChat(chatID string) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("chat_id = ?", chatID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkSeen flips the seen flag on every unseen message in the chat addressed
// to receiverID and returns how many rows changed. Running it again is a
// no-op, so concurrent callers converge on the same state.
func (d *Database) MarkSeen(chatID, receiverID string) (int64, error) {
	res := d.db.Model(&models.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND seen = ?", chatID, receiverID, false).
		Update("seen", true)
	return res.RowsAffected, res.Error
}

// LatestByChat returns the most recent message of every chat the user takes
// part in, most recent chat first. Ties on sent_at fall back to the highest
// message id so the order is stable.
func (d *Database) LatestByChat(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.Raw(`
		SELECT m.* FROM (
			SELECT DISTINCT ON (chat_id) *
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			ORDER BY chat_id, sent_at DESC, id DESC
		) m
		ORDER BY m.sent_at DESC, m.id DESC`,
		userID, userID,
	).Scan(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
