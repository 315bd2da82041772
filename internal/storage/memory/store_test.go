package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/models"
)

func TestSaveUser_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	req.NoError(store.SaveUser(&models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}))

	err := store.SaveUser(&models.User{ID: "u2", Username: "impostor", Email: "alice@example.com"})
	req.Error(err)
	req.Equal(apperrors.KindConflict, apperrors.KindOf(err))
}

func TestMessagesByChat_OrderedBySentAt(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	for _, content := range []string{"first", "second", "third"} {
		req.NoError(store.SaveMessage(&models.Message{
			SenderID: "u1", ReceiverID: "u2", ChatID: "u1_u2", Content: content,
		}))
	}

	msgs, err := store.MessagesByChat("u1_u2")
	req.NoError(err)
	req.Len(msgs, 3)
	req.Equal("first", msgs[0].Content)
	req.Equal("third", msgs[2].Content)
	for i := 1; i < len(msgs); i++ {
		req.False(msgs[i].SentAt.Before(msgs[i-1].SentAt))
	}
	req.NotEmpty(msgs[0].ID)
	req.False(msgs[0].SentAt.IsZero())
}

func TestMessagesByChat_EmptyChat(t *testing.T) {
	req := require.New(t)

	msgs, err := NewStore().MessagesByChat("u1_u2")
	req.NoError(err)
	req.Empty(msgs)
}

func TestMarkSeen_Idempotent(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	req.NoError(store.SaveMessage(&models.Message{SenderID: "u1", ReceiverID: "u2", ChatID: "u1_u2", Content: "hi"}))
	req.NoError(store.SaveMessage(&models.Message{SenderID: "u1", ReceiverID: "u2", ChatID: "u1_u2", Content: "there"}))
	req.NoError(store.SaveMessage(&models.Message{SenderID: "u2", ReceiverID: "u1", ChatID: "u1_u2", Content: "hello"}))

	affected, err := store.MarkSeen("u1_u2", "u2")
	req.NoError(err)
	req.EqualValues(2, affected)

	affected, err = store.MarkSeen("u1_u2", "u2")
	req.NoError(err)
	req.EqualValues(0, affected)

	msgs, err := store.MessagesByChat("u1_u2")
	req.NoError(err)
	for _, m := range msgs {
		req.Equal(m.ReceiverID == "u2", m.Seen)
	}
}

func TestLatestByChat_OnePerChatMostRecentFirst(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	req.NoError(store.SaveMessage(&models.Message{SenderID: "u1", ReceiverID: "u2", ChatID: "u1_u2", Content: "old"}))
	req.NoError(store.SaveMessage(&models.Message{SenderID: "u2", ReceiverID: "u1", ChatID: "u1_u2", Content: "newer"}))
	req.NoError(store.SaveMessage(&models.Message{SenderID: "u3", ReceiverID: "u1", ChatID: "u1_u3", Content: "latest overall"}))

	latest, err := store.LatestByChat("u1")
	req.NoError(err)
	req.Len(latest, 2)
	req.Equal("u1_u3", latest[0].ChatID)
	req.Equal("latest overall", latest[0].Content)
	req.Equal("newer", latest[1].Content)

	// u2 only takes part in one chat.
	latest, err = store.LatestByChat("u2")
	req.NoError(err)
	req.Len(latest, 1)
}

func TestLatestByChat_TieBreaksOnID(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req.NoError(store.SaveMessage(&models.Message{ID: "a", SenderID: "u1", ReceiverID: "u2", ChatID: "u1_u2", Content: "tie a", SentAt: at}))
	req.NoError(store.SaveMessage(&models.Message{ID: "b", SenderID: "u2", ReceiverID: "u1", ChatID: "u1_u2", Content: "tie b", SentAt: at}))

	latest, err := store.LatestByChat("u1")
	req.NoError(err)
	req.Len(latest, 1)
	req.Equal("b", latest[0].ID)
}
