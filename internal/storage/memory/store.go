// Package memory is an in-process store with the same surface as the
// database package. It backs tests and lets the server run without Postgres.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
	"github.com/murmurchat/murmur-backend/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User       // userID -> user
	emails   map[string]string             // email -> userID
	messages map[string][]*models.Message  // chatID -> messages in insertion order
	byUser   map[string]map[string]struct{} // userID -> set of chatIDs
	lastSent time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		emails:   make(map[string]string),
		messages: make(map[string][]*models.Message),
		byUser:   make(map[string]map[string]struct{}),
	}
}

func (s *Store) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[user.Email]; taken {
		return apperrors.Conflict("email is already registered")
	}
	cp := *user
	s.users[cp.ID] = &cp
	s.emails[cp.Email] = cp.ID
	return nil
}

func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *user
	return &cp, nil
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[email]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) SearchUsers(query, excludeID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var result []models.User
	for _, user := range s.users {
		if user.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(user.Username), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (s *Store) SetOnline(id string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	user.Online = online
	return nil
}

func (s *Store) SaveMessage(message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		// Keep timestamps strictly increasing per insertion so ordering
		// never depends on clock resolution.
		now := time.Now().UTC()
		if !now.After(s.lastSent) {
			now = s.lastSent.Add(time.Nanosecond)
		}
		message.SentAt = now
	}
	if message.SentAt.After(s.lastSent) {
		s.lastSent = message.SentAt
	}
	cp := *message
	s.messages[cp.ChatID] = append(s.messages[cp.ChatID], &cp)
	for _, id := range []string{cp.SenderID, cp.ReceiverID} {
		if s.byUser[id] == nil {
			s.byUser[id] = make(map[string]struct{})
		}
		s.byUser[id][cp.ChatID] = struct{}{}
	}
	return nil
}

func (s *Store) MessagesByChat(chatID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]models.Message, 0, len(s.messages[chatID]))
	for _, m := range s.messages[chatID] {
		msgs = append(msgs, *m)
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].SentAt.Equal(msgs[j].SentAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].SentAt.Before(msgs[j].SentAt)
	})
	return msgs, nil
}

func (s *Store) MarkSeen(chatID, receiverID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, m := range s.messages[chatID] {
		if m.ReceiverID == receiverID && !m.Seen {
			m.Seen = true
			affected++
		}
	}
	return affected, nil
}

func (s *Store) LatestByChat(userID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest []models.Message
	for chatID := range s.byUser[userID] {
		var rep *models.Message
		for _, m := range s.messages[chatID] {
			if rep == nil || m.SentAt.After(rep.SentAt) ||
				(m.SentAt.Equal(rep.SentAt) && m.ID > rep.ID) {
				rep = m
			}
		}
		if rep != nil {
			latest = append(latest, *rep)
		}
	}
	sort.Slice(latest, func(i, j int) bool {
		if latest[i].SentAt.Equal(latest[j].SentAt) {
			return latest[i].ID > latest[j].ID
		}
		return latest[i].SentAt.After(latest[j].SentAt)
	})
	return latest, nil
}
