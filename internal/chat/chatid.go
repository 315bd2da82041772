// Package chat derives the canonical identifier of a two-party conversation.
// The identifier is the two participant ids joined smaller-first, so both
// orderings of the same pair always map to the same chat.
package chat

import (
	"strings"

	"github.com/murmurchat/murmur-backend/internal/apperrors"
)

const Delimiter = "_"

// ID returns the chat identifier for the pair (a, b). It is symmetric:
// ID(a, b) == ID(b, a). Empty participants and self-chat are rejected.
func ID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", apperrors.Validation("both participants are required")
	}
	if a == b {
		return "", apperrors.Validation("you cannot chat with yourself")
	}
	if a > b {
		a, b = b, a
	}
	return a + Delimiter + b, nil
}

// Parse splits a chat identifier back into its two participants.
func Parse(chatID string) (string, string, error) {
	parts := strings.Split(chatID, Delimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.Format("invalid chat id format")
	}
	if parts[0] == parts[1] {
		return "", "", apperrors.Validation("you cannot chat with yourself")
	}
	return parts[0], parts[1], nil
}

// Counterpart parses chatID and returns the participant that is not callerID.
// Callers that are not part of the chat get an authorization error, not a
// not-found, so probing for chat ids reveals nothing.
func Counterpart(callerID, chatID string) (string, error) {
	a, b, err := Parse(chatID)
	if err != nil {
		return "", err
	}
	switch callerID {
	case a:
		return b, nil
	case b:
		return a, nil
	default:
		return "", apperrors.Auth("you are not in this chat")
	}
}
