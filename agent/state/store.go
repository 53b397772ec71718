package state

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidSession = errors.New("session id is empty")

const (
	defaultStoreKeyPrefix = "coach:session:"
	defaultStoreTTL       = 24 * time.Hour
	defaultMaxHistory     = 10
)

// Store is the session persistence contract used by the orchestrator.
// Load returns an empty history for unknown or expired ids, never an error.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Save(ctx context.Context, sessionID string, messages []Message) error
	Delete(ctx context.Context, sessionID string) error
}

// StoreOption customizes RedisStore.
type StoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *RedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithMaxHistory(max int) StoreOption {
	return func(s *RedisStore) {
		if max > 0 {
			s.maxHistory = max
		}
	}
}

// storedMessage is the persisted session layout: an ordered JSON array of
// {role, content} pairs under the prefixed session key.
type storedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func encodeMessages(messages []Message) []storedMessage {
	out := make([]storedMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, storedMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func decodeMessages(stored []storedMessage) []Message {
	out := make([]Message, 0, len(stored))
	for _, m := range stored {
		out = append(out, Message{Role: Role(m.Role), Content: m.Content})
	}
	return out
}
