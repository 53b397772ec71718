package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisConfig configures the durable session backend.
type RedisConfig struct {
	Addr     string        `envconfig:"ADDR" split_words:"true" default:"localhost:6379"`
	Password string        `envconfig:"PASSWORD" split_words:"true"`
	DB       int           `envconfig:"DB" split_words:"true" default:"0"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// RedisStore keeps session history in Redis with a TTL per key. Any
// connectivity or operation failure flips the store into an in-process map
// for the remainder of the process lifetime: the degrade is one-way so a
// known-down backend never adds per-request latency. Conversation loss on
// restart is accepted; added latency per chat turn is not.
type RedisStore struct {
	client     *redis.Client
	keyPrefix  string
	ttl        time.Duration
	maxHistory int

	degraded atomic.Bool
	mu       sync.RWMutex
	memory   map[string]memoryEntry

	now func() time.Time
}

type memoryEntry struct {
	messages  []Message
	expiresAt time.Time
}

func NewRedisStore(cfg RedisConfig, opts ...StoreOption) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         strings.TrimSpace(cfg.Addr),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	store := &RedisStore{
		client:     client,
		keyPrefix:  defaultStoreKeyPrefix,
		ttl:        defaultStoreTTL,
		maxHistory: defaultMaxHistory,
		memory:     make(map[string]memoryEntry),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// Ping reports whether the durable backend is reachable. Used by health
// checks only; the store itself degrades lazily on first failure.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]Message, error) {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return nil, err
	}

	if !s.degraded.Load() {
		raw, err := s.client.Get(ctx, key).Result()
		switch {
		case err == redis.Nil:
			return []Message{}, nil
		case err != nil:
			s.degrade("load", err)
		default:
			var stored []storedMessage
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("discarding undecodable session payload")
				return []Message{}, nil
			}
			return decodeMessages(stored), nil
		}
	}

	return s.loadMemory(sessionID), nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, messages []Message) error {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return err
	}

	messages = TruncateHistory(messages, s.maxHistory)

	if !s.degraded.Load() {
		payload, err := json.Marshal(encodeMessages(messages))
		if err != nil {
			return fmt.Errorf("marshal session history: %w", err)
		}
		if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.degrade("save", err)
		} else {
			return nil
		}
	}

	s.saveMemory(sessionID, messages)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.redisKey(sessionID)
	if err != nil {
		return err
	}

	if !s.degraded.Load() {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.degrade("delete", err)
		}
	}

	s.mu.Lock()
	delete(s.memory, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *RedisStore) redisKey(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrInvalidSession
	}
	return s.keyPrefix + sessionID, nil
}

func (s *RedisStore) degrade(op string, err error) {
	if s.degraded.CompareAndSwap(false, true) {
		log.Warn().Err(err).Str("op", op).Msg("session store degraded to in-memory for process lifetime")
	}
}

func (s *RedisStore) loadMemory(sessionID string) []Message {
	s.mu.RLock()
	entry, ok := s.memory[sessionID]
	s.mu.RUnlock()
	if !ok {
		return []Message{}
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.memory, sessionID)
		s.mu.Unlock()
		return []Message{}
	}
	out := make([]Message, len(entry.messages))
	copy(out, entry.messages)
	return out
}

func (s *RedisStore) saveMemory(sessionID string, messages []Message) {
	entry := memoryEntry{
		messages:  make([]Message, len(messages)),
		expiresAt: s.now().Add(s.ttl),
	}
	copy(entry.messages, messages)

	s.mu.Lock()
	s.memory[sessionID] = entry
	s.mu.Unlock()
}
