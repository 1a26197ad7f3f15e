// Package memorystore persists per-user conversation memory between turns.
package memorystore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/serenetouch/booking-assistant/internal/dialogue"
)

// DefaultTTL bounds how long an idle conversation's memory survives.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps conversation memory in redis, one JSON blob per user.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a redis-backed memory store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("memorystore: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("memorystore/redis"),
	}
}

// Load returns the user's memory. A user we have never seen gets an empty
// memory, not an error.
func (s *RedisStore) Load(ctx context.Context, userID string) (dialogue.Memory, error) {
	ctx, span := s.tracer.Start(ctx, "memorystore.load")
	defer span.End()

	data, err := s.redis.Get(ctx, memoryKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return dialogue.Memory{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("memorystore: failed to load memory: %w", err)
	}

	var mem dialogue.Memory
	if err := json.Unmarshal(data, &mem); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("memorystore: failed to decode memory: %w", err)
	}
	return mem, nil
}

// Save persists the user's memory and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, userID string, mem dialogue.Memory) error {
	ctx, span := s.tracer.Start(ctx, "memorystore.save")
	defer span.End()

	data, err := json.Marshal(mem)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("memorystore: failed to marshal memory: %w", err)
	}
	if err := s.redis.Set(ctx, memoryKey(userID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("memorystore: failed to persist memory: %w", err)
	}
	return nil
}

func memoryKey(userID string) string {
	return fmt.Sprintf("chat_memory:%s", userID)
}

// InMemoryStore is a redis-less store for tests and local development.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]dialogue.Memory
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]dialogue.Memory)}
}

// Load returns a copy of the user's memory, empty when unknown.
func (s *InMemoryStore) Load(ctx context.Context, userID string) (dialogue.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mem, ok := s.data[userID]; ok {
		return mem.Clone(), nil
	}
	return dialogue.Memory{}, nil
}

// Save stores a copy of the user's memory.
func (s *InMemoryStore) Save(ctx context.Context, userID string, mem dialogue.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = mem.Clone()
	return nil
}
