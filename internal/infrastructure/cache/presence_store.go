package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPresencePrefix = "presence:"

// RedisPresenceStore keeps heartbeats as Redis keys that expire with the TTL
type RedisPresenceStore struct {
	client    *redis.Client
	keyPrefix string
}

type presenceRecord struct {
	LastSeenAt time.Time `json:"last_seen_at"`
	TTLMillis  int64     `json:"ttl_ms"`
}

// NewRedisPresenceStore creates a presence store with an existing Redis client
func NewRedisPresenceStore(client *redis.Client, keyPrefix string) *RedisPresenceStore {
	if keyPrefix == "" {
		keyPrefix = defaultPresencePrefix
	}
	return &RedisPresenceStore{client: client, keyPrefix: keyPrefix}
}

// Touch records a heartbeat that lapses after ttl
func (s *RedisPresenceStore) Touch(ctx context.Context, actorID uuid.UUID, at time.Time, ttl time.Duration) error {
	payload, err := json.Marshal(presenceRecord{LastSeenAt: at.UTC(), TTLMillis: ttl.Milliseconds()})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+actorID.String(), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	return nil
}

// Get returns the live heartbeat for the actor
func (s *RedisPresenceStore) Get(ctx context.Context, actorID uuid.UUID) (identity.Presence, bool, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+actorID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return identity.Presence{}, false, nil
	}
	if err != nil {
		return identity.Presence{}, false, fmt.Errorf("failed to read heartbeat: %w", err)
	}
	var rec presenceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return identity.Presence{}, false, err
	}
	return identity.NewPresence(actorID, rec.LastSeenAt, time.Duration(rec.TTLMillis)*time.Millisecond), true, nil
}

// InMemoryPresenceStore is a process-local presence store
type InMemoryPresenceStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]identity.Presence
}

// NewInMemoryPresenceStore creates an in-memory presence store
func NewInMemoryPresenceStore() *InMemoryPresenceStore {
	return &InMemoryPresenceStore{
		entries: make(map[uuid.UUID]identity.Presence),
	}
}

// Touch records a heartbeat
func (s *InMemoryPresenceStore) Touch(_ context.Context, actorID uuid.UUID, at time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[actorID] = identity.NewPresence(actorID, at, ttl)
	return nil
}

// Get returns the last heartbeat. Entries are kept after they lapse; the
// caller judges liveness against its own clock.
func (s *InMemoryPresenceStore) Get(_ context.Context, actorID uuid.UUID) (identity.Presence, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[actorID]
	return p, ok, nil
}

var (
	_ identity.PresenceStore = (*RedisPresenceStore)(nil)
	_ identity.PresenceStore = (*InMemoryPresenceStore)(nil)
)
