package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const sessionPrefix = "ff:sess:"

// SessionStore is the Redis-backed implementation of ports.SessionStore.
// Records are stored as JSON under ff:sess:<id> with a server-side TTL, so
// expiry needs no sweeper.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*ports.SessionRecord, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var record ports.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// A corrupt record is unusable; treat it as absent.
		return nil, nil
	}
	return &record, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID string, record *ports.SessionRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return sessionPrefix + sessionID
}
