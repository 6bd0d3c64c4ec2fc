package ports

import (
	"context"
	"time"
)

// SessionRecord is what the store keeps per session id. IssuedAt is the
// last time the id was (re)issued; the cookie layer uses it to decide when
// a rolling renewal is due.
type SessionRecord struct {
	Data     map[string]string `json:"data"`
	IssuedAt time.Time         `json:"issued_at"`
}

// SessionStore is the storage-agnostic session backend. Get returns
// (nil, nil) when the id is unknown or expired; callers treat a store error
// as an empty session rather than failing the request.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*SessionRecord, error)
	Set(ctx context.Context, sessionID string, record *SessionRecord, ttl time.Duration) error
	Destroy(ctx context.Context, sessionID string) error
}

// RateCounter is the shared atomic counter backing the rate limiter.
// Incr must linearize concurrent increments to the same key: the transition
// from absent to 1 happens exactly once per window, and that first
// increment fixes the window expiry.
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}
