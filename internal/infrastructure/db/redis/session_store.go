package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// DefaultKeyPrefix namespaces session keys: reelnotes:session:<key>.
const DefaultKeyPrefix = "reelnotes:session:"

// SessionStore persists the session token pair in Redis so several client
// processes on one machine share a login.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *SessionStore) { s.prefix = prefix }
}

// WithTTL expires stored values after ttl. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *SessionStore) { s.ttl = ttl }
}

// NewSessionStore wraps client. The caller owns the client's lifecycle.
func NewSessionStore(client *redis.Client, opts ...StoreOption) *SessionStore {
	s := &SessionStore{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(k string) string {
	return s.prefix + k
}
