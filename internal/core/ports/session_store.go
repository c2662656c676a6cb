package ports

import "context"

// Keys used in the persisted session layout.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refresh_token"
)

// SessionStore is a durable string key-value store for session credentials.
type SessionStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
