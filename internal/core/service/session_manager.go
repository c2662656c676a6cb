package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/validation"
	"github.com/reelnotes/reelnotes/internal/pkg/metrics"
)

// DefaultExpiryTick is how often WatchExpiry recomputes the countdown.
const DefaultExpiryTick = time.Second

// SessionManager owns the client's authenticated identity. It decodes the
// access token's claims, tracks the advisory expiry instant, and persists the
// token pair through a SessionStore.
//
// Expiry is never enforced: an expired token keeps its identity until Logout.
type SessionManager struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.RWMutex
	identity *domain.Identity
	expiry   time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionClock overrides the clock used for the countdown.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager returns an anonymous SessionManager. Call Boot to restore
// a persisted session.
func NewSessionManager(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{api: api, store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Boot restores the session persisted in the store. A missing token leaves the
// manager anonymous; a malformed token or unreadable session data is discarded
// and also leaves it anonymous. An error is returned only when the store
// itself cannot be reached.
func (m *SessionManager) Boot(ctx context.Context) error {
	raw, ok, err := m.store.Get(ctx, ports.KeyAccessToken)
	if errors.Is(err, domain.ErrCorruptSession) {
		m.discard(ctx, err, "discarding unreadable stored session")
		return nil
	}
	if err != nil {
		m.clear()
		return fmt.Errorf("session boot: %w", err)
	}
	if !ok || raw == "" {
		m.clear()
		return nil
	}

	identity, claims, err := IdentityFromToken(raw)
	if err != nil {
		m.discard(ctx, err, "discarding malformed stored session token")
		return nil
	}

	m.establish(identity, claims.Expiry())
	metrics.SessionTransitionsTotal.WithLabelValues("boot").Inc()
	m.log.Info().
		Str("username", identity.Username).
		Str("role", string(identity.Role)).
		Time("expires_at", claims.Expiry()).
		Msg("session restored")
	return nil
}

// Login exchanges credentials for a token pair, persists it, and becomes
// authenticated. Any failure leaves the current state untouched, persists
// nothing, and is reported as domain.ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		metrics.SessionTransitionsTotal.WithLabelValues("login_failed").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := m.api.Login(ctx, username, password)
	if err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("login_failed").Inc()
		m.log.Info().Err(err).Str("username", username).Msg("login rejected")
		return nil, fmt.Errorf("session login: %w: %w", domain.ErrInvalidCredentials, err)
	}

	identity, claims, err := IdentityFromToken(creds.Access)
	if err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("login_failed").Inc()
		m.log.Error().Err(err).Str("username", username).Msg("server returned an undecodable access token")
		return nil, fmt.Errorf("session login: %w: %w", domain.ErrInvalidCredentials, err)
	}

	// Store failures are logged; the in-memory session is established regardless.
	if err := m.store.Set(ctx, ports.KeyAccessToken, creds.Access); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist access token")
	}
	if err := m.store.Set(ctx, ports.KeyRefreshToken, creds.Refresh); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist refresh token")
	}

	m.establish(identity, claims.Expiry())
	metrics.SessionTransitionsTotal.WithLabelValues("login").Inc()
	m.log.Info().
		Str("username", identity.Username).
		Str("role", string(identity.Role)).
		Time("expires_at", claims.Expiry()).
		Msg("session established")
	return identity, nil
}

// Register creates an account and then logs in with the same credentials.
// Local and server field errors are returned as *domain.ValidationError; the
// server's field names and messages are passed through unmodified.
func (m *SessionManager) Register(ctx context.Context, reg domain.Registration) (*domain.Identity, error) {
	if err := validation.Validate(reg); err != nil {
		return nil, err
	}

	if err := m.api.Register(ctx, reg); err != nil {
		m.log.Info().Err(err).Str("username", reg.Username).Msg("registration rejected")

		var apiErr *ports.APIError
		if errors.As(err, &apiErr) {
			if fields, ok := apiErr.FieldErrors(); ok {
				return nil, domain.NewValidationError(fields, err)
			}
		}
		return nil, domain.NewValidationError(map[string][]string{
			domain.NonFieldErrors: {err.Error()},
		}, err)
	}

	metrics.SessionTransitionsTotal.WithLabelValues("register").Inc()
	return m.Login(ctx, reg.Username, reg.Password)
}

// Logout forgets the session and removes both persisted credentials. It never
// fails; store errors are logged.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to remove persisted credentials")
	}

	m.mu.Lock()
	prev := m.identity
	m.identity = nil
	m.expiry = time.Time{}
	m.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("logout").Inc()
	if prev != nil {
		m.log.Info().Str("username", prev.Username).Msg("session ended")
	}
}

// CurrentIdentity returns the authenticated identity or nil. The returned
// value is never mutated by the manager.
func (m *SessionManager) CurrentIdentity() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// State reports whether a session is established.
func (m *SessionManager) State() domain.SessionState {
	if m.CurrentIdentity() == nil {
		return domain.StateAnonymous
	}
	return domain.StateAuthenticated
}

// AccessToken returns the bearer token for the transport, or "".
func (m *SessionManager) AccessToken() string {
	if id := m.CurrentIdentity(); id != nil {
		return id.SessionToken
	}
	return ""
}

// Expiry returns the token's exp instant and whether one is known.
func (m *SessionManager) Expiry() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiry, !m.expiry.IsZero()
}

// Countdown computes the display countdown at the current instant.
func (m *SessionManager) Countdown() domain.Countdown {
	expiry, _ := m.Expiry()
	return domain.NewCountdown(expiry, m.now())
}

// WatchExpiry emits the countdown immediately and then once per interval
// until ctx is done, at which point the channel is closed. Reaching Expired
// does not end the session.
func (m *SessionManager) WatchExpiry(ctx context.Context, interval time.Duration) <-chan domain.Countdown {
	if interval <= 0 {
		interval = DefaultExpiryTick
	}

	ch := make(chan domain.Countdown, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case ch <- m.Countdown():
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// discard forgets a persisted session that cannot be used.
func (m *SessionManager) discard(ctx context.Context, cause error, msg string) {
	m.log.Warn().Err(cause).Msg(msg)
	if err := m.store.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to remove stored session")
	}
	m.clear()
	metrics.SessionTransitionsTotal.WithLabelValues("boot_discarded").Inc()
}

func (m *SessionManager) establish(identity *domain.Identity, expiry time.Time) {
	m.mu.Lock()
	m.identity = identity
	m.expiry = expiry
	m.mu.Unlock()
}

func (m *SessionManager) clear() {
	m.establish(nil, time.Time{})
}
