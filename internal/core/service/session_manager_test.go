package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/infrastructure/db/file"
)

func mintToken(t *testing.T, username string, staff bool, exp time.Time) string {
	t.Helper()
	claims := AccessClaims{
		TokenType: TokenTypeAccess,
		UserID:    1,
		Username:  username,
		IsStaff:   staff,
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

type stubAuthAPI struct {
	login    func(ctx context.Context, username, password string) (*domain.Credentials, error)
	register func(ctx context.Context, reg domain.Registration) error

	registerCalls int
}

func (s *stubAuthAPI) Login(ctx context.Context, username, password string) (*domain.Credentials, error) {
	if s.login == nil {
		return nil, errors.New("unexpected Login call")
	}
	return s.login(ctx, username, password)
}

func (s *stubAuthAPI) Register(ctx context.Context, reg domain.Registration) error {
	s.registerCalls++
	if s.register == nil {
		return nil
	}
	return s.register(ctx, reg)
}

type stubStore struct {
	values map[string]string
	getErr error
}

func newStubStore() *stubStore {
	return &stubStore{values: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func loginAs(t *testing.T, staff bool, exp time.Time) *stubAuthAPI {
	t.Helper()
	return &stubAuthAPI{
		login: func(_ context.Context, username, _ string) (*domain.Credentials, error) {
			return &domain.Credentials{
				Access:  mintToken(t, username, staff, exp),
				Refresh: "refresh-" + username,
			}, nil
		},
	}
}

func TestSessionManager_Login_RoleFollowsStaffClaim(t *testing.T) {
	cases := []struct {
		name  string
		staff bool
		want  domain.Role
	}{
		{name: "staff", staff: true, want: domain.RoleAdmin},
		{name: "member", staff: false, want: domain.RoleMember},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			m := NewSessionManager(loginAs(t, tc.staff, time.Now().Add(time.Hour)), store, zerolog.Nop())

			identity, err := m.Login(context.Background(), "alice", "s3cretpass")
			if err != nil {
				t.Fatalf("Login returned error: %v", err)
			}
			if identity.Role != tc.want {
				t.Fatalf("expected role %s, got %s", tc.want, identity.Role)
			}
			if m.State() != domain.StateAuthenticated {
				t.Fatalf("expected authenticated state, got %s", m.State())
			}
			if store.values[ports.KeyAccessToken] != identity.SessionToken {
				t.Fatalf("access token not persisted")
			}
			if store.values[ports.KeyRefreshToken] != "refresh-alice" {
				t.Fatalf("refresh token not persisted: %q", store.values[ports.KeyRefreshToken])
			}
			if m.AccessToken() != identity.SessionToken {
				t.Fatalf("AccessToken does not match the session token")
			}
		})
	}
}

func TestSessionManager_Login_RejectedPersistsNothing(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{
		login: func(context.Context, string, string) (*domain.Credentials, error) {
			return nil, &ports.APIError{StatusCode: 401, Body: []byte(`{"detail":"No active account found with the given credentials"}`)}
		},
	}
	m := NewSessionManager(api, store, zerolog.Nop())

	_, err := m.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("expected the transport error to be wrapped, got %v", err)
	}
	if len(store.values) != 0 {
		t.Fatalf("expected nothing persisted, got %v", store.values)
	}
	if m.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous state, got %s", m.State())
	}
}

func TestSessionManager_Login_UndecodableToken(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{
		login: func(context.Context, string, string) (*domain.Credentials, error) {
			return &domain.Credentials{Access: "not-a-jwt", Refresh: "r"}, nil
		},
	}
	m := NewSessionManager(api, store, zerolog.Nop())

	if _, err := m.Login(context.Background(), "alice", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.values) != 0 {
		t.Fatalf("expected nothing persisted, got %v", store.values)
	}
}

func TestSessionManager_Login_FailureKeepsExistingSession(t *testing.T) {
	store := newStubStore()
	api := loginAs(t, false, time.Now().Add(time.Hour))
	m := NewSessionManager(api, store, zerolog.Nop())

	if _, err := m.Login(context.Background(), "bob", "s3cretpass"); err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	api.login = func(context.Context, string, string) (*domain.Credentials, error) {
		return nil, &ports.APIError{StatusCode: 401}
	}
	if _, err := m.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatalf("expected second login to fail")
	}
	if id := m.CurrentIdentity(); id == nil || id.Username != "bob" {
		t.Fatalf("expected bob to stay logged in, got %+v", id)
	}
}

func TestSessionManager_Login_EmptyCredentials(t *testing.T) {
	m := NewSessionManager(&stubAuthAPI{}, newStubStore(), zerolog.Nop())

	if _, err := m.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionManager_Logout_Idempotent(t *testing.T) {
	store := newStubStore()
	m := NewSessionManager(loginAs(t, true, time.Now().Add(time.Hour)), store, zerolog.Nop())

	if _, err := m.Login(context.Background(), "alice", "s3cretpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	m.Logout(context.Background())
	m.Logout(context.Background())

	if m.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous state, got %s", m.State())
	}
	if m.CurrentIdentity() != nil {
		t.Fatalf("expected nil identity")
	}
	if len(store.values) != 0 {
		t.Fatalf("expected both keys removed, got %v", store.values)
	}
	if m.Countdown().Active {
		t.Fatalf("expected inactive countdown after logout")
	}
}

func TestSessionManager_Boot(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("empty store", func(t *testing.T) {
		m := NewSessionManager(&stubAuthAPI{}, newStubStore(), zerolog.Nop(), WithSessionClock(clock))
		if err := m.Boot(context.Background()); err != nil {
			t.Fatalf("Boot returned error: %v", err)
		}
		if m.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous, got %s", m.State())
		}
	})

	t.Run("malformed token is discarded", func(t *testing.T) {
		store := newStubStore()
		store.values[ports.KeyAccessToken] = "garbage"
		store.values[ports.KeyRefreshToken] = "refresh"

		m := NewSessionManager(&stubAuthAPI{}, store, zerolog.Nop(), WithSessionClock(clock))
		if err := m.Boot(context.Background()); err != nil {
			t.Fatalf("Boot returned error: %v", err)
		}
		if m.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous, got %s", m.State())
		}
		if len(store.values) != 0 {
			t.Fatalf("expected malformed session removed, got %v", store.values)
		}
	})

	t.Run("expired token still authenticates", func(t *testing.T) {
		store := newStubStore()
		store.values[ports.KeyAccessToken] = mintToken(t, "carol", true, now.Add(-time.Minute))

		m := NewSessionManager(&stubAuthAPI{}, store, zerolog.Nop(), WithSessionClock(clock))
		if err := m.Boot(context.Background()); err != nil {
			t.Fatalf("Boot returned error: %v", err)
		}
		id := m.CurrentIdentity()
		if id == nil || id.Username != "carol" || id.Role != domain.RoleAdmin {
			t.Fatalf("unexpected identity: %+v", id)
		}
		cd := m.Countdown()
		if !cd.Expired || cd.String() != "Expired" {
			t.Fatalf("expected expired countdown, got %+v", cd)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := newStubStore()
		store.getErr = errors.New("disk on fire")

		m := NewSessionManager(&stubAuthAPI{}, store, zerolog.Nop(), WithSessionClock(clock))
		if err := m.Boot(context.Background()); err == nil {
			t.Fatalf("expected error from failing store")
		}
		if m.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous, got %s", m.State())
		}
	})
}

func TestSessionManager_CorruptSessionFile(t *testing.T) {
	corrupt := func(t *testing.T) *file.SessionStore {
		t.Helper()
		store, err := file.NewSessionStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewSessionStore: %v", err)
		}
		if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		return store
	}
	exp := time.Now().Add(5 * time.Minute)

	t.Run("boot discards it", func(t *testing.T) {
		store := corrupt(t)
		m := NewSessionManager(loginAs(t, false, exp), store, zerolog.Nop())

		if err := m.Boot(context.Background()); err != nil {
			t.Fatalf("expected no error for unreadable session, got %v", err)
		}
		if m.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous, got %s", m.State())
		}
		if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected session file removed, stat err: %v", err)
		}

		if _, err := m.Login(context.Background(), "alice", "pw"); err != nil {
			t.Fatalf("Login after recovery: %v", err)
		}
		again := NewSessionManager(&stubAuthAPI{}, store, zerolog.Nop())
		if err := again.Boot(context.Background()); err != nil || again.State() != domain.StateAuthenticated {
			t.Fatalf("expected restored session, got %s (%v)", again.State(), err)
		}
	})

	t.Run("logout removes it", func(t *testing.T) {
		store := corrupt(t)
		m := NewSessionManager(&stubAuthAPI{}, store, zerolog.Nop())

		m.Logout(context.Background())

		if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected session file removed, stat err: %v", err)
		}
		if err := m.Boot(context.Background()); err != nil {
			t.Fatalf("Boot after logout: %v", err)
		}
	})
}

func TestSessionManager_Countdown(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewSessionManager(loginAs(t, false, now.Add(90*time.Second)), newStubStore(), zerolog.Nop(),
		WithSessionClock(func() time.Time { return now }))

	if got := m.Countdown().String(); got != "" {
		t.Fatalf("expected empty countdown while anonymous, got %q", got)
	}
	if _, err := m.Login(context.Background(), "alice", "s3cretpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := m.Countdown().String(); got != "1:30" {
		t.Fatalf("expected 1:30, got %q", got)
	}
}

func TestSessionManager_WatchExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewSessionManager(loginAs(t, false, now.Add(-time.Second)), newStubStore(), zerolog.Nop(),
		WithSessionClock(func() time.Time { return now }))
	if _, err := m.Login(context.Background(), "alice", "s3cretpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := m.WatchExpiry(ctx, 10*time.Millisecond)

	select {
	case cd := <-ch:
		if !cd.Expired {
			t.Fatalf("expected expired countdown, got %+v", cd)
		}
	case <-time.After(time.Second):
		t.Fatalf("no countdown emitted")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if m.State() != domain.StateAuthenticated {
					t.Fatalf("expiry must not end the session")
				}
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after cancel")
		}
	}
}

func TestSessionManager_Register(t *testing.T) {
	valid := domain.Registration{
		Username:     "alice",
		Email:        "alice@example.com",
		Password:     "s3cretpass",
		Confirmation: "s3cretpass",
	}

	t.Run("local validation", func(t *testing.T) {
		api := &stubAuthAPI{}
		m := NewSessionManager(api, newStubStore(), zerolog.Nop())

		reg := valid
		reg.Confirmation = "different"
		_, err := m.Register(context.Background(), reg)

		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(ve.Field("password2")) == 0 {
			t.Fatalf("expected password2 error, got %v", ve.Fields)
		}
		if api.registerCalls != 0 {
			t.Fatalf("server must not be called for locally invalid input")
		}
	})

	t.Run("server field errors pass through", func(t *testing.T) {
		api := &stubAuthAPI{
			register: func(context.Context, domain.Registration) error {
				return &ports.APIError{
					StatusCode: 400,
					Body:       []byte(`{"username":["A user with that username already exists."],"email":"Enter a valid email address."}`),
				}
			},
		}
		m := NewSessionManager(api, newStubStore(), zerolog.Nop())

		_, err := m.Register(context.Background(), valid)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if got := ve.Field("username"); len(got) != 1 || got[0] != "A user with that username already exists." {
			t.Fatalf("unexpected username errors: %v", got)
		}
		if got := ve.Field("email"); len(got) != 1 || got[0] != "Enter a valid email address." {
			t.Fatalf("unexpected email errors: %v", got)
		}
		if m.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous after failed registration")
		}
	})

	t.Run("non field failure", func(t *testing.T) {
		api := &stubAuthAPI{
			register: func(context.Context, domain.Registration) error {
				return errors.New("connection refused")
			},
		}
		m := NewSessionManager(api, newStubStore(), zerolog.Nop())

		_, err := m.Register(context.Background(), valid)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || len(ve.Field(domain.NonFieldErrors)) != 1 {
			t.Fatalf("expected non_field_errors, got %v", err)
		}
	})

	t.Run("success logs in", func(t *testing.T) {
		api := loginAs(t, false, time.Now().Add(time.Hour))
		store := newStubStore()
		m := NewSessionManager(api, store, zerolog.Nop())

		identity, err := m.Register(context.Background(), valid)
		if err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
		if identity.Username != "alice" || identity.Role != domain.RoleMember {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		if api.registerCalls != 1 {
			t.Fatalf("expected one register call, got %d", api.registerCalls)
		}
		if _, ok := store.values[ports.KeyAccessToken]; !ok {
			t.Fatalf("expected session persisted after registration")
		}
	})
}

func TestDecodeAccessToken(t *testing.T) {
	raw := mintToken(t, "dave", true, time.Unix(1700000000, 0))

	claims, err := DecodeAccessToken(raw)
	if err != nil {
		t.Fatalf("DecodeAccessToken returned error: %v", err)
	}
	if claims.Username != "dave" || !claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.Expiry().Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected expiry: %v", claims.Expiry())
	}

	for _, bad := range []string{"", "a.b", "not.a.jwt"} {
		if _, err := DecodeAccessToken(bad); !errors.Is(err, domain.ErrMalformedToken) {
			t.Fatalf("expected ErrMalformedToken for %q, got %v", bad, err)
		}
	}

	noUser := mintToken(t, "", false, time.Time{})
	if _, err := DecodeAccessToken(noUser); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for missing username, got %v", err)
	}
}
