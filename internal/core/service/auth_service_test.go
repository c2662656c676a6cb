package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func registration(username string) domain.Registration {
	return domain.Registration{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "pass12345",
		Confirmation: "pass12345",
	}
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Minute, time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), registration("alice"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected an assigned id")
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.IsStaff {
		t.Fatalf("registered users must not be staff")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	reg := registration("al")
	reg.Confirmation = "other"
	_, err := svc.Register(context.Background(), reg)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Field("username")) == 0 || len(ve.Field("password2")) == 0 {
		t.Fatalf("expected username and password2 errors, got %v", ve.Fields)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), registration("bob"))
	if _, err := svc.Register(context.Background(), registration("bob")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if err := svc.EnsureAdmin(context.Background(), "root", "root@example.com", "rootpass1"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "root", "root@example.com", "rootpass1"); err != nil {
		t.Fatalf("second EnsureAdmin must be a no-op, got %v", err)
	}
	if !repo.users["root"].IsStaff {
		t.Fatalf("expected staff account")
	}
}

func TestAuthService_Login_IssuesDecodableTokens(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	if err := svc.EnsureAdmin(context.Background(), "carol", "carol@example.com", "s3cretpass"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	creds, err := svc.Login(context.Background(), "carol", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	identity, claims, err := IdentityFromToken(creds.Access)
	if err != nil {
		t.Fatalf("access token not decodable: %v", err)
	}
	if identity.Username != "carol" || identity.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if claims.TokenType != TokenTypeAccess || claims.ID == "" || claims.Email != "carol@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	actor, err := svc.Authenticate(creds.Access)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if actor.Username != "carol" || !actor.IsStaff {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if _, err := svc.Authenticate(creds.Refresh); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("refresh token must not authenticate requests, got %v", err)
	}
}

func TestAuthService_Login_Rejected(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	_, _ = svc.Register(context.Background(), registration("dave"))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "dave", password: "badpass12"},
		{name: "unknown user", username: "ghost", password: "pass12345"},
		{name: "empty", username: "", password: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	_, _ = svc.Register(context.Background(), registration("erin"))

	creds, err := svc.Login(context.Background(), "erin", "pass12345")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	access, err := svc.Refresh(context.Background(), creds.Refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, err := svc.Authenticate(access); err != nil {
		t.Fatalf("refreshed token rejected: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), creds.Access); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, _ = svc.Register(context.Background(), registration("frank"))
	creds, err := svc.Login(context.Background(), "frank", "pass12345")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthService(repo, "another-secret", time.Minute, time.Hour, zerolog.Nop())
	if _, err := other.Authenticate(creds.Access); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.Authenticate(creds.Access); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
