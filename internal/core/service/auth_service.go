package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/validation"
	"github.com/reelnotes/reelnotes/internal/pkg/metrics"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// AuthService implements registration, login, and token refresh for the
// development backend. Tokens are HS256-signed and carry the claims the client
// decodes: token_type, user_id, username, email, is_staff, exp, iat, jti.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := validation.Validate(reg); err != nil {
		return nil, err
	}
	return s.create(ctx, reg.Username, reg.Email, reg.Password, false)
}

// EnsureAdmin creates a staff account unless username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.create(ctx, username, email, password, true)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func (s *AuthService) create(ctx context.Context, username, email, password string, staff bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", created.Username).Bool("is_staff", created.IsStaff).Msg("account created")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Credentials, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.issue(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultOK).Inc()
	return &domain.Credentials{Access: access, Refresh: refresh}, nil
}

// Refresh issues a new access token for the holder of a valid refresh token.
// The account is re-read so a changed staff flag takes effect.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.verify(refresh, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	user, err := s.repo.FindByUsername(ctx, claims.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	return s.issue(user, TokenTypeAccess, s.accessTTL)
}

func (s *AuthService) Authenticate(raw string) (ports.Actor, error) {
	claims, err := s.verify(raw, TokenTypeAccess)
	if err != nil {
		return ports.Actor{}, err
	}
	return ports.Actor{Username: claims.Username, IsStaff: claims.IsStaff}, nil
}

func (s *AuthService) issue(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := AccessClaims{
		TokenType: tokenType,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsStaff:   user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *AuthService) verify(raw, tokenType string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if claims.TokenType != tokenType || claims.Username == "" {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrInvalidCredentials, tokenType)
	}
	return claims, nil
}
