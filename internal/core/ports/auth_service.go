package ports

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// AuthService is the development backend's account and token issuer.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Credentials, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refresh string) (string, error)
	// Authenticate verifies an access token and returns its caller.
	Authenticate(raw string) (Actor, error)
}
