package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// AuthAPI is the credential-exchange side of the remote API.
type AuthAPI interface {
	// Login exchanges a username and password for a token pair (POST /token/).
	Login(ctx context.Context, username, password string) (*domain.Credentials, error)
	// Register creates an account (POST /auth/registration/). It does not
	// establish a session.
	Register(ctx context.Context, reg domain.Registration) error
}

// MoviesAPI is the movie and review side of the remote API.
type MoviesAPI interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error

	CreateReview(ctx context.Context, movieID int64, in domain.ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, in domain.ReviewInput) (*domain.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

// TokenSource supplies the bearer token the transport attaches to
// authenticated calls. An empty string means no Authorization header.
type TokenSource interface {
	AccessToken() string
}

// IdentitySource exposes the current authenticated identity, nil when anonymous.
type IdentitySource interface {
	CurrentIdentity() *domain.Identity
}

// APIError is returned by the transport when the server answers with a
// non-2xx status.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FieldErrors decodes a field-keyed error body where each value is either a
// string or a list of strings. Values of any other shape are kept as their
// raw JSON text.
func (e *APIError) FieldErrors() (map[string][]string, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil || len(raw) == 0 {
		return nil, false
	}

	fields := make(map[string][]string, len(raw))
	for name, value := range raw {
		var one string
		if err := json.Unmarshal(value, &one); err == nil {
			fields[name] = []string{one}
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			fields[name] = many
			continue
		}
		fields[name] = []string{string(value)}
	}
	return fields, true
}
