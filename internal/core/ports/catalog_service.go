package ports

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// Actor is the caller of a backend catalog operation, as established by the
// auth middleware.
type Actor struct {
	Username string
	IsStaff  bool
}

// CatalogService applies the backend's movie and review rules.
type CatalogService interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error

	CreateReview(ctx context.Context, actor Actor, movieID int64, in domain.ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, actor Actor, reviewID int64, in domain.ReviewInput) (*domain.Review, error)
	DeleteReview(ctx context.Context, actor Actor, reviewID int64) error
}
