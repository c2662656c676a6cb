package ports

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// UserRepository persists accounts for the development backend.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CatalogRepository persists movies and their nested reviews for the
// development backend. Review ids are unique across all movies.
type CatalogRepository interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
	CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error

	// AddReview appends r to the movie's reviews, assigning r.ID.
	AddReview(ctx context.Context, movieID int64, r domain.Review) (*domain.Review, error)
	// FindReview returns the review and the id of the movie holding it.
	FindReview(ctx context.Context, reviewID int64) (*domain.Review, int64, error)
	UpdateReview(ctx context.Context, r domain.Review) (*domain.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}
