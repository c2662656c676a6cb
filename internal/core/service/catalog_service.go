package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/validation"
	"github.com/reelnotes/reelnotes/internal/pkg/metrics"
)

// CatalogService applies the development backend's movie and review rules:
// movies are writable by staff only, each user reviews a movie at most once,
// and a review is changed only by its author or staff.
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log, now: time.Now}
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.repo.ListMovies(ctx)
}

func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.repo.GetMovie(ctx, id)
}

func (s *CatalogService) CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	m, err := s.repo.CreateMovie(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	s.log.Info().Int64("movie_id", m.ID).Str("title", m.Title).Msg("movie created")
	return m, nil
}

func (s *CatalogService) UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	return s.repo.UpdateMovie(ctx, id, in)
}

func (s *CatalogService) DeleteMovie(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMovie(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("movie_id", id).Msg("movie deleted")
	return nil
}

func (s *CatalogService) CreateReview(ctx context.Context, actor ports.Actor, movieID int64, in domain.ReviewInput) (*domain.Review, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	movie, err := s.repo.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie.ReviewBy(actor.Username) >= 0 {
		return nil, domain.ErrAlreadyReviewed
	}

	now := s.now().UTC()
	created, err := s.repo.AddReview(ctx, movieID, domain.Review{
		CreatedAt:    now,
		UpdatedAt:    now,
		ReviewAuthor: actor.Username,
		Review:       in.Review,
		Rating:       in.Rating,
	})
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	metrics.ReviewsCreatedTotal.Inc()
	s.log.Info().Int64("movie_id", movieID).Int64("review_id", created.ID).Str("author", actor.Username).Msg("review created")
	return created, nil
}

func (s *CatalogService) UpdateReview(ctx context.Context, actor ports.Actor, reviewID int64, in domain.ReviewInput) (*domain.Review, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	review, _, err := s.repo.FindReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, review) {
		return nil, domain.ErrForbidden
	}

	review.Review = in.Review
	review.Rating = in.Rating
	review.UpdatedAt = s.now().UTC()
	return s.repo.UpdateReview(ctx, *review)
}

func (s *CatalogService) DeleteReview(ctx context.Context, actor ports.Actor, reviewID int64) error {
	review, movieID, err := s.repo.FindReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if !canModify(actor, review) {
		return domain.ErrForbidden
	}
	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return err
	}
	s.log.Info().Int64("movie_id", movieID).Int64("review_id", reviewID).Msg("review deleted")
	return nil
}

func canModify(actor ports.Actor, r *domain.Review) bool {
	return actor.IsStaff || (actor.Username != "" && actor.Username == r.ReviewAuthor)
}
