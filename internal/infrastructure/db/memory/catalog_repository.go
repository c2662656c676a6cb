package memory

import (
	"context"
	"sync"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// CatalogRepository keeps movies in insertion order. Movie and review ids are
// assigned from separate counters; review ids are unique across movies.
type CatalogRepository struct {
	mu           sync.RWMutex
	movies       []domain.Movie
	nextMovieID  int64
	nextReviewID int64
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) ListMovies(_ context.Context) ([]domain.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Movie, len(r.movies))
	for i, m := range r.movies {
		out[i] = m.Clone()
	}
	return out, nil
}

func (r *CatalogRepository) GetMovie(_ context.Context, id int64) (*domain.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.movieIndex(id)
	if i < 0 {
		return nil, domain.ErrMovieNotFound
	}
	m := r.movies[i].Clone()
	return &m, nil
}

func (r *CatalogRepository) CreateMovie(_ context.Context, in domain.MovieInput) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMovieID++
	m := domain.Movie{ID: r.nextMovieID, Reviews: []domain.Review{}}
	apply(&m, in)
	r.movies = append(r.movies, m)

	out := m.Clone()
	return &out, nil
}

func (r *CatalogRepository) UpdateMovie(_ context.Context, id int64, in domain.MovieInput) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.movieIndex(id)
	if i < 0 {
		return nil, domain.ErrMovieNotFound
	}
	apply(&r.movies[i], in)

	out := r.movies[i].Clone()
	return &out, nil
}

func (r *CatalogRepository) DeleteMovie(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.movieIndex(id)
	if i < 0 {
		return domain.ErrMovieNotFound
	}
	r.movies = append(r.movies[:i], r.movies[i+1:]...)
	return nil
}

func (r *CatalogRepository) AddReview(_ context.Context, movieID int64, rev domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.movieIndex(movieID)
	if i < 0 {
		return nil, domain.ErrMovieNotFound
	}
	r.nextReviewID++
	rev.ID = r.nextReviewID
	r.movies[i].Reviews = append(r.movies[i].Reviews, rev)
	return &rev, nil
}

func (r *CatalogRepository) FindReview(_ context.Context, reviewID int64) (*domain.Review, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mi, ri := r.reviewIndex(reviewID)
	if mi < 0 {
		return nil, 0, domain.ErrReviewNotFound
	}
	rev := r.movies[mi].Reviews[ri]
	return &rev, r.movies[mi].ID, nil
}

func (r *CatalogRepository) UpdateReview(_ context.Context, rev domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mi, ri := r.reviewIndex(rev.ID)
	if mi < 0 {
		return nil, domain.ErrReviewNotFound
	}
	r.movies[mi].Reviews[ri] = rev
	return &rev, nil
}

func (r *CatalogRepository) DeleteReview(_ context.Context, reviewID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mi, ri := r.reviewIndex(reviewID)
	if mi < 0 {
		return domain.ErrReviewNotFound
	}
	reviews := r.movies[mi].Reviews
	r.movies[mi].Reviews = append(reviews[:ri:ri], reviews[ri+1:]...)
	return nil
}

func (r *CatalogRepository) movieIndex(id int64) int {
	for i, m := range r.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *CatalogRepository) reviewIndex(id int64) (int, int) {
	for mi, m := range r.movies {
		for ri, rev := range m.Reviews {
			if rev.ID == id {
				return mi, ri
			}
		}
	}
	return -1, -1
}

func apply(m *domain.Movie, in domain.MovieInput) {
	m.Title = in.Title
	m.Director = in.Director
	m.Category = in.Category
	m.Description = in.Description
	m.ReleaseDate = in.ReleaseDate
}
