package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/authz"
	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/validation"
	"github.com/reelnotes/reelnotes/internal/pkg/metrics"
)

const (
	opCreateMovie  = "create movie"
	opUpdateMovie  = "update movie"
	opDeleteMovie  = "delete movie"
	opCreateReview = "create review"
	opUpdateReview = "update review"
	opDeleteReview = "delete review"
)

// EntityCache holds the movie list with nested reviews. It is loaded once and
// then kept in step with the server by applying each mutation locally.
//
// Movie mutations and review creation update the collection only after the
// server confirms. Review updates and deletions are applied optimistically and
// undone if the server rejects them. The mutex is never held across a
// transport call, so concurrent mutations may interleave; the later
// completion wins for the fields it touches.
type EntityCache struct {
	api      ports.MoviesAPI
	identity ports.IdentitySource
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	movies []domain.Movie
}

// CacheOption configures an EntityCache.
type CacheOption func(*EntityCache)

// WithCacheClock overrides the clock stamped on optimistic review edits.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *EntityCache) { c.now = now }
}

// NewEntityCache returns an empty cache. identity is consulted on every
// mutation to decide what may be attempted.
func NewEntityCache(api ports.MoviesAPI, identity ports.IdentitySource, log zerolog.Logger, opts ...CacheOption) *EntityCache {
	c := &EntityCache{api: api, identity: identity, log: log, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the whole collection with the server's movie list.
func (c *EntityCache) Load(ctx context.Context) error {
	movies, err := c.api.ListMovies(ctx)
	if err != nil {
		return fmt.Errorf("load movies: %w: %w", domain.ErrFetchFailed, err)
	}

	loaded := make([]domain.Movie, len(movies))
	for i, m := range movies {
		loaded[i] = normalize(m)
	}

	c.mu.Lock()
	c.movies = loaded
	c.mu.Unlock()

	c.log.Debug().Int("movies", len(loaded)).Msg("movie list loaded")
	return nil
}

// Refresh re-fetches a single movie and replaces (or inserts) it. A movie the
// server no longer has is dropped from the cache.
func (c *EntityCache) Refresh(ctx context.Context, id int64) (domain.Movie, error) {
	movie, err := c.api.GetMovie(ctx, id)
	if err != nil {
		var apiErr *ports.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.removeMovie(id)
			return domain.Movie{}, fmt.Errorf("refresh movie %d: %w", id, domain.ErrMovieNotFound)
		}
		return domain.Movie{}, fmt.Errorf("refresh movie %d: %w: %w", id, domain.ErrFetchFailed, err)
	}

	m := normalize(*movie)
	c.upsertMovie(m)
	return m.Clone(), nil
}

// Movies returns a deep copy of the collection in server order.
func (c *EntityCache) Movies() []domain.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Movie, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Clone()
	}
	return out
}

// Movie returns a copy of the movie with id.
func (c *EntityCache) Movie(id int64) (domain.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.movies[i].Clone(), true
	}
	return domain.Movie{}, false
}

// Search returns the movies whose title, director, or category contains
// query, case-insensitively. It does not modify the cache.
func (c *EntityCache) Search(query string) []domain.Movie {
	return domain.FilterMovies(c.Movies(), query)
}

// CanCreateReview reports whether the current identity may review movieID
// given the cache's current reviews.
func (c *EntityCache) CanCreateReview(movieID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(movieID)
	return i >= 0 && authz.CanCreateReview(c.identity.CurrentIdentity(), c.movies[i])
}

// CreateMovie submits a new movie and inserts the server's copy.
func (c *EntityCache) CreateMovie(ctx context.Context, in domain.MovieInput) (domain.Movie, error) {
	identity := c.identity.CurrentIdentity()
	if !authz.MovieActions(identity).Has(authz.ActionCreate) {
		return domain.Movie{}, c.deny(opCreateMovie, identity)
	}
	if err := validation.Validate(in); err != nil {
		return domain.Movie{}, err
	}

	created, err := c.api.CreateMovie(ctx, in)
	if err != nil {
		return domain.Movie{}, c.reject(opCreateMovie, err)
	}

	m := normalize(*created)
	c.mu.Lock()
	c.movies = append(c.movies, m)
	c.mu.Unlock()

	c.succeed(opCreateMovie)
	c.log.Info().Int64("movie_id", m.ID).Str("title", m.Title).Msg("movie created")
	return m.Clone(), nil
}

// UpdateMovie submits new movie fields and replaces the cached movie by id.
// Reviews are kept from the cache when the response omits them.
func (c *EntityCache) UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (domain.Movie, error) {
	identity := c.identity.CurrentIdentity()
	if !authz.MovieActions(identity).Has(authz.ActionUpdate) {
		return domain.Movie{}, c.deny(opUpdateMovie, identity)
	}
	if err := validation.Validate(in); err != nil {
		return domain.Movie{}, err
	}

	updated, err := c.api.UpdateMovie(ctx, id, in)
	if err != nil {
		return domain.Movie{}, c.reject(opUpdateMovie, err)
	}

	m := *updated
	if m.Reviews == nil {
		if cached, ok := c.Movie(id); ok {
			m.Reviews = cached.Reviews
		}
	}
	m = normalize(m)
	c.upsertMovie(m)

	c.succeed(opUpdateMovie)
	c.log.Info().Int64("movie_id", m.ID).Msg("movie updated")
	return m.Clone(), nil
}

// DeleteMovie deletes a movie on the server and then removes it locally.
func (c *EntityCache) DeleteMovie(ctx context.Context, id int64) error {
	identity := c.identity.CurrentIdentity()
	if !authz.MovieActions(identity).Has(authz.ActionDelete) {
		return c.deny(opDeleteMovie, identity)
	}

	if err := c.api.DeleteMovie(ctx, id); err != nil {
		return c.reject(opDeleteMovie, err)
	}

	c.removeMovie(id)
	c.succeed(opDeleteMovie)
	c.log.Info().Int64("movie_id", id).Msg("movie deleted")
	return nil
}

// CreateReview submits a review for movieID and appends the server's copy,
// which carries the server-assigned id and timestamps.
func (c *EntityCache) CreateReview(ctx context.Context, movieID int64, in domain.ReviewInput) (domain.Review, error) {
	identity := c.identity.CurrentIdentity()
	if identity == nil {
		return domain.Review{}, c.deny(opCreateReview, nil)
	}

	c.mu.RLock()
	i := c.indexOf(movieID)
	allowed := i >= 0 && authz.CanCreateReview(identity, c.movies[i])
	c.mu.RUnlock()

	if i < 0 {
		return domain.Review{}, fmt.Errorf("%s: %w", opCreateReview, domain.ErrMovieNotFound)
	}
	if !allowed {
		metrics.MutationsTotal.WithLabelValues(label(opCreateReview), metrics.ResultDenied).Inc()
		return domain.Review{}, fmt.Errorf("%s: %w", opCreateReview, domain.ErrAlreadyReviewed)
	}
	if err := validation.Validate(in); err != nil {
		return domain.Review{}, err
	}

	created, err := c.api.CreateReview(ctx, movieID, in)
	if err != nil {
		return domain.Review{}, c.reject(opCreateReview, err)
	}

	c.mu.Lock()
	if i := c.indexOf(movieID); i >= 0 {
		c.movies[i].Reviews = append(c.movies[i].Reviews, *created)
	} else {
		c.log.Warn().Int64("movie_id", movieID).Msg("movie left the cache before its new review arrived")
	}
	c.mu.Unlock()

	c.succeed(opCreateReview)
	c.log.Info().Int64("movie_id", movieID).Int64("review_id", created.ID).Msg("review created")
	return *created, nil
}

// UpdateReview rewrites the review's text, rating, and updated_at locally
// before the server confirms. On success the server's copy replaces the
// optimistic one; on rejection the pre-edit values are restored unless a
// later mutation already replaced the entry.
func (c *EntityCache) UpdateReview(ctx context.Context, reviewID int64, in domain.ReviewInput) (domain.Review, error) {
	if err := validation.Validate(in); err != nil {
		return domain.Review{}, err
	}
	identity := c.identity.CurrentIdentity()

	c.mu.Lock()
	mi, ri := c.locateReview(reviewID)
	if mi < 0 {
		c.mu.Unlock()
		return domain.Review{}, fmt.Errorf("%s %d: %w", opUpdateReview, reviewID, domain.ErrReviewNotFound)
	}
	original := c.movies[mi].Reviews[ri]
	if !authz.ReviewActions(identity, original.ReviewAuthor).Has(authz.ActionUpdate) {
		c.mu.Unlock()
		return domain.Review{}, c.deny(opUpdateReview, identity)
	}
	optimistic := original
	optimistic.Review = in.Review
	optimistic.Rating = in.Rating
	optimistic.UpdatedAt = c.now().UTC()
	c.movies[mi].Reviews[ri] = optimistic
	c.mu.Unlock()

	updated, err := c.api.UpdateReview(ctx, reviewID, in)
	if err != nil {
		c.mu.Lock()
		restored := false
		if mi, ri := c.locateReview(reviewID); mi >= 0 && sameReview(c.movies[mi].Reviews[ri], optimistic) {
			c.movies[mi].Reviews[ri] = original
			restored = true
		}
		c.mu.Unlock()

		if restored {
			metrics.RollbacksTotal.WithLabelValues(label(opUpdateReview)).Inc()
			c.log.Warn().Int64("review_id", reviewID).Msg("optimistic review update rolled back")
		}
		return domain.Review{}, c.reject(opUpdateReview, err)
	}

	result := optimistic
	if updated != nil && updated.ID == reviewID {
		result = *updated
		c.mu.Lock()
		if mi, ri := c.locateReview(reviewID); mi >= 0 {
			c.movies[mi].Reviews[ri] = result
		}
		c.mu.Unlock()
	}

	c.succeed(opUpdateReview)
	return result, nil
}

// DeleteReview removes the review locally before the server confirms. If the
// server rejects the deletion the review is put back at its original index in
// its movie's reviews.
func (c *EntityCache) DeleteReview(ctx context.Context, reviewID int64) error {
	identity := c.identity.CurrentIdentity()

	c.mu.Lock()
	mi, ri := c.locateReview(reviewID)
	if mi < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%s %d: %w", opDeleteReview, reviewID, domain.ErrReviewNotFound)
	}
	removed := c.movies[mi].Reviews[ri]
	if !authz.ReviewActions(identity, removed.ReviewAuthor).Has(authz.ActionDelete) {
		c.mu.Unlock()
		return c.deny(opDeleteReview, identity)
	}
	movieID := c.movies[mi].ID
	c.movies[mi].Reviews = without(c.movies[mi].Reviews, ri)
	c.mu.Unlock()

	if err := c.api.DeleteReview(ctx, reviewID); err != nil {
		c.mu.Lock()
		restored := false
		if mi := c.indexOf(movieID); mi >= 0 && indexOfReview(c.movies[mi].Reviews, reviewID) < 0 {
			c.movies[mi].Reviews = insertAt(c.movies[mi].Reviews, ri, removed)
			restored = true
		}
		c.mu.Unlock()

		if restored {
			metrics.RollbacksTotal.WithLabelValues(label(opDeleteReview)).Inc()
			c.log.Warn().Int64("review_id", reviewID).Int("index", ri).Msg("optimistic review delete rolled back")
		} else {
			c.log.Error().Int64("review_id", reviewID).Int64("movie_id", movieID).Msg("could not restore review after rejected delete")
		}
		return c.reject(opDeleteReview, err)
	}

	c.succeed(opDeleteReview)
	c.log.Info().Int64("review_id", reviewID).Int64("movie_id", movieID).Msg("review deleted")
	return nil
}

func (c *EntityCache) deny(op string, identity *domain.Identity) error {
	metrics.MutationsTotal.WithLabelValues(label(op), metrics.ResultDenied).Inc()
	if identity == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
}

func (c *EntityCache) reject(op string, err error) error {
	metrics.MutationsTotal.WithLabelValues(label(op), metrics.ResultRejected).Inc()
	c.log.Warn().Err(err).Str("operation", op).Msg("mutation rejected")
	return fmt.Errorf("%s: %w: %w", op, domain.ErrMutationRejected, err)
}

func (c *EntityCache) succeed(op string) {
	metrics.MutationsTotal.WithLabelValues(label(op), metrics.ResultOK).Inc()
}

// indexOf must be called with mu held.
func (c *EntityCache) indexOf(id int64) int {
	for i, m := range c.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// locateReview returns the movie and review indexes of reviewID, or -1, -1.
// It must be called with mu held.
func (c *EntityCache) locateReview(reviewID int64) (int, int) {
	for mi, m := range c.movies {
		if ri := indexOfReview(m.Reviews, reviewID); ri >= 0 {
			return mi, ri
		}
	}
	return -1, -1
}

func (c *EntityCache) upsertMovie(m domain.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(m.ID); i >= 0 {
		c.movies[i] = m
		return
	}
	c.movies = append(c.movies, m)
}

func (c *EntityCache) removeMovie(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		c.movies = append(c.movies[:i:i], c.movies[i+1:]...)
	}
}

func indexOfReview(reviews []domain.Review, id int64) int {
	for i, r := range reviews {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// without returns a new slice with reviews[i] removed.
func without(reviews []domain.Review, i int) []domain.Review {
	out := make([]domain.Review, 0, len(reviews)-1)
	out = append(out, reviews[:i]...)
	return append(out, reviews[i+1:]...)
}

// insertAt returns a new slice with r at index i, clamped to the slice length.
func insertAt(reviews []domain.Review, i int, r domain.Review) []domain.Review {
	if i > len(reviews) {
		i = len(reviews)
	}
	out := make([]domain.Review, 0, len(reviews)+1)
	out = append(out, reviews[:i]...)
	out = append(out, r)
	return append(out, reviews[i:]...)
}

func sameReview(a, b domain.Review) bool {
	return a.ID == b.ID &&
		a.Review == b.Review &&
		a.Rating == b.Rating &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

// normalize returns a private deep copy of m with a non-nil Reviews slice.
func normalize(m domain.Movie) domain.Movie {
	out := m.Clone()
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out
}

func label(op string) string {
	return strings.ReplaceAll(op, " ", "_")
}
