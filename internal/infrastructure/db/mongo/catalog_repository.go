package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

const (
	collectionMovies = "movies"
	sequenceReviews  = "reviews"
)

// CatalogRepository stores each movie as one document with its reviews
// embedded, mirroring the API's nested shape.
type CatalogRepository struct {
	col *mongo.Collection
	seq *sequence
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{col: db.Collection(collectionMovies), seq: newSequence(db)}
}

func (r *CatalogRepository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	movies := []domain.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	for i := range movies {
		withReviews(&movies[i])
	}
	return movies, nil
}

func (r *CatalogRepository) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findMovie(ctx, bson.M{"_id": id})
}

func (r *CatalogRepository) CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionMovies)
	if err != nil {
		return nil, err
	}
	m := domain.Movie{
		ID:          id,
		Title:       in.Title,
		Director:    in.Director,
		Category:    in.Category,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		Reviews:     []domain.Review{},
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return &m, nil
}

func (r *CatalogRepository) UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Movie
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":        in.Title,
			"director":     in.Director,
			"category":     in.Category,
			"description":  in.Description,
			"release_date": in.ReleaseDate,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	withReviews(&m)
	return &m, nil
}

func (r *CatalogRepository) DeleteMovie(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *CatalogRepository) AddReview(ctx context.Context, movieID int64, rev domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, sequenceReviews)
	if err != nil {
		return nil, err
	}
	rev.ID = id

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": movieID}, bson.M{"$push": bson.M{"reviews": rev}})
	if err != nil {
		return nil, fmt.Errorf("push review: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMovieNotFound
	}
	return &rev, nil
}

func (r *CatalogRepository) FindReview(ctx context.Context, reviewID int64) (*domain.Review, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := r.findMovie(ctx, bson.M{"reviews.id": reviewID})
	if errors.Is(err, domain.ErrMovieNotFound) {
		return nil, 0, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	for _, rev := range m.Reviews {
		if rev.ID == reviewID {
			return &rev, m.ID, nil
		}
	}
	return nil, 0, domain.ErrReviewNotFound
}

func (r *CatalogRepository) UpdateReview(ctx context.Context, rev domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"reviews.id": rev.ID},
		bson.M{"$set": bson.M{"reviews.$": rev}},
	)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return &rev, nil
}

func (r *CatalogRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"reviews.id": reviewID},
		bson.M{"$pull": bson.M{"reviews": bson.M{"id": reviewID}}},
	)
	if err != nil {
		return fmt.Errorf("pull review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// EnsureIndexes indexes embedded review ids for FindReview and friends.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reviews.id", Value: 1}},
	})
	return err
}

func (r *CatalogRepository) findMovie(ctx context.Context, filter bson.M) (*domain.Movie, error) {
	var m domain.Movie
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	withReviews(&m)
	return &m, nil
}

func withReviews(m *domain.Movie) {
	if m.Reviews == nil {
		m.Reviews = []domain.Review{}
	}
}
