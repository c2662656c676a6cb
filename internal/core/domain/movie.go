package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Review is a single user's rating of a movie. Rating is an integer in [1,10].
type Review struct {
	ID           int64     `json:"id" bson:"id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
	ReviewAuthor string    `json:"review_author" bson:"review_author"`
	Review       string    `json:"review" bson:"review"`
	Rating       int       `json:"rating" bson:"rating"`
}

// Edited reports whether the review was changed after creation.
func (r Review) Edited() bool {
	return !r.UpdatedAt.Equal(r.CreatedAt)
}

// Movie is the client-side copy of a server-owned movie. Reviews is the only
// place reviews are stored.
type Movie struct {
	ID          int64    `json:"id" bson:"_id"`
	Title       string   `json:"title" bson:"title"`
	Director    string   `json:"director" bson:"director"`
	Category    string   `json:"category" bson:"category"`
	Description string   `json:"description" bson:"description"`
	ReleaseDate string   `json:"release_date" bson:"release_date"`
	Reviews     []Review `json:"reviews" bson:"reviews"`
}

// Clone returns a deep copy of m.
func (m Movie) Clone() Movie {
	out := m
	out.Reviews = make([]Review, len(m.Reviews))
	copy(out.Reviews, m.Reviews)
	return out
}

// ReviewBy returns the index of the review authored by username, or -1.
func (m Movie) ReviewBy(username string) int {
	for i, r := range m.Reviews {
		if r.ReviewAuthor == username {
			return i
		}
	}
	return -1
}

// MovieInput is the writable part of a movie (Movie minus id and reviews).
type MovieInput struct {
	Title       string `json:"title"        validate:"required,max=100"`
	Director    string `json:"director"     validate:"required,max=50"`
	Category    string `json:"category"     validate:"required,max=40"`
	Description string `json:"description"  validate:"required"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
}

// ReviewInput is the body of a review create or update.
type ReviewInput struct {
	Review string `json:"review" validate:"required"`
	Rating int    `json:"rating" validate:"min=1,max=10"`
}

// FilterMovies returns the movies whose title, director, or category contains
// query, case-insensitively. An empty query returns movies unchanged.
func FilterMovies(movies []Movie, query string) []Movie {
	if query == "" {
		return movies
	}
	q := strings.ToLower(query)
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Director), q) ||
			strings.Contains(strings.ToLower(m.Category), q) {
			out = append(out, m)
		}
	}
	return out
}

// ReviewSort selects the ordering used by SortReviews.
type ReviewSort string

const (
	SortByDate   ReviewSort = "date"
	SortByRating ReviewSort = "rating"
)

// SortReviews returns a sorted copy of reviews. The input is left untouched.
func SortReviews(reviews []Review, by ReviewSort, descending bool) []Review {
	out := make([]Review, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if descending {
			a, b = b, a
		}
		if by == SortByRating {
			return a.Rating < b.Rating
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out
}

// AverageRating returns the mean rating and false when there are no reviews.
func AverageRating(reviews []Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), true
}

// FormatAverageRating renders the average as "7.5" or "No ratings".
func FormatAverageRating(reviews []Review) string {
	avg, ok := AverageRating(reviews)
	if !ok {
		return "No ratings"
	}
	return fmt.Sprintf("%.1f", avg)
}
