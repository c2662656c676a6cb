// Package apiclient is the JSON-over-HTTP transport for the movie review API.
// It implements ports.AuthAPI and ports.MoviesAPI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-ID"
)

// Client talks to an API rooted at baseURL, e.g. http://localhost:8000/api.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
}

var (
	_ ports.AuthAPI   = (*Client)(nil)
	_ ports.MoviesAPI = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseTokens sets where bearer tokens come from. Until it is called every
// request is anonymous.
func (c *Client) UseTokens(tokens ports.TokenSource) {
	c.tokens = tokens
}

func (c *Client) Login(ctx context.Context, username, password string) (*domain.Credentials, error) {
	body := map[string]string{"username": username, "password": password}
	var creds domain.Credentials
	if err := c.do(ctx, http.MethodPost, "/token/", body, &creds, false); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/registration/", reg, nil, false)
}

// Refresh exchanges a refresh token for a new access token. SessionManager
// never calls it: the refresh token is persisted but expiry is advisory, so
// this exists for tooling that wants to renew a session explicitly.
func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/token/refresh/", map[string]string{"refresh": refresh}, &out, false); err != nil {
		return "", err
	}
	return out.Access, nil
}

func (c *Client) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := c.do(ctx, http.MethodGet, "/movies/", nil, &movies, true); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	var m domain.Movie
	if err := c.do(ctx, http.MethodGet, moviePath(id), nil, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateMovie(ctx context.Context, in domain.MovieInput) (*domain.Movie, error) {
	var m domain.Movie
	if err := c.do(ctx, http.MethodPost, "/movies/", in, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMovie(ctx context.Context, id int64, in domain.MovieInput) (*domain.Movie, error) {
	var m domain.Movie
	if err := c.do(ctx, http.MethodPut, moviePath(id), in, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMovie(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, moviePath(id), nil, nil, true)
}

func (c *Client) CreateReview(ctx context.Context, movieID int64, in domain.ReviewInput) (*domain.Review, error) {
	var r domain.Review
	if err := c.do(ctx, http.MethodPost, moviePath(movieID)+"review/", in, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateReview(ctx context.Context, reviewID int64, in domain.ReviewInput) (*domain.Review, error) {
	var r domain.Review
	if err := c.do(ctx, http.MethodPut, reviewPath(reviewID), in, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.do(ctx, http.MethodDelete, reviewPath(reviewID), nil, nil, true)
}

// do sends one request. Non-2xx answers become *ports.APIError carrying the
// raw body; out may be nil when the response body is not needed.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authenticated bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestDuration.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.RequestDuration.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ports.APIError{StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func moviePath(id int64) string {
	return "/movies/" + strconv.FormatInt(id, 10) + "/"
}

func reviewPath(id int64) string {
	return "/reviews/" + strconv.FormatInt(id, 10) + "/"
}
