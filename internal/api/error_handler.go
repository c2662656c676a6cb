package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// errorResponse is the envelope for errors that are not tied to a field.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders validation failures as {"field": ["message", ...]}.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Detail: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Fields
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return http.StatusBadRequest, []string{"You have already reviewed this movie"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}}
	case errors.Is(err, domain.ErrMovieNotFound), errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, errorResponse{Detail: "Not found."}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Detail: "You do not have permission to perform this action."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Detail: "No active account found with the given credentials"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Detail: "internal server error"}
}
