package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrFetchFailed = errors.New("fetch failed")
var ErrMutationRejected = errors.New("mutation rejected")
var ErrForbidden = errors.New("access forbidden")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrAlreadyReviewed = errors.New("you have already reviewed this movie")
var ErrMovieNotFound = errors.New("movie not found")
var ErrReviewNotFound = errors.New("review not found")
var ErrMalformedToken = errors.New("malformed session token")
var ErrCorruptSession = errors.New("corrupt session data")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

// NonFieldErrors is the key used for messages that are not tied to a single field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries field-level validation messages. The field set
// mirrors whatever the server (or the local validator) reported.
type ValidationError struct {
	Fields map[string][]string
	cause  error
}

// NewValidationError builds a ValidationError, optionally wrapping the error
// that produced it.
func NewValidationError(fields map[string][]string, cause error) *ValidationError {
	if fields == nil {
		fields = map[string][]string{}
	}
	return &ValidationError{Fields: fields, cause: cause}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	if len(parts) == 0 {
		return "validation rejected"
	}
	return "validation rejected: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// Field returns the messages recorded for name, if any.
func (e *ValidationError) Field(name string) []string {
	return e.Fields[name]
}
