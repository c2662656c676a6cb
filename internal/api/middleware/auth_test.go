package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/ports"
)

type stubAuthenticator map[string]ports.Actor

func (s stubAuthenticator) Authenticate(raw string) (ports.Actor, error) {
	actor, ok := s[raw]
	if !ok {
		return ports.Actor{}, errors.New("bad token")
	}
	return actor, nil
}

var authn = stubAuthenticator{"good": {Username: "alice", IsStaff: true}}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (called bool, actor any, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	err = mw(func(c echo.Context) error {
		called = true
		actor = c.Get("actor")
		return nil
	})(c)
	return called, actor, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called, actor, err := run(t, Auth(authn), "Bearer good")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if a, ok := actor.(ports.Actor); !ok || a.Username != "alice" || !a.IsStaff {
		t.Fatalf("actor not set: %+v", actor)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called, _, err := run(t, Auth(authn), "")
	if called {
		t.Fatalf("next must not be called")
	}
	if code := statusOf(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	for _, header := range []string{"Bearer bad", "Basic good", "good"} {
		_, _, err := run(t, Auth(authn), header)
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, code)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	called, actor, err := run(t, OptionalAuth(authn), "")
	if err != nil || !called || actor != nil {
		t.Fatalf("anonymous request should pass without actor: called=%v actor=%v err=%v", called, actor, err)
	}

	_, _, err = run(t, OptionalAuth(authn), "Bearer bad")
	if code := statusOf(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", code)
	}
}
