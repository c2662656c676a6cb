package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(raw string) (ports.Actor, error)
}

// Auth requires a valid bearer token and stores the caller under "actor".
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return authenticate(authn, true)
}

// OptionalAuth lets anonymous requests through but still rejects a bearer
// token that does not verify.
func OptionalAuth(authn Authenticator) echo.MiddlewareFunc {
	return authenticate(authn, false)
}

func authenticate(authn Authenticator, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			actor, err := authn.Authenticate(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
			}

			c.Set("actor", actor)
			return next(c)
		}
	}
}
