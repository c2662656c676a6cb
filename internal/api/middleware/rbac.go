package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// RBAC admits callers whose role is one of allowedRoles. It must run after
// Auth or OptionalAuth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := c.Get("actor").(ports.Actor)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			if _, ok := allowed[domain.RoleFromStaff(actor.IsStaff)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
			}
			return next(c)
		}
	}
}

// ReadOnlyOr applies guard only to unsafe methods; GET, HEAD, and OPTIONS pass.
func ReadOnlyOr(guard echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := guard(next)
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			return guarded(c)
		}
	}
}
