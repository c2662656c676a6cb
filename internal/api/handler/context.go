package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/ports"
)

// actorFrom returns the caller established by the auth middleware, if any.
func actorFrom(c echo.Context) (ports.Actor, bool) {
	actor, ok := c.Get("actor").(ports.Actor)
	return actor, ok && actor.Username != ""
}

// requireActor fails with 401 when the request carries no identity. Routes
// behind middleware.Auth never hit that branch.
func requireActor(c echo.Context) (ports.Actor, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return actor, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return id, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "JSON parse error")
	}
	return nil
}
