package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

type MovieHandler struct {
	catalog ports.CatalogService
}

func NewMovieHandler(catalog ports.CatalogService) *MovieHandler {
	return &MovieHandler{catalog: catalog}
}

// List returns every movie with its reviews.
//
// @Summary      List movies
// @Tags         movies
// @Produce      json
// @Success      200  {array}  domain.Movie
// @Router       /movies/ [get]
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.catalog.ListMovies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns one movie.
//
// @Summary      Get movie
// @Tags         movies
// @Produce      json
// @Param        id   path      int  true  "Movie id"
// @Success      200  {object}  domain.Movie
// @Failure      404  {object}  map[string]string
// @Router       /movies/{id}/ [get]
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.catalog.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Create adds a movie. Staff only.
//
// @Summary      Create movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        body  body      domain.MovieInput  true  "Movie"
// @Success      201   {object}  domain.Movie
// @Failure      400   {object}  map[string][]string
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /movies/ [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var in domain.MovieInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.catalog.CreateMovie(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// Update replaces a movie's fields. Staff only.
//
// @Summary      Update movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Movie id"
// @Param        body  body      domain.MovieInput  true  "Movie"
// @Success      200   {object}  domain.Movie
// @Security     BearerAuth
// @Router       /movies/{id}/ [put]
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.MovieInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.catalog.UpdateMovie(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a movie and its reviews. Staff only.
//
// @Summary      Delete movie
// @Tags         movies
// @Param        id   path  int  true  "Movie id"
// @Success      204
// @Security     BearerAuth
// @Router       /movies/{id}/ [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteMovie(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
