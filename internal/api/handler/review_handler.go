package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

type ReviewHandler struct {
	catalog ports.CatalogService
}

func NewReviewHandler(catalog ports.CatalogService) *ReviewHandler {
	return &ReviewHandler{catalog: catalog}
}

// ListForMovie returns the reviews of one movie.
//
// @Summary      List reviews of a movie
// @Tags         reviews
// @Produce      json
// @Param        id   path     int  true  "Movie id"
// @Success      200  {array}  domain.Review
// @Router       /movies/{id}/review/ [get]
func (h *ReviewHandler) ListForMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.catalog.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Reviews)
}

// Create adds the caller's review to a movie. One review per user per movie.
//
// @Summary      Create review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Movie id"
// @Param        body  body      domain.ReviewInput  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {array}   string
// @Security     BearerAuth
// @Router       /movies/{id}/review/ [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	movieID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}

	r, err := h.catalog.CreateReview(c.Request().Context(), actor, movieID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Update rewrites a review. Author or staff only.
//
// @Summary      Update review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Review id"
// @Param        body  body      domain.ReviewInput  true  "Review"
// @Success      200   {object}  domain.Review
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /reviews/{id}/ [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}

	r, err := h.catalog.UpdateReview(c.Request().Context(), actor, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes a review. Author or staff only.
//
// @Summary      Delete review
// @Tags         reviews
// @Param        id   path  int  true  "Review id"
// @Success      204
// @Security     BearerAuth
// @Router       /reviews/{id}/ [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteReview(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
