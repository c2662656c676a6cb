package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type userResponse struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// Register creates a new account. Authenticated non-staff callers are refused.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Registration  true  "Registration form"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string][]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/registration/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	if actor, ok := actorFrom(c); ok && !actor.IsStaff {
		return echo.NewHTTPError(http.StatusForbidden, "You are already authenticated. Please log out to register a new account.")
	}

	var req domain.Registration
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// RegistrationInfo describes the registration form.
//
// @Summary      Registration form
// @Tags         auth
// @Produce      json
// @Router       /auth/registration/ [get]
func (h *AuthHandler) RegistrationInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Please use POST method to register",
		"required_fields": map[string]string{
			"username":  "string",
			"email":     "string",
			"password1": "string",
			"password2": "string",
		},
	})
}

// Login exchanges credentials for an access/refresh token pair.
//
// @Summary      Obtain token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.Credentials
// @Failure      401   {object}  map[string]string
// @Router       /token/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	creds, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, creds)
}

// Refresh issues a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  map[string]string
// @Router       /token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}

// Me returns the caller's identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/user/ [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Username: actor.Username, IsStaff: actor.IsStaff})
}
