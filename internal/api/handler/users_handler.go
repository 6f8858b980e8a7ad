package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/ports"
)

// UsersHandler serves /users: registration, login, logout and profile.
type UsersHandler struct {
	authService ports.AuthService
	identity    string
}

// NewUsersHandler builds a handler; identity names the login field
// ("email" unless configured otherwise).
func NewUsersHandler(authService ports.AuthService, identity string) *UsersHandler {
	if identity == "" {
		identity = "email"
	}
	return &UsersHandler{authService: authService, identity: identity}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Description  Stores every body field except password and returns the user with an accessToken.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "Identity field, password and optional profile fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /users/register [post]
func (h *UsersHandler) Register(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "Identity field and password"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /users/login [post]
func (h *UsersHandler) Login(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}
	identity, _ := body[h.identity].(string)
	password, _ := body["password"].(string)

	user, err := h.authService.Login(c.Request().Context(), identity, password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout closes the caller's session.
//
// @Summary      Logout
// @Tags         users
// @Param        X-Authorization  header  string  true  "Access token"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Router       /users/logout [get]
func (h *UsersHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), actorFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Param        X-Authorization  header  string  true  "Access token"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /users/me [get]
func (h *UsersHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
