package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "forum/internal/errors"
	"forum/internal/model"
	"forum/internal/service"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	accountService service.AccountService
	sessionService service.SessionService
	cookie         CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountService service.AccountService, sessionService service.SessionService, cookie CookieConfig) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = sessionService.TTL()
	}
	return &AuthHandler{
		accountService: accountService,
		sessionService: sessionService,
		cookie:         cookie,
	}
}

// CredentialsRequest is the body of register and login calls.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserResponse is returned by register and login.
type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// AuthCheckResponse is returned by the session probe.
type AuthCheckResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accountService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, UserResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// Login godoc
// @Summary Log in and receive a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.sessionService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(err)
	}

	c.SetCookie(h.cookie.session(token))
	return c.JSON(http.StatusOK, UserResponse{
		Message: "Login successful",
		User:    user,
	})
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return respondError(apperrors.ErrUnauthenticated)
	}

	if err := h.sessionService.Logout(c.Request().Context(), cookie.Value); err != nil {
		return respondError(err)
	}

	c.SetCookie(h.cookie.cleared())
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// TestAuth godoc
// @Summary Check that the session cookie is accepted
// @Tags auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} AuthCheckResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /test_auth [get]
func (h *AuthHandler) TestAuth(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return respondError(apperrors.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, AuthCheckResponse{
		Message:  "Authentication working",
		Username: session.Username,
	})
}
