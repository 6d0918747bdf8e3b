package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "aspira/internal/errors"
	"aspira/internal/service"
)

// AuthHandler handles login, token refresh, and logout.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest carries credentials; exactly one of username or email names
// the account.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// TokenPairResponse is the login response body.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Login godoc
// @Summary Obtain an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials (username or email)"
// @Success 200 {object} TokenPairResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/auth/login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	access, refresh, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TokenPairResponse{Access: access, Refresh: refresh})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenPairResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/auth/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: err.Error(), Code: "INVALID_REFRESH_TOKEN",
		})
	}
	return c.JSON(http.StatusOK, TokenPairResponse{Access: access})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/auth/logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: err.Error(), Code: "INVALID_REFRESH_TOKEN",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out successfully"})
}
