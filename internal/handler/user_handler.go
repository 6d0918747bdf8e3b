package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "aspira/internal/errors"
	"aspira/internal/service"
)

// UserHandler handles registration, email verification, and profile endpoints.
type UserHandler struct {
	registration service.RegistrationService
	profiles     service.ProfileService
	frontendURL  string
}

// NewUserHandler creates a new user handler.
func NewUserHandler(registration service.RegistrationService, profiles service.ProfileService, frontendURL string) *UserHandler {
	return &UserHandler{registration: registration, profiles: profiles, frontendURL: frontendURL}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username             string `json:"username" validate:"required,max=150,username_charset"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,min=8,eqfield=Password"`
	FullName             string `json:"full_name" validate:"required,max=100"`
	NIM                  string `json:"nim" validate:"required,nim"`
	Jurusan              string `json:"jurusan" validate:"required,max=100"`
	Angkatan             int    `json:"angkatan" validate:"required,gte=2000,lte=2100"`
	PhoneNumber          string `json:"phone_number" validate:"omitempty,phone"`
}

// ResendVerificationRequest represents a resend-verification request.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Jurusan     *string `json:"jurusan" validate:"omitempty,max=100"`
	Angkatan    *int    `json:"angkatan" validate:"omitempty,gte=2000,lte=2100"`
}

// Register godoc
// @Summary Register a new user with campus profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/ [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	// Format failures do not short-circuit: the service merges them with its
	// duplicate-identity checks so the client gets one combined field map.
	fields := apperrors.FieldErrors{}
	if err := c.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if !asValidationErrors(err, &verrs) {
			return respondError(c, apperrors.NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_BODY"))
		}
		fields = collectFieldErrors(verrs)
	}

	user, err := h.registration.Register(c.Request().Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		NIM:         req.NIM,
		Jurusan:     req.Jurusan,
		Angkatan:    req.Angkatan,
		PhoneNumber: req.PhoneNumber,
	}, fields)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":     user,
		"message":  "User registered successfully. Please verify your email.",
		"redirect": h.frontendURL + "/home",
	})
}

// VerifyEmail godoc
// @Summary Consume an email verification token
// @Tags users
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/auth/verify-email/ [get]
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Token is required", Code: "TOKEN_REQUIRED",
		})
	}

	alreadyVerified, err := h.registration.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	if alreadyVerified {
		return c.JSON(http.StatusOK, map[string]string{"message": "Email already verified"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// ResendVerification godoc
// @Summary Re-send the verification email with a fresh token
// @Tags users
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/auth/resend-verification/ [post]
func (h *UserHandler) ResendVerification(c echo.Context) error {
	var req ResendVerificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	alreadyVerified, err := h.registration.ResendVerification(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	if alreadyVerified {
		return c.JSON(http.StatusOK, map[string]string{"message": "Email already verified"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Verification email resent"})
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile/ [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Partially update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile/ [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.profiles.Update(c.Request().Context(), claims.UserID, service.ProfileUpdate{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Jurusan:     req.Jurusan,
		Angkatan:    req.Angkatan,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
