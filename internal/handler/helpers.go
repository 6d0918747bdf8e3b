package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"aspira/internal/auth"
	apperrors "aspira/internal/errors"
)

// respondError maps a domain error onto the standard error response body.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// currentClaims returns the JWT claims set by the auth middleware.
func currentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return claims, nil
}

// errInvalidBody covers bodies the binder cannot parse at all.
var errInvalidBody = apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_BODY")

// bindAndValidate binds the body and collects every failed field into one
// FieldErrors value so the client can fix all of them in a single round trip.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			return collectFieldErrors(verrs)
		}
		return apperrors.NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_BODY")
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// collectFieldErrors turns validator failures into per-field messages.
func collectFieldErrors(verrs validator.ValidationErrors) apperrors.FieldErrors {
	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(jsonFieldName(fe), fieldMessage(fe))
	}
	return fields
}

func jsonFieldName(fe validator.FieldError) string {
	// Struct fields map onto their snake_case JSON names.
	switch fe.Field() {
	case "PasswordConfirmation":
		return "password_confirmation"
	case "FullName":
		return "full_name"
	case "PhoneNumber":
		return "phone_number"
	case "NIM":
		return "nim"
	case "ReactionType":
		return "reaction_type"
	case "RefreshToken":
		return "refresh_token"
	default:
		return toSnake(fe.Field())
	}
}

func toSnake(s string) string {
	out := make([]rune, 0, len(s)+4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email format."
	case "min":
		return "Value is too short."
	case "max":
		return "Value is too long."
	case "eqfield":
		return "Passwords do not match."
	case "username_charset":
		return "Username contains invalid characters."
	case "nim":
		return "Invalid NIM format. Use 8-20 digits."
	case "phone":
		return "Invalid phone number format."
	case "gte", "lte":
		return "Value is out of range."
	default:
		return "Invalid value."
	}
}
