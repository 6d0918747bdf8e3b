package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a referenced comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrUserNotFound is returned when no account matches the given identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken is returned when a verification token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrEmailNotVerified blocks authentication until the email is verified.
	ErrEmailNotVerified = errors.New("email is not verified")
	// ErrInvalidCredentials is returned on any username/email/password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbiddenContent is returned when text fails the content filter.
	// The message is deliberately generic and never names the matched word.
	ErrForbiddenContent = errors.New("content contains inappropriate language")
	// ErrNotOwner is returned when a user mutates a resource they do not own.
	ErrNotOwner = errors.New("not the owner of this resource")
	// ErrMailTransport is returned when a verification email cannot be sent.
	ErrMailTransport = errors.New("failed to send verification email")
)

// FieldErrors collects per-field validation failures so a client can fix all
// of them in one round trip.
type FieldErrors map[string][]string

// Error implements the error interface.
func (f FieldErrors) Error() string {
	return "validation failed"
}

// Add appends a message for a field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// HasErrors reports whether any field failed.
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     FieldErrors
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fields FieldErrors
	if errors.As(err, &fields) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Code:       "VALIDATION_ERROR",
			Fields:     fields,
		}
	}

	switch {
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "POST_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrEmailNotVerified):
		return NewHTTPError(http.StatusForbidden, err.Error(), "EMAIL_NOT_VERIFIED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbiddenContent):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FORBIDDEN_CONTENT")
	case errors.Is(err, ErrNotOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrMailTransport):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "MAIL_TRANSPORT_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
