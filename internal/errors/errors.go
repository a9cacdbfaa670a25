package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is returned for malformed input. Wrap it with the detail.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUser is returned when registering an existing username.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials is returned for any failed login, whatever part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned for a missing, invalid, expired or revoked session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// Validation wraps ErrValidation with a human-readable detail.
func Validation(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown is a
// store failure and gets an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateUser.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, ErrPostNotFound.Error(), "POST_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
