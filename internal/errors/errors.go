package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when no valid session accompanies a request.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	// Deliberately the same message for both cases.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrDuplicateDoctor is returned on a username or email uniqueness violation.
	// Which field collided is not disclosed.
	ErrDuplicateDoctor = errors.New("username or email already registered")
	// ErrModelUnavailable is returned when the classifier could not be loaded.
	ErrModelUnavailable = errors.New("prediction model unavailable")
	// ErrNotFoundOrForbidden is returned when a patient does not exist or is not
	// owned by the caller. The two cases are indistinguishable on purpose.
	ErrNotFoundOrForbidden = errors.New("patient not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy is a storage or internal failure and surfaces as a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrDuplicateDoctor):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REGISTERED")
	case errors.Is(err, ErrModelUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "MODEL_UNAVAILABLE")
	case errors.Is(err, ErrNotFoundOrForbidden):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
