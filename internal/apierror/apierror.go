package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound            ErrorCode = "NOT_FOUND"
	ErrConflict            ErrorCode = "CONFLICT"
	ErrBadRequest          ErrorCode = "BAD_REQUEST"
	ErrInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrExpired             ErrorCode = "EXPIRED"
	ErrMaxAttemptsExceeded ErrorCode = "MAX_ATTEMPTS_EXCEEDED"
	ErrMismatch            ErrorCode = "MISMATCH"
	ErrTransientService    ErrorCode = "TRANSIENT_SERVICE_ERROR"
	ErrInternalServer      ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Retryable reports whether the error kind is paired with a retry affordance
// at the step-action boundary rather than aborting the session.
func Retryable(err error) bool {
	apiErr, ok := err.(APIError)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case ErrExpired, ErrMaxAttemptsExceeded, ErrMismatch, ErrTransientService:
		return true
	}
	return false
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrInvalidInput, ErrBadRequest, ErrMismatch:
			return http.StatusBadRequest
		case ErrExpired:
			return http.StatusGone
		case ErrMaxAttemptsExceeded:
			return http.StatusTooManyRequests
		case ErrTransientService:
			return http.StatusServiceUnavailable
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
