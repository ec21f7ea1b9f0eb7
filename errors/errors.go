package errors

import (
	"fmt"
	"net/http"

	"github.com/RainParade/rain-parade-backend/logger"
)

type ErrorType string

const (
	ValidationError        ErrorType = "VALIDATION_ERROR"
	NotFoundError          ErrorType = "NOT_FOUND"
	DatabaseError          ErrorType = "DATABASE_ERROR"
	ServerError            ErrorType = "SERVER_ERROR"
	ExternalAPIError       ErrorType = "EXTERNAL_API_ERROR"
	MalformedResponseError ErrorType = "MALFORMED_RESPONSE"
	GeocodeNoMatchError    ErrorType = "GEOCODE_NO_MATCH"
	ArtifactLoadError      ErrorType = "ARTIFACT_LOAD_ERROR"
	RateLimitError         ErrorType = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped raw error for errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// Category returns the error type as a plain string for structured logs.
func (e *AppError) Category() string {
	return string(e.Type)
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper constructors for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ExternalAPIFailed covers every upstream call failure: timeout, connection
// error, or a non-2xx response from the weather or geocoding providers.
func ExternalAPIFailed(provider string, err error) *AppError {
	return &AppError{
		Type:       ExternalAPIError,
		Message:    fmt.Sprintf("%s request failed", provider),
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// MalformedResponse covers an upstream payload that decoded into an
// unexpected shape, e.g. a missing block the caller relies on.
func MalformedResponse(provider string, detail string) *AppError {
	return &AppError{
		Type:       MalformedResponseError,
		Message:    fmt.Sprintf("%s returned an unexpected payload", provider),
		Detail:     detail,
		HTTPStatus: http.StatusBadGateway,
	}
}

// GeocodeNoMatch means the geocoder answered normally but found nothing for
// the query. Handlers surface this as a warning, never as a failed request.
func GeocodeNoMatch(query string) *AppError {
	return &AppError{
		Type:       GeocodeNoMatchError,
		Message:    "Location not found",
		Detail:     fmt.Sprintf("No match for: %s", query),
		HTTPStatus: http.StatusOK,
	}
}

func ArtifactLoadFailed(path string, err error) *AppError {
	return &AppError{
		Type:       ArtifactLoadError,
		Message:    "Failed to load classifier artifact",
		Detail:     fmt.Sprintf("path: %s: %v", path, err),
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case DatabaseError:
		return http.StatusInternalServerError
	case ExternalAPIError, MalformedResponseError:
		return http.StatusBadGateway
	case ArtifactLoadError:
		return http.StatusServiceUnavailable
	case RateLimitError:
		return http.StatusTooManyRequests
	case GeocodeNoMatchError:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
