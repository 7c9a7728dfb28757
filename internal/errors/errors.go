package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// Transport-level error categories
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"

	// Fingerprint pipeline error categories
	ErrorTypeInvalidImage       ErrorType = "invalid_image"
	ErrorTypeNoMinutiaeFound    ErrorType = "no_minutiae_found"
	ErrorTypeLowQuality         ErrorType = "low_quality"
	ErrorTypeMalformedTemplate  ErrorType = "malformed_template"
	ErrorTypeUnsupportedVersion ErrorType = "unsupported_version"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInvalidImageError indicates an unreadable or empty pixel buffer.
// Fatal for the request, never retried.
func NewInvalidImageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidImage,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNoMinutiaeFoundError indicates extraction yielded zero usable points.
// The caller may prompt a recapture.
func NewNoMinutiaeFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNoMinutiaeFound,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewLowQualityError indicates the quality score fell below the configured
// minimum. The caller may prompt a recapture.
func NewLowQualityError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeLowQuality,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewMalformedTemplateError indicates a template string that is not validly
// encoded or is not a well-formed record
func NewMalformedTemplateError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedTemplate,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUnsupportedVersionError indicates a template with an unrecognized version
func NewUnsupportedVersionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedVersion,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
