package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL"

	// Pipeline errors
	ErrorTypeGraphUnavailable ErrorType = "GRAPH_UNAVAILABLE"
	ErrorTypeNoData           ErrorType = "NO_DATA"
	ErrorTypeRendererFault    ErrorType = "RENDERER_FAULT"
	ErrorTypeExternal         ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType      `json:"type"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
	HTTPStatus int            `json:"-"`
	Retryable  bool           `json:"retryable"`
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

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewGraphUnavailableError signals that every fetch path to the memory store
// failed. Callers render an empty state, not an error dialog, so this maps to
// a successful HTTP response with an unavailable marker.
func NewGraphUnavailableError(err error) *AppError {
	return &AppError{
		Type:       ErrorTypeGraphUnavailable,
		Message:    "memory graph is unavailable",
		Cause:      err,
		HTTPStatus: http.StatusOK,
	}
}

// NewNoDataError signals an empty canonical graph: "no memories yet" rather
// than "something went wrong"
func NewNoDataError() *AppError {
	return &AppError{
		Type:       ErrorTypeNoData,
		Message:    "no memories yet",
		HTTPStatus: http.StatusOK,
	}
}

// NewRendererFaultError wraps a fault raised while producing the external
// visualization shape. Always retryable and always contained.
func NewRendererFaultError(err error) *AppError {
	return &AppError{
		Type:       ErrorTypeRendererFault,
		Message:    "visualization rendering failed",
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		Retryable:  true,
	}
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service '%s' error", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
	}
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsGraphUnavailable checks if an error means both fetch paths failed
func IsGraphUnavailable(err error) bool {
	return IsType(err, ErrorTypeGraphUnavailable)
}

// IsNoData checks if an error means the graph had zero nodes
func IsNoData(err error) bool {
	return IsType(err, ErrorTypeNoData)
}

// IsRendererFault checks if an error is a contained rendering fault
func IsRendererFault(err error) bool {
	return IsType(err, ErrorTypeRendererFault)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}
