// Package errors provides the application-level error taxonomy shared
// by use cases and HTTP handlers: not found, invalid range, conflict,
// storage unavailability, plus generic validation/internal kinds.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeInvalidRange ErrorType = "invalid_range"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnavailable  ErrorType = "storage_unavailable"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"
)

// AppError carries the error type, a caller-facing message and the
// HTTP status it maps to at the API boundary.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a validation error (400).
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a not-found error (404).
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewInvalidRangeError creates an invalid-range error (422). Used when
// a billing mutation is rejected by a business rule: reductions below
// the plan start date, negative pending amounts, and the like.
func NewInvalidRangeError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidRange, http.StatusUnprocessableEntity, message, details...)
}

// NewConflictError creates a conflict error (409). Safe to retry the
// same logical call; never auto-retried by the engine itself.
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewUnavailableError creates a storage-unavailable error (503).
func NewUnavailableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnavailable, http.StatusServiceUnavailable, message, details...)
}

// NewInternalError creates an internal error (500).
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewBadRequestError creates a bad-request error (400).
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

func IsInvalidRangeError(err error) bool {
	return isType(err, ErrorTypeInvalidRange)
}

func IsConflictError(err error) bool {
	return isType(err, ErrorTypeConflict)
}

func IsUnavailableError(err error) bool {
	return isType(err, ErrorTypeUnavailable)
}

func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}
