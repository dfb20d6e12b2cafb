// Package errors provides the structured error type shared by the service layers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeStoreQueryFailed     ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeListingNotFound      ErrorCode = "LISTING_NOT_FOUND"
	ErrCodeInvalidFilter        ErrorCode = "INVALID_FILTER"
	ErrCodeNormalizationFailed  ErrorCode = "NORMALIZATION_FAILED"
	ErrCodeImageUploadFailed    ErrorCode = "IMAGE_UPLOAD_FAILED"
	ErrCodeImageNotFound        ErrorCode = "IMAGE_NOT_FOUND"
	ErrCodeUnsupportedImageType ErrorCode = "UNSUPPORTED_IMAGE_TYPE"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// Sentinels for errors.Is comparisons.
var (
	ErrStoreQueryFailed     = &StandardError{Code: ErrCodeStoreQueryFailed}
	ErrListingNotFound      = &StandardError{Code: ErrCodeListingNotFound}
	ErrInvalidFilter        = &StandardError{Code: ErrCodeInvalidFilter}
	ErrNormalizationFailed  = &StandardError{Code: ErrCodeNormalizationFailed}
	ErrImageUploadFailed    = &StandardError{Code: ErrCodeImageUploadFailed}
	ErrImageNotFound        = &StandardError{Code: ErrCodeImageNotFound}
	ErrUnsupportedImageType = &StandardError{Code: ErrCodeUnsupportedImageType}
)

func NewStoreQueryFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeStoreQueryFailed, fmt.Sprintf("listing store query failed: %s", operation), err)
}

func NewListingNotFoundError(id string) *StandardError {
	se := newError(ErrCodeListingNotFound, "listing not found", nil)
	se.Details = fmt.Sprintf("id: %s", id)
	return se
}

func NewInvalidFilterError(details string) *StandardError {
	se := newError(ErrCodeInvalidFilter, "invalid listing filter", nil)
	se.Details = details
	return se
}

func NewNormalizationFailedError(id string, err error) *StandardError {
	return newError(ErrCodeNormalizationFailed, fmt.Sprintf("listing %q could not be normalized", id), err)
}

func NewImageUploadFailedError(err error) *StandardError {
	return newError(ErrCodeImageUploadFailed, "image upload failed", err)
}

func NewImageNotFoundError(path string) *StandardError {
	se := newError(ErrCodeImageNotFound, "image not found", nil)
	se.Details = fmt.Sprintf("path: %s", path)
	return se
}

func NewUnsupportedImageTypeError(ext string) *StandardError {
	se := newError(ErrCodeUnsupportedImageType, "unsupported image type", nil)
	se.Details = fmt.Sprintf("extension: %q", ext)
	return se
}

func NewUnauthorizedError(message string) *StandardError {
	return newError(ErrCodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *StandardError {
	return newError(ErrCodeForbidden, message, nil)
}

// AsStandard normalizes any error into a StandardError.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return newError(ErrCodeInternal, "unexpected error", err)
}

// HTTPStatus maps an error to the HTTP status a handler should answer with.
func HTTPStatus(err error) int {
	switch AsStandard(err).Code {
	case ErrCodeListingNotFound, ErrCodeImageNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidFilter, ErrCodeUnsupportedImageType:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeStoreQueryFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
