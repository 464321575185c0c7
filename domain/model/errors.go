package model

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status code and message up to the handler boundary
type AppError struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidFilterError reports a malformed filter parameter (bad owner id)
func NewInvalidFilterError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

// NewNotFoundError reports an absent entity for item/update/delete operations
func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

// NewCacheUnavailableError reports a cache store communication failure.
// Callers absorb it (fail open) rather than failing the read path.
func NewCacheUnavailableError(err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: "cache store unavailable", Err: err}
}

// NewUpstreamAssetError reports an object-storage response without an identifier
func NewUpstreamAssetError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: message, Err: err}
}

// AsAppError unwraps err into an *AppError, defaulting to a 500
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Err: err}
}
