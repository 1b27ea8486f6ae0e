package apperr

import (
	"errors"
	"net/http"
)

const (
	CodeValidation = "validation_failed"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is an error that knows how it should be rendered over HTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    []FieldError
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validation builds a 400 error carrying per-field messages.
func Validation(message string, fields []FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest, Details: fields}
}

// NotFound builds a 404 error.
func NotFound(message string, err error) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}

// As extracts an AppError from err's chain.
func As(err error) (*AppError, bool) {
	var target *AppError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 AppError.
func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.HTTPStatus == http.StatusNotFound
}
