package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds reported to clients
const (
	TypeValidation = "validation"
	TypeNotFound   = "not_found"
	TypeUnexpected = "unexpected"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput is returned for malformed numeric or date input.
var ErrInvalidInput = Validation("Invalid input")

// Validation reports a missing or malformed field.
func Validation(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

// NotFound reports a row that is absent or owned by someone else.
func NotFound(what string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: what + " not found", Type: TypeNotFound}
}

// Unexpected wraps a store, file system or image failure.
func Unexpected(err error) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: "Unexpected error", Type: TypeUnexpected, Err: err}
}

// AsCustomError classifies err, treating anything unknown as unexpected.
func AsCustomError(err error) *CustomError {
	if err == nil {
		return nil
	}
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return Unexpected(err)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Type == TypeNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Type == TypeValidation
}
