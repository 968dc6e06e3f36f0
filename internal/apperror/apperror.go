// Package apperror defines the error kinds the booking API can surface.
//
// Every error that crosses a package boundary either wraps one of the
// sentinels below or is treated as a storage fault (opaque 500).
package apperror

import (
	"errors"
)

var (
	ErrNotFound     = errors.New("Not Found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("Conflict")
	ErrRejected     = errors.New("Bad Request")
	ErrUnauthorized = errors.New("Unauthorized")
	ErrForbidden    = errors.New("Forbidden")
)

type AppError struct {
	Err     error  // sentinel
	Message string // safe to show to the caller
	Field   string // optional, validation only
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity, e.g. NotFound("Sponsor not found").
func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation with a domain message.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Rejected reports well-formed input that breaks a business rule.
func Rejected(message string) *AppError {
	return &AppError{Err: ErrRejected, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
