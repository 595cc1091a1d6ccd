package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUnavailable        = errors.New("store unavailable")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrCodeMismatch       = errors.New("verification code mismatch")
)

type AppError struct {
	Err     error  // category sentinel (one of the Err* vars above)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// AlreadyVoted marks a second vote attempt on a target that permits at most
// one vote per user. Kept distinct from Conflict so handlers can phrase it
// for the voter; both map to 400.
func AlreadyVoted(message string) *AppError {
	return &AppError{
		Err:     ErrAlreadyVoted,
		Message: message,
	}
}

// InvalidCredentials is returned for both "no such user" and "wrong
// password". The message is identical in both cases so callers can't probe
// which emails are registered.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthorized means no credential was presented at all. HTTP handlers map
// this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden means a credential was presented but is malformed, badly signed,
// or expired. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unavailable wraps an I/O failure from the table store. The operation is
// retryable from the caller's side; repositories never retry internally.
func Unavailable(op string, err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("storage unavailable during %s: %v", op, err),
	}
}

func CodeExpired() *AppError {
	return &AppError{
		Err:     ErrCodeExpired,
		Message: "verification code has expired",
	}
}

func CodeMismatch() *AppError {
	return &AppError{
		Err:     ErrCodeMismatch,
		Message: "verification code does not match",
	}
}
