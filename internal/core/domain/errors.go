package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrAuth             = errors.New("invalid username or password")
	ErrNoSession        = errors.New("no active session")
	ErrConflict         = errors.New("username already exists")
	ErrInvalidAdminCode = errors.New("invalid admin OTP")
	ErrInvalidRole      = errors.New("invalid role")
	ErrForbidden        = errors.New("forbidden")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenRevoked     = errors.New("token revoked")
)

// ValidationError reports a missing or malformed submission field
type ValidationError struct {
	Field   string
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return "Missing required field: " + e.Field
	}
	return "Invalid value for field: " + e.Field
}

// AttachmentError reports a failure to persist a proof attachment
type AttachmentError struct {
	Err error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("failed to upload file: %v", e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }

// StorageError reports a record store failure. Retryable is set for
// connectivity failures, pool exhaustion and timeouts; constraint
// violations are not retryable.
type StorageError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("database unavailable during %s, please retry: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("database rejected %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// QueryError reports a failure to read feedback records
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to fetch feedback: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SerializationError reports a failure to encode an export workbook
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to build spreadsheet: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// IOError reports a failure to write an export file
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsRetryable reports whether err wraps a retryable StorageError
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}
