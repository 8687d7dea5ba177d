package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrInvalidArgument ErrorType = iota
	ErrMalformedIndex
	ErrNotFound
	ErrAmbiguous
	ErrHTTP
	ErrMalformedHash
	ErrHashMismatch
	ErrPathEscape
	ErrMissingParentDir
	ErrCorruptEntry
	ErrModuleNotFound
	ErrAmbiguousLayout
	ErrAlreadyInstalled
	ErrCancelled
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrMalformedIndex:
		return "MalformedIndex"
	case ErrNotFound:
		return "NotFound"
	case ErrAmbiguous:
		return "Ambiguous"
	case ErrHTTP:
		return "HTTP"
	case ErrMalformedHash:
		return "MalformedHash"
	case ErrHashMismatch:
		return "HashMismatch"
	case ErrPathEscape:
		return "PathEscape"
	case ErrMissingParentDir:
		return "MissingParentDirectory"
	case ErrCorruptEntry:
		return "CorruptEntry"
	case ErrModuleNotFound:
		return "ModuleNotFound"
	case ErrAmbiguousLayout:
		return "AmbiguousLayout"
	case ErrAlreadyInstalled:
		return "AlreadyInstalled"
	case ErrCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// QtError represents a failure during resolution, download, extraction or
// patching. Every QtError aborts the run; the installer's only recovery
// behavior is best-effort directory cleanup.
type QtError struct {
	Type    ErrorType
	Subject string
	Err     error
}

// Error implements the error interface
func (e *QtError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Subject, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *QtError) Unwrap() error {
	return e.Err
}

// TypeOf returns the error type of err when it is (or wraps) a QtError.
func TypeOf(err error) (ErrorType, bool) {
	var qe *QtError
	if errors.As(err, &qe) {
		return qe.Type, true
	}
	return 0, false
}

// IsType reports whether err is a QtError of the given type.
func IsType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}
