package engine

import (
	"errors"
	"fmt"
)

// Error represents a failure reported by the document engine.
//
// Engine errors include:
//   - Range errors: an EditDelta addresses a line outside the document or
//     carries a negative column or count
//   - Snapshot errors: a blob handed to LoadSnapshot is malformed or uses an
//     encoding version this engine does not understand
//
// The Message is what callers relay to the user; the Code is for
// programmatic checks through the Is* helpers.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeRange indicates an edit addressed a position outside the document.
	ErrCodeRange ErrorCode = "RANGE"

	// ErrCodeSnapshot indicates a snapshot blob could not be decoded.
	ErrCodeSnapshot ErrorCode = "SNAPSHOT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRangeError returns true if the error is an out-of-range edit error.
// Uses errors.As to handle wrapped errors.
func IsRangeError(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeRange
	}
	return false
}

// IsSnapshotError returns true if the error is a snapshot decoding error.
// Uses errors.As to handle wrapped errors.
func IsSnapshotError(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeSnapshot
	}
	return false
}

// NewRangeError creates an Error for out-of-range addressing.
func NewRangeError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeRange,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewSnapshotError creates an Error for an undecodable snapshot blob.
func NewSnapshotError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeSnapshot,
		Message: fmt.Sprintf(format, args...),
	}
}
