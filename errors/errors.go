// Package errors provides error handling for partbench.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrServiceClosed) {
//	    // handle closed service
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across partbench.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNoData indicates an operation was asked to run against an empty input
	// in a context where that cannot produce a meaningful answer
	ErrNoData = New("no data")

	// ErrServiceClosed indicates the background computation service has been
	// terminated and can no longer accept requests
	ErrServiceClosed = New("service closed")

	// ErrComputeFailed indicates a calculation failed in the background worker
	// and the synchronous fallback failed as well
	ErrComputeFailed = New("computation failed")

	// ErrUnknownKind indicates a request named a computation kind the worker
	// has no handler for
	ErrUnknownKind = New("unknown computation kind")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrUnsupportedSchema indicates a catalog document declared a schema
	// version outside the supported range
	ErrUnsupportedSchema = New("unsupported catalog schema version")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")
)

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsServiceClosedError checks if an error is or wraps ErrServiceClosed
func IsServiceClosedError(err error) bool {
	return err != nil && Is(err, ErrServiceClosed)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
