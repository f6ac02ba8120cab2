// Package core provides shared configuration, error classification, and
// environment parsing for the Paintly generation backend.
package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for logging and retry policy decisions.
// The set is closed: every error that crosses a component boundary carries
// exactly one of these kinds.
type ErrorKind string

const (
	// ErrorKindNetwork indicates a transport-level failure (DNS, dial,
	// connection reset, timeout before a response was received).
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindValidation indicates malformed or incomplete caller input.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindAPI indicates an upstream provider returned an error response.
	ErrorKindAPI ErrorKind = "api"

	// ErrorKindAuth indicates missing or rejected credentials.
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindQuota indicates the caller's plan limit has been reached.
	ErrorKindQuota ErrorKind = "quota"

	// ErrorKindUpload indicates a failure handling uploaded image data.
	ErrorKindUpload ErrorKind = "upload"

	// ErrorKindProcessing indicates a failure while a provider was
	// producing or normalizing a result.
	ErrorKindProcessing ErrorKind = "processing"

	// ErrorKindUnknown is the fallback for unclassified failures.
	ErrorKindUnknown ErrorKind = "unknown"
)

// ErrorKinds lists every valid kind, in a stable order.
// Useful for statistics aggregation and input validation.
var ErrorKinds = []ErrorKind{
	ErrorKindNetwork,
	ErrorKindValidation,
	ErrorKindAPI,
	ErrorKindAuth,
	ErrorKindQuota,
	ErrorKindUpload,
	ErrorKindProcessing,
	ErrorKindUnknown,
}

// Valid reports whether k is a member of the closed kind set.
func (k ErrorKind) Valid() bool {
	switch k {
	case ErrorKindNetwork, ErrorKindValidation, ErrorKindAPI, ErrorKindAuth,
		ErrorKindQuota, ErrorKindUpload, ErrorKindProcessing, ErrorKindUnknown:
		return true
	}
	return false
}

// IsRetryable reports whether failures of this kind may succeed on retry.
// Network, API, and processing failures are transient by policy; validation,
// auth, quota, and upload failures describe the request itself and retrying
// them only repeats the same outcome.
//
// This is a pure function of the kind value, so retry policy never depends
// on which concrete error type happened to propagate.
func IsRetryable(k ErrorKind) bool {
	switch k {
	case ErrorKindNetwork, ErrorKindAPI, ErrorKindProcessing:
		return true
	default:
		return false
	}
}

// AppError is the structured error type used across the generation pipeline.
// It carries the classification kind alongside a human-readable message and
// an optional wrapped cause.
type AppError struct {
	Kind    ErrorKind // Classification for retry/logging policy
	Message string    // Human-readable description
	Err     error     // Wrapped underlying error (optional)
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, allowing use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError constructs an AppError with the given kind and message.
func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// WrapError constructs an AppError wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from an error chain.
// Returns ErrorKindUnknown when no AppError is found in the chain.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindUnknown
}
