package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for engine and API operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested object does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeStateInvariantViolation indicates persisted state broke an
	// engine invariant (e.g. current streak above longest streak). This is
	// a programming or persistence bug upstream; the engine fails fast
	// instead of masking it.
	ErrCodeStateInvariantViolation ErrorCode = "STATE_INVARIANT_VIOLATION"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// EngineError represents a structured error carrying a code.
type EngineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *EngineError {
	return &EngineError{Code: ErrCodeUnauthorized, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *EngineError {
	return &EngineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *EngineError {
	return &EngineError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *EngineError {
	return &EngineError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// StateInvariantViolation creates a state invariant violation error.
func StateInvariantViolation(msg string) *EngineError {
	return &EngineError{Code: ErrCodeStateInvariantViolation, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *EngineError {
	return &EngineError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an EngineError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr.Code
	}
	return defaultCode
}
