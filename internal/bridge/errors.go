// ABOUTME: Per-request error types raised while decoding inputs or running the wrapped function
// ABOUTME: RequestValidationError maps to 400, HandlerError maps to 500 at the HTTP boundary

package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestValidation marks a malformed request body or undecodable value.
	ErrRequestValidation = errors.New("invalid request")

	// ErrHandler marks a failure raised by the wrapped function.
	ErrHandler = errors.New("handler failed")

	// ErrUnsupportedFunc indicates a value that cannot be wrapped.
	ErrUnsupportedFunc = errors.New("unsupported function")
)

// RequestValidationError reports a request the function was never invoked for.
type RequestValidationError struct {
	Field string
	Err   error
}

func (e *RequestValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *RequestValidationError) Unwrap() []error {
	return []error{ErrRequestValidation, e.Err}
}

// HandlerError wraps an error returned or panicked by the wrapped function.
// Error() is the function's own message so clients see it verbatim.
type HandlerError struct {
	Err   error
	Panic bool
}

func (e *HandlerError) Error() string {
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() []error {
	return []error{ErrHandler, e.Err}
}

// invalid builds a RequestValidationError from a format string.
func invalid(field, format string, args ...any) error {
	return &RequestValidationError{Field: field, Err: fmt.Errorf(format, args...)}
}
