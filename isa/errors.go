package isa

import "fmt"

// The four fatal error kinds of the backend. They live in isa (the
// module's one dependency-free leaf package) because both low-level
// packages (lir's Generator) and the backend need to raise them
// without creating an import cycle; backend re-exports them under its
// own names via type aliases since callers of the public API think of
// them as backend errors.

// ConfigurationError reports an unsupported or malformed configuration,
// e.g. a thread count outside {1,2}.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Message }

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// EncodingError reports an operand that doesn't fit its field width.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string { return "encoding error: " + e.Message }

// NewEncodingError builds an EncodingError from a format string.
func NewEncodingError(format string, args ...any) *EncodingError {
	return &EncodingError{Message: fmt.Sprintf(format, args...)}
}

// IOError wraps a read/write failure on any sink, preserving the
// original error via Unwrap.
type IOError struct {
	Message string
	Err     error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return "io error: " + e.Message + ": " + e.Err.Error()
	}
	return "io error: " + e.Message
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps an underlying error with context.
func NewIOError(message string, err error) *IOError {
	return &IOError{Message: message, Err: err}
}

// InvariantViolation reports an impossible shape the scheduler
// detected internally, e.g. two segments of the same kind in one tile.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Message }

// NewInvariantViolation builds an InvariantViolation from a format string.
func NewInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Message: fmt.Sprintf(format, args...)}
}
