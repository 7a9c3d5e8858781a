package errors

import (
	"errors"
	"fmt"
)

// RuntimeError is the interface implemented by all errors raised by the
// object runtime.
type RuntimeError interface {
	error
	Kind() string // e.g., "Type"
	// Message returns the error message without the kind prefix.
	Message() string
	Unwrap() error
}

// PropertyOp names the kind of property access that failed.
type PropertyOp string

const (
	OpRead  PropertyOp = "read"
	OpWrite PropertyOp = "write"
)

// --- Concrete Error Types ---

// TypeError is raised for operations applied to values of the wrong kind:
// property access on null/undefined, boxing null/undefined, and broken
// [[DefaultValue]] resolution.
type TypeError struct {
	Msg string
	// Key and Op are set for property access faults.
	Key   string
	Op    PropertyOp
	Cause error // Underlying cause, if any
}

func (e *TypeError) Error() string   { return "TypeError: " + e.Msg }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// --- Helpers ---

// NewTypeError builds a TypeError from a message.
func NewTypeError(msg string) *TypeError {
	return &TypeError{Msg: msg}
}

// NewTypeErrorf builds a TypeError from a format string.
func NewTypeErrorf(format string, args ...any) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

// NewPropertyError builds the TypeError raised when a property of target
// (e.g. "null") cannot be read or written.
func NewPropertyError(target string, key string, op PropertyOp) *TypeError {
	var msg string
	switch op {
	case OpWrite:
		msg = fmt.Sprintf("Cannot set properties of %s (setting '%s')", target, key)
	default:
		msg = fmt.Sprintf("Cannot read properties of %s (reading '%s')", target, key)
	}
	return &TypeError{Msg: msg, Key: key, Op: op}
}

// IsTypeError reports whether err is, or wraps, a *TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// AsRuntimeError unwraps err to the first RuntimeError in its chain.
func AsRuntimeError(err error) (RuntimeError, bool) {
	var re RuntimeError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
