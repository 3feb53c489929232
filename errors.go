package jido

import (
	"fmt"
	"runtime/debug"
)

// ErrorKind enumerates the error taxonomy fixed by the runtime's error
// handling design. Caller-facing kinds (Validation, NotFound,
// AlreadyStarted, Timeout) are returned directly from API calls. Internal
// kinds (Strategy, Directive) are captured, wrapped as an Error directive,
// and handed to the configured error policy.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindAlreadyStarted     ErrorKind = "already_started"
	KindOverloaded         ErrorKind = "overloaded"
	KindStrategy           ErrorKind = "strategy"
	KindDirective          ErrorKind = "directive"
	KindTimeout            ErrorKind = "timeout"
	KindParentDied         ErrorKind = "parent_died"
	KindMaxErrorsExceeded  ErrorKind = "max_errors_exceeded"
)

// Error is the single structured error value used across the runtime in
// place of ad-hoc errors or panics escaping the drain loop. It carries
// enough context for an error policy to decide whether to continue,
// escalate, or stop the agent server.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Stack   string
	Context map[string]any
	wrapped error
}

// NewError builds an Error of the given kind, capturing the current stack
// so strategy/directive panics keep a trail back to their origin.
func NewError(kind ErrorKind, reason string, context map[string]any) *Error {
	return &Error{
		Kind:    kind,
		Reason:  reason,
		Stack:   string(debug.Stack()),
		Context: context,
	}
}

// WrapError builds an Error of the given kind around an underlying error,
// preserving it for errors.As/errors.Is.
func WrapError(kind ErrorKind, err error, context map[string]any) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    kind,
		Reason:  err.Error(),
		Stack:   string(debug.Stack()),
		Context: context,
		wrapped: err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("jido: %s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	je, ok := err.(*Error)
	return ok && je.Kind == kind
}
