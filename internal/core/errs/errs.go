// Package errs defines the error kinds returned by the lifecycle engine.
// Every failed operation returns exactly one kind; transports map kinds to
// their own status codes.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInsufficientData   Kind = "INSUFFICIENT_DATA"
	KindNotFound           Kind = "NOT_FOUND"
	KindNoAuth             Kind = "NO_AUTH"
	KindConflict           Kind = "CONFLICT"
	KindMemberNotFound     Kind = "MEMBER_NOT_FOUND"
	KindDuplicate          Kind = "DUPLICATE"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error carries a Kind plus a caller-safe message. Err is kept for logging
// only and is never rendered to callers.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for anything that is not
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Internalize passes kinded errors through unchanged and collapses anything
// else into an Internal error that still wraps the cause.
func Internalize(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindInternal, "internal server error", err)
}

func InsufficientData(msg string) *Error { return New(KindInsufficientData, msg) }
func NotFound(msg string) *Error         { return New(KindNotFound, msg) }
func NoAuth(msg string) *Error           { return New(KindNoAuth, msg) }
func Conflict(msg string) *Error         { return New(KindConflict, msg) }
func MemberNotFound() *Error             { return New(KindMemberNotFound, "member not found") }
func Duplicate(msg string) *Error        { return New(KindDuplicate, msg) }
