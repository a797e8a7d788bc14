// Package apperr defines the error taxonomy surfaced at the API boundary.
//
// Every error that should reach a client carries a Kind (which decides the HTTP
// status), a stable machine-readable Code and a human-readable Message. Anything
// that is not an *Error is treated as Internal and its text is never returned.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	Internal Kind = iota
	InvalidRequest
	Unauthorized
	Forbidden
	NotFound
	Conflict
	Upstream
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Upstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Default response codes per kind, matching the envelope used by httputil.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUpstream     = "UPSTREAM_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by identity first, then by kind+code so that a
// wrapped copy produced by Wrap still satisfies errors.Is(err, sentinel).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return e.Kind == t.Kind && e.Code == t.Code && e.Message == t.Message
}

// New creates an error of the given kind using the default code for that kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: defaultCode(kind), Message: message}
}

// NewCode creates an error with an explicit code.
func NewCode(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a copy of the sentinel.
func Wrap(sentinel *Error, cause error) *Error {
	cp := *sentinel
	cp.Err = cause
	return &cp
}

// Invalid is shorthand for an InvalidRequest error.
func Invalid(message string) *Error { return New(InvalidRequest, message) }

// Upstreamf wraps a failure of an external collaborator (store timeout, blob store).
func Upstreamf(cause error, format string, args ...any) *Error {
	return &Error{Kind: Upstream, Code: CodeUpstream, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf reports the kind of err. Context deadline errors are Upstream, anything
// unclassified is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Upstream
	}
	return Internal
}

// As extracts the classified error, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func defaultCode(kind Kind) string {
	switch kind {
	case InvalidRequest:
		return CodeBadRequest
	case Unauthorized:
		return CodeUnauthorized
	case Forbidden:
		return CodeForbidden
	case NotFound:
		return CodeNotFound
	case Conflict:
		return CodeConflict
	case Upstream:
		return CodeUpstream
	default:
		return CodeInternal
	}
}
