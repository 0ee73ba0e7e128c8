// Package errors classifies failures into the kinds the delivery layer reacts to:
// Validation and Conflict are shown to the user as-is, Transport, Response and
// Unhandled get a generic apology and an operator report.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the failure class of an error.
type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindConflict
	KindTransport
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	case KindResponse:
		return "response"
	default:
		return "unhandled"
	}
}

// Error is a classified error. Code is a short machine-readable reason
// (e.g. "long_query", "in_work").
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg, Err: err}
}

func NewValidation(code, msg string, err error) *Error {
	return newError(KindValidation, code, msg, err)
}

func NewConflict(code, msg string, err error) *Error {
	return newError(KindConflict, code, msg, err)
}

func NewTransport(code, msg string, err error) *Error {
	return newError(KindTransport, code, msg, err)
}

func NewResponse(code, msg string, err error) *Error {
	return newError(KindResponse, code, msg, err)
}

func NewUnhandled(code, msg string, err error) *Error {
	return newError(KindUnhandled, code, msg, err)
}

// KindOf returns the kind of the first classified error in err's chain.
// Network errors and deadline expiry count as transport failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnhandled
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	return KindUnhandled
}

// CodeOf returns the code of the first classified error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUserFacing reports whether err is recovered locally and shown to the user
// without involving operators.
func IsUserFacing(err error) bool {
	k := KindOf(err)
	return k == KindValidation || k == KindConflict
}
