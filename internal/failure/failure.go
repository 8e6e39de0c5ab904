// Package failure defines the typed error kinds shared by services and the
// HTTP boundary.
package failure

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	KindValidation
	KindAuth
	KindCrypto
	KindSigning
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindCrypto:
		return "crypto"
	case KindSigning:
		return "signing"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Expected reports whether errors of this kind are part of normal operation
// and must not be logged as errors.
func (k Kind) Expected() bool {
	switch k {
	case KindValidation, KindAuth, KindForbidden, KindNotFound, KindConflict:
		return true
	default:
		return false
	}
}

// Error carries the kind of failure, the operation that produced it and a
// message that is safe to show to the caller. Err holds the underlying cause
// and is never exposed outside the process.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func Auth(op, msg string) error {
	return &Error{Kind: KindAuth, Op: op, Msg: msg}
}

func Forbidden(op, msg string) error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func Conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

func Crypto(op string, err error) error {
	return &Error{Kind: KindCrypto, Op: op, Err: err}
}

func Signing(op string, err error) error {
	return &Error{Kind: KindSigning, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message of err, or "" when err carries none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}

	return ""
}
