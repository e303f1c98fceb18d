package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure the way callers need to react to it.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindValidation Kind = "validation"
	KindDecode     Kind = "decode"
	KindBusy       Kind = "busy"
	KindCancelled  Kind = "cancelled"
)

// Sentinels usable with errors.Is.
var (
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrServer     = &Error{Kind: KindServer}
	ErrValidation = &Error{Kind: KindValidation}
	ErrDecode     = &Error{Kind: KindDecode}
	ErrBusy       = &Error{Kind: KindBusy}
	ErrCancelled  = &Error{Kind: KindCancelled}

	ErrNotConfirmed = errors.New("removal not confirmed")
	ErrNotFound     = errors.New("not found")
)

// Error is the error type returned by the client packages.
type Error struct {
	Kind Kind
	Op   string
	// Status is the HTTP status for KindServer.
	Status int
	// Fields lists the offending fields for KindValidation.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	switch {
	case e.Kind == KindServer && e.Status != 0:
		fmt.Fprintf(&b, " status %d", e.Status)
	case e.Kind == KindValidation && len(e.Fields) > 0:
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so that errors.Is(err, errs.ErrServer) works for any status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Network(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func Server(op string, status int, msg string) error {
	var inner error
	if msg != "" {
		inner = errors.New(msg)
	}
	return &Error{Kind: KindServer, Op: op, Status: status, Err: inner}
}

func Decode(op string, err error) error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

func Validation(op string, fields ...string) error {
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

func Busy(op string) error {
	return &Error{Kind: KindBusy, Op: op}
}

func Cancelled(op string, err error) error {
	return &Error{Kind: KindCancelled, Op: op, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether a read that failed with err may be attempted again.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetwork:
		return true
	case KindServer:
		return e.Status >= 500 || e.Status == 429
	}
	return false
}
