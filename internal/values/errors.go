package values

import "fmt"

// ErrorKind classifies a runtime error the way the REPL groups them for
// display (spec §7). The Evaluator and Session attach one of these to every
// error they return.
type ErrorKind string

const (
	ErrParse  ErrorKind = "parse"
	ErrName   ErrorKind = "name"
	ErrType   ErrorKind = "type"
	ErrArity  ErrorKind = "arity"
	ErrRPC    ErrorKind = "rpc"
	ErrSigner ErrorKind = "signer"
	ErrIO     ErrorKind = "io"
	ErrUsage  ErrorKind = "usage"
)

// Error is the error type returned from every evaluator and builtin entry
// point. It wraps an optional underlying cause without losing the Kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a formatted Error of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around an existing cause.
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// TypeErrorf is a convenience constructor for the most common kind.
func TypeErrorf(format string, args ...interface{}) *Error {
	return NewError(ErrType, format, args...)
}

// NameErrorf reports an identifier or member lookup failure.
func NameErrorf(format string, args ...interface{}) *Error {
	return NewError(ErrName, format, args...)
}

// ArityErrorf reports a wrong argument count or unknown option key.
func ArityErrorf(format string, args ...interface{}) *Error {
	return NewError(ErrArity, format, args...)
}
