package lang

import (
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by the interpreter are derived from these sentinels with
// [Error.Wrap] and [Error.With], so callers can test them with [errors.Is].
var (
	ErrUnknownCommand      = NewError("unknown command")
	ErrTypeMismatch        = NewError("type mismatch")
	ErrInvocation          = NewError("invocation failed")
	ErrMalformedExpression = NewError("malformed expression")
	ErrInvalidPath         = NewError("invalid path")
	ErrReadOnlyPath        = NewError("path is read-only")
	ErrMaxDepthExceeded    = NewError("maximum evaluation depth exceeded")
	ErrDecode              = NewError("failed to decode script")
	ErrEncode              = NewError("failed to encode value")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	base  *Error      // Error this one was derived from (for errors.Is)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or one of the errors e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for b := e; b != nil; b = b.base {
		if b == t {
			return true
		}
	}

	return false
}

// Attr returns the value of the most recently added attribute with the given
// key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for i := len(e.attrs) - 1; i >= 0; i-- {
		if e.attrs[i].Key == key {
			return e.attrs[i].Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		base:  e,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		base:  e,
		attrs: newAttrs,
	}
}
