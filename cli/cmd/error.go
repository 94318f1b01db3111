package cmd

import (
	"errors"
	"log/slog"
	"strings"
)

// Error represents a command failure with structured logging support.
type Error struct {
	msg   string
	err   error
	base  *Error
	attrs []slog.Attr
}

// NewError returns a sentinel Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for x := e; x != nil; x = x.base {
		if x == t {
			return true
		}
	}

	return false
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		var lv slog.LogValuer
		if errors.As(e.err, &lv) {
			attrs = append(attrs, slog.Any("cause", lv))
		} else {
			attrs = append(attrs, slog.String("cause", e.err.Error()))
		}
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, base: e, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	all := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	all = append(all, e.attrs...)
	all = append(all, attrs...)

	return &Error{msg: e.msg, err: e.err, base: e, attrs: all}
}

var (
	ErrOpenInput   = NewError("open input")
	ErrDecodeInput = NewError("decode input")
	ErrVariables   = NewError("variables must be a mapping")
	ErrAssignment  = NewError("invalid variable assignment")
	ErrMalformed   = NewError("malformed script")
	ErrWriteOutput = NewError("write output")
)
