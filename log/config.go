package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4) // trace
	LevelDebug = Level(slog.LevelDebug)     // debug
	LevelInfo  = Level(slog.LevelInfo)      // info
	LevelWarn  = Level(slog.LevelWarn)      // warn
	LevelError = Level(slog.LevelError)     // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelWarn

// Levels returns an iterator over the names of all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a log level name, optionally followed by a "+" or "-"
// and an integer offset (see [slog.Level.UnmarshalText]).
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	// slog does not know about trace.
	if strings.EqualFold(strings.TrimSpace(s), LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// Format is the layout of emitted log records.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatText, FormatJSON} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a log format name. Unrecognized input yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatJSON.String():
		return FormatJSON
	case FormatText.String():
		return FormatText
	default:
		return DefaultFormat
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseFormat].
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// DefaultTimeLayout is the default timestamp layout.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including the calling source
// location in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for colorized output.
const DefaultPretty = true

// Option applies a configuration option to a [Logger].
type Option func(config) config

// config is immutable once a Logger is made from it. Options return an
// updated copy.
type config struct {
	output     io.Writer
	formatTime func(time.Time) string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return config{
		formatTime: timeFormatter(DefaultTimeLayout),
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}.apply(append([]Option{WithOutput(w)}, opts...)...)
}

func (c config) apply(opts ...Option) config {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty:
		return newPrettyHandler(c.output, c.format, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// replaceAttr applies the configured time layout and names levels by their
// [Level] spelling, so trace records read "TRACE" instead of "DEBUG-4".
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.formatTime(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// WithOutput sets the writer receiving log records.
// A nil writer discards all output.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level of emitted records.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record layout.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout.
//
// The layout is either the case-insensitive name of a layout from the [time]
// package (such as "RFC3339Nano" or "Kitchen") or a layout string passed
// verbatim to [time.Time.Format]. An empty layout, or "none", omits
// timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.formatTime = timeFormatter(layout)

		return c
	}
}

// WithCaller sets whether records include the calling source location.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty sets whether records are colorized and aligned for reading in
// a terminal. Colors are only emitted when the output is a terminal.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

//nolint:gochecknoglobals
var namedLayouts = map[string]string{
	"ansic":       time.ANSIC,
	"datetime":    time.DateTime,
	"kitchen":     time.Kitchen,
	"none":        "",
	"rfc1123":     time.RFC1123,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"stamp":       time.Stamp,
	"stampmicro":  time.StampMicro,
	"stampmilli":  time.StampMilli,
	"stampnano":   time.StampNano,
	"timeonly":    time.TimeOnly,
	"unixdate":    time.UnixDate,
}

func timeFormatter(layout string) func(time.Time) string {
	if std, ok := namedLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
