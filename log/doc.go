// Package log provides leveled structured logging based on [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//	)
//
//	logger.Info("script loaded", slog.Int("expressions", 3))
//
// [Logger.Wrap] derives a reconfigured copy and [Logger.With] a copy that
// adds attributes to every record. The zero Logger discards everything.
//
// Besides the [slog] levels, [LevelTrace] is available for verbose
// diagnostics such as per-expression evaluation. Every level has a variant
// accepting a [context.Context]; the others use [DefaultContextProvider].
//
// Package-level functions such as [Info] and [ErrorContext] write to a
// default logger on standard error, reconfigured with [Config].
//
// # Output
//
// Records are rendered as text or JSON ([Format]). With [WithPretty], both
// layouts are colorized using lipgloss when the output is a terminal: text
// as a single line of key=value pairs, JSON as an aligned object.
package log
