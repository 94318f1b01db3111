package cli

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jsonscript/log"
)

type logConfig struct {
	Level      log.Level  `default:"${logLevel}"      help:"Set log level (${logLevels})."                                 placeholder:"LEVEL"`
	Format     log.Format `default:"${logFormat}"     help:"Set log format (${logFormats})."                               placeholder:"FORMAT"`
	TimeLayout string     `default:"${logTimeLayout}" help:"Set timestamp layout: a Go layout or a name such as rfc3339; none omits it."`
	Caller     bool       `                           help:"Include caller information."                                   negatable:""`
	Pretty     bool       `default:"true"             help:"Enable colorized pretty printing."                             negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      log.DefaultLevel.String(),
		"logLevels":     strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormat":     log.DefaultFormat.String(),
		"logFormats":    strings.Join(slices.Collect(log.Formats()), ", "),
		"logTimeLayout": "rfc3339",
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the parsed flags to the package-level logger. The returned
// function logs completion of the command.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(f.Level),
		log.WithFormat(f.Format),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", f.Level.String()),
		slog.String("format", f.Format.String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "command finished") }
}
