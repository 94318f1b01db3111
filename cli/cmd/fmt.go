package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/jsonscript/lang"
)

// Fmt re-encodes a script in a chosen format.
type Fmt struct {
	JSON JSON `cmd:"" default:"withargs" help:"Format as JSON (default)."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
}

// encodeOptions are the flags shared by the fmt subcommands.
type encodeOptions struct {
	Indent int  `default:"2" help:"Indent width; 0 for compact JSON or flow YAML." short:"i"`
	Check  bool `            help:"Reject malformed expressions."`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

func (o *encodeOptions) encode(ctx context.Context, format lang.EncodeFormat) error {
	data, err := decodeFile(ctx, o.Source)
	if err != nil {
		return err
	}

	script := lang.Compile(data)

	if o.Check {
		if err := script.Check(); err != nil {
			return ErrMalformed.Wrap(err).With(
				slog.String("path", o.Source),
				slog.String("format", format.String()),
			)
		}
	}

	return lang.Encode(ctx, stdoutFrom(ctx), script.Source(), format, o.Indent)
}

// JSON formats a script as JSON.
type JSON struct {
	Options encodeOptions `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return j.Options.encode(ctx, lang.EncodeJSON)
}

// YAML formats a script as YAML.
type YAML struct {
	Options encodeOptions `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return y.Options.encode(ctx, lang.EncodeYAML)
}
