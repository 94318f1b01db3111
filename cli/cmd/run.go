package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/jsonscript/host"
	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
)

// Run executes a script and prints its result.
type Run struct {
	Inputs `embed:""`

	Output    string `default:"plain"         enum:"plain,json,yaml" help:"Result format (${enum})."                            short:"o"`
	Indent    int    `default:"2"                                    help:"Indent width for json and yaml output; 0 for compact." short:"i"`
	MaxDepth  int    `default:"${maxDepth}"                          help:"Maximum nesting of evaluated scripts; 0 for no limit."`
	NoPrelude bool   `                                               help:"Do not add host functions to the variables."`
	Check     bool   `                                               help:"Reject malformed expressions before evaluating."`

	Script string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	logger := log.With(slog.String("command", "run"))
	stdout := stdoutFrom(ctx)

	data, err := decodeFile(ctx, r.Script)
	if err != nil {
		return err
	}

	script := lang.Compile(data)

	if r.Check {
		if err := script.Check(); err != nil {
			return ErrMalformed.Wrap(err).With(slog.String("path", r.Script))
		}
	}

	vars := map[string]any{}
	if !r.NoPrelude {
		vars = host.Prelude(host.WithOutput(stdout), host.WithLogger(logger))
	}

	if err := r.variables(ctx, vars); err != nil {
		return err
	}

	this, err := r.this(ctx)
	if err != nil {
		return err
	}

	result, err := lang.Execute(ctx, script,
		lang.WithThis(this),
		lang.WithVariables(vars),
		lang.WithLogger(logger),
		lang.WithMaxDepth(r.MaxDepth),
	)
	if err != nil {
		return err
	}

	if loop := host.LoopOf(vars); loop != nil {
		result, err = loop.Await(ctx, result)
		if err != nil {
			return err
		}
	}

	return r.print(ctx, result)
}

func (r *Run) print(ctx context.Context, result any) error {
	w := stdoutFrom(ctx)

	if format, ok := lang.ParseEncodeFormat(r.Output); ok {
		return lang.Encode(ctx, w, result, format, r.Indent)
	}

	if _, err := fmt.Fprintln(w, lang.FormatResult(result)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
