package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/jsonscript/cli/cmd/repl"
	"github.com/ardnew/jsonscript/host"
	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
)

// Repl starts an interactive shell over a persistent runtime.
type Repl struct {
	Inputs `embed:""`

	MaxDepth  int    `default:"${maxDepth}"                 help:"Maximum nesting of evaluated scripts; 0 for no limit."`
	NoPrelude bool   `                                      help:"Do not add host functions to the variables."`
	History   string `default:"${cache}"    placeholder:"DIR" help:"Directory holding the input history."                type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	logger := log.With(slog.String("command", "repl"))
	out := repl.NewOutput()
	loop := host.NewLoop(logger)

	vars := map[string]any{}
	if !r.NoPrelude {
		vars = host.Prelude(host.WithOutput(out), host.WithLoop(loop))
	}

	if err := r.variables(ctx, vars); err != nil {
		return err
	}

	this, err := r.this(ctx)
	if err != nil {
		return err
	}

	rt := lang.New(
		lang.WithThis(this),
		lang.WithVariables(vars),
		lang.WithLogger(logger),
		lang.WithMaxDepth(r.MaxDepth),
	)

	return repl.Run(ctx, repl.Session{
		Runtime: rt,
		Loop:    loop,
		Output:  out,
		History: r.History,
		Logger:  logger,
	})
}
