package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/ardnew/jsonscript/lang"
)

type stdoutKey struct{}

// WithStdout returns a context whose commands write results to w.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type stdinKey struct{}

// WithStdin returns a context whose commands read "-" inputs from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the input name that selects standard input.
const stdinSource = "-"

// Open returns a reader for the named input, or standard input when name is
// "-". The caller must close the result.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == stdinSource {
		return io.NopCloser(stdinFrom(ctx)), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, ErrOpenInput.Wrap(err).With(slog.String("path", name))
	}

	return f, nil
}

// decodeFile decodes the YAML or JSON document in the named input.
func decodeFile(ctx context.Context, name string) (any, error) {
	r, err := Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	v, err := lang.Decode(r)
	if err != nil {
		return nil, ErrDecodeInput.Wrap(err).With(slog.String("path", name))
	}

	return v, nil
}

// Inputs holds the flags shared by commands that evaluate scripts: the
// context value and the variables.
type Inputs struct {
	This string            `help:"YAML or JSON file holding the context value (this)." placeholder:"FILE" short:"t" type:"existingfile"`
	Vars string            `help:"YAML or JSON file holding a mapping of variables."   placeholder:"FILE"           type:"existingfile"`
	Var  map[string]string `help:"Set variable NAME to a YAML or JSON value."          placeholder:"NAME=VALUE" short:"D" mapsep:"none"`
}

// this decodes the context value file, or returns nil if none was given.
func (in *Inputs) this(ctx context.Context) (any, error) {
	if in.This == "" {
		return nil, nil
	}

	return decodeFile(ctx, in.This)
}

// variables merges the variables file and each --var assignment, in that
// order, into vars.
func (in *Inputs) variables(ctx context.Context, vars map[string]any) error {
	if in.Vars != "" {
		v, err := decodeFile(ctx, in.Vars)
		if err != nil {
			return err
		}

		m, ok := v.(map[string]any)
		if !ok && v != nil {
			return ErrVariables.With(
				slog.String("path", in.Vars),
				slog.String("kind", lang.KindOf(v).String()),
			)
		}

		maps.Copy(vars, m)
	}

	for name, text := range in.Var {
		v, err := parseVar(name, text)
		if err != nil {
			return err
		}

		vars[name] = v
	}

	return nil
}

// parseVar decodes the value of a --var assignment. Text that does not
// decode is used verbatim as a string.
func parseVar(name, text string) (any, error) {
	if name == "" {
		return nil, ErrAssignment.With(slog.String("value", text))
	}

	v, err := lang.DecodeString(text)
	if err != nil {
		return text, nil //nolint:nilerr
	}

	return v, nil
}
