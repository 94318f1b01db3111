package host

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/jsonscript/lang"
)

// ErrExpr is returned when an expression fails to compile or run.
var ErrExpr = lang.NewError("expression failed")

// exprEval compiles and runs source against env.
//
// Expressions supply the arithmetic, comparison, and string operators that
// scripts do not have: ["call", "expr.eval", ["a + b", {"a": 1, "b": 2}]].
func exprEval(source string, env map[string]any) (any, error) {
	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}

	return runExpr(program, source, env)
}

// exprCompile compiles source once and returns a function that runs it
// against the mapping given as its first argument.
func exprCompile(source string) (lang.Func, error) {
	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}

	return func(_ context.Context, _ any, args ...any) (any, error) {
		var env map[string]any
		if len(args) > 0 {
			env, _ = args[0].(map[string]any)
		}

		return runExpr(program, source, env)
	}, nil
}

func compileExpr(source string) (*vm.Program, error) {
	program, err := expr.Compile(source)
	if err != nil {
		return nil, ErrExpr.Wrap(err).With(slog.String("source", source))
	}

	return program, nil
}

func runExpr(program *vm.Program, source string, env map[string]any) (any, error) {
	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrExpr.Wrap(err).With(slog.String("source", source))
	}

	return out, nil
}
