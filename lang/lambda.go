package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// Lambda is the function value produced by a lambda expression.
//
// The context ("this"), last value, and scope are captured when the lambda is
// created. Each invocation evaluates Body in a new scope chained to the
// captured one, with each parameter bound to the argument at the same
// position; parameters without an argument are bound to nil and surplus
// arguments are ignored. The receiver passed to Invoke is ignored.
type Lambda struct {
	Params []string
	Body   Script
	this   any
	last   any
	scope  *Scope
	rt     *Runtime
}

// Invoke evaluates the lambda body with the given arguments.
func (l *Lambda) Invoke(ctx context.Context, _ any, args ...any) (any, error) {
	scope := l.scope.Child()

	for i, name := range l.Params {
		var arg any
		if i < len(args) {
			arg = args[i]
		}

		scope.Define(name, arg)
	}

	l.rt.logger.TraceContext(ctx, "lambda invoke",
		slog.Int("arity", len(l.Params)),
		slog.Int("args", len(args)),
	)

	f := &frame{rt: l.rt, this: l.this, last: l.last, scope: scope}

	return f.run(ctx, l.Body)
}

// Arity returns the number of declared parameters.
func (l *Lambda) Arity() int { return len(l.Params) }

// String returns "<function/N>" where N is the arity.
func (l *Lambda) String() string {
	return "<function/" + strconv.Itoa(len(l.Params)) + ">"
}
