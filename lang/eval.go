package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/jsonscript/log"
)

// DefaultMaxDepth is the default maximum number of nested script
// evaluations, counting operand scripts and lambda bodies.
const DefaultMaxDepth = 256

// Runtime holds the execution context shared by successive evaluations: the
// context value ("this"), the variables, and the last value produced.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	this     any
	last     any
	scope    *Scope
	logger   log.Logger
	maxDepth int
}

// Option configures a [Runtime].
type Option func(*Runtime)

// WithThis sets the context value that "this" paths resolve against.
// It defaults to a new empty mapping.
func WithThis(this any) Option {
	return func(rt *Runtime) {
		rt.this = this
	}
}

// WithVariables sets the variables mapping. Writes to variables are made
// directly into vars. It defaults to a new empty mapping.
func WithVariables(vars map[string]any) Option {
	return func(rt *Runtime) {
		rt.scope = NewScope(vars)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithMaxDepth sets the maximum number of nested script evaluations.
// A depth less than 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(rt *Runtime) {
		rt.maxDepth = depth
	}
}

// New returns a Runtime configured by opts.
func New(opts ...Option) *Runtime {
	rt := &Runtime{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(rt)
	}

	if rt.this == nil {
		rt.this = map[string]any{}
	}

	if rt.scope == nil {
		rt.scope = NewScope(nil)
	}

	return rt
}

// Execute evaluates script against a new Runtime configured by opts and
// returns the value of its last expression, or nil if script is empty.
func Execute(ctx context.Context, script any, opts ...Option) (any, error) {
	return New(opts...).Execute(ctx, script)
}

// Execute evaluates script and returns the value of its last expression, or
// nil if script is empty.
//
// The script may be decoded data or a compiled [Script]. The context,
// variables, and last value persist across calls on the same Runtime.
func (rt *Runtime) Execute(ctx context.Context, script any) (any, error) {
	s := Compile(script)

	rt.logger.TraceContext(ctx, "execute start", slog.Int("expressions", len(s)))

	f := &frame{rt: rt, this: rt.this, last: rt.last, scope: rt.scope}

	result, err := f.run(ctx, s)

	rt.this = f.this

	if err != nil {
		rt.logger.TraceContext(ctx, "execute failed", slog.Any("error", err))

		return nil, err
	}

	rt.last = result

	rt.logger.TraceContext(ctx, "execute complete",
		slog.String("kind", KindOf(result).String()),
	)

	return result, nil
}

// This returns the current context value.
func (rt *Runtime) This() any { return rt.this }

// SetThis replaces the context value.
func (rt *Runtime) SetThis(this any) { rt.this = this }

// Last returns the value of the most recent successful evaluation.
func (rt *Runtime) Last() any { return rt.last }

// Variables returns the variables mapping.
func (rt *Runtime) Variables() map[string]any { return rt.scope.Map() }

// Scope returns the variables scope.
func (rt *Runtime) Scope() *Scope { return rt.scope }

type depthKey struct{}

func depthOf(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)

	return d
}

// frame is the working state of one script evaluation.
type frame struct {
	rt    *Runtime
	this  any
	last  any
	scope *Scope
}

// run evaluates each expression of s in order, making the value of each
// available to the next as the last value.
func (f *frame) run(ctx context.Context, s Script) (any, error) {
	depth := depthOf(ctx) + 1
	if f.rt.maxDepth > 0 && depth > f.rt.maxDepth {
		return nil, ErrMaxDepthExceeded.With(slog.Int("max", f.rt.maxDepth))
	}

	ctx = context.WithValue(ctx, depthKey{}, depth)

	var result any

	for _, x := range s {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := f.eval(ctx, x, depth)
		if err != nil {
			return nil, err
		}

		result = v
		f.last = v
	}

	return result, nil
}

func (f *frame) eval(ctx context.Context, x Expr, depth int) (any, error) {
	if cmd, ok := CommandOf(x); ok {
		f.rt.logger.TraceContext(ctx, "eval",
			slog.String("command", cmd.String()),
			slog.Int("depth", depth),
		)
	}

	switch x := x.(type) {
	case *CallExpr:
		return f.evalCall(ctx, x)

	case *GetExpr:
		return f.evalGet(ctx, x)

	case *LambdaExpr:
		return f.evalLambda(ctx, x), nil

	case *SetExpr:
		return f.evalSet(ctx, x)

	case *ValueExpr:
		return x.Payload, nil

	case *badExpr:
		return nil, x.err

	default:
		return nil, malformed(x.Source(), "unsupported expression").err
	}
}

// operand evaluates op. A script operand is evaluated in a nested frame that
// starts from the current last value; changes to the context value made by
// the operand are kept.
func (f *frame) operand(ctx context.Context, op Operand) (any, error) {
	switch op := op.(type) {
	case *Literal:
		return op.Value, nil

	case Script:
		nested := &frame{rt: f.rt, this: f.this, last: f.last, scope: f.scope}

		v, err := nested.run(ctx, op)
		f.this = nested.this

		return v, err

	default:
		return nil, nil
	}
}

func (f *frame) evalGet(ctx context.Context, x *GetExpr) (any, error) {
	if x.path != nil {
		return f.resolve(*x.path), nil
	}

	v, err := f.operand(ctx, x.Target)
	if err != nil {
		return nil, err
	}

	s, ok := v.(string)
	if !ok {
		return nil, ErrTypeMismatch.With(
			slog.String("expected", KindString.String()),
			slog.String("got", KindOf(v).String()),
			slog.String("expression", FormatResult(x.source)),
		)
	}

	p, err := ParsePath(s)
	if err != nil {
		return nil, err
	}

	return f.resolve(p), nil
}

func (f *frame) evalSet(ctx context.Context, x *SetExpr) (any, error) {
	v, err := f.operand(ctx, x.Value)
	if err != nil {
		return nil, err
	}

	if err := f.assign(x.Receiver, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (f *frame) evalLambda(ctx context.Context, x *LambdaExpr) *Lambda {
	f.rt.logger.TraceContext(ctx, "lambda create",
		slog.Int("arity", len(x.Params)),
		slog.Int("body", len(x.Body)),
	)

	return &Lambda{
		Params: x.Params,
		Body:   x.Body,
		this:   f.this,
		last:   f.last,
		scope:  f.scope,
		rt:     f.rt,
	}
}

func (f *frame) evalCall(ctx context.Context, x *CallExpr) (any, error) {
	var (
		fn       any
		receiver = f.this
		path     *Path
	)

	if x.path != nil {
		path = x.path
	} else {
		target, err := f.operand(ctx, x.Target)
		if err != nil {
			return nil, err
		}

		if s, ok := target.(string); ok {
			p, err := ParsePath(s)
			if err != nil {
				return nil, err
			}

			path = &p
		} else {
			fn = target
		}
	}

	if path != nil {
		fn = f.resolve(*path)

		if path.Len() > 1 {
			receiver = f.resolve(path.Parent())
		}
	}

	if !IsCallable(fn) {
		err := ErrInvocation.With(
			slog.String("reason", "target is not invocable"),
			slog.String("kind", KindOf(fn).String()),
			slog.String("expression", FormatResult(x.source)),
		)
		if path != nil {
			err = err.With(slog.String("path", path.String()))
		}

		return nil, err
	}

	args := make([]any, len(x.Args))

	for i, arg := range x.Args {
		v, err := f.operand(ctx, arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if path != nil {
		f.rt.logger.TraceContext(ctx, "call",
			slog.String("path", path.String()),
			slog.String("receiver", KindOf(receiver).String()),
			slog.Int("args", len(args)),
		)
	}

	return Invoke(ctx, fn, receiver, args...)
}

// resolve returns the value at p, or nil if there is none.
func (f *frame) resolve(p Path) any {
	var (
		root any
		segs = p.Segments
	)

	switch p.Root {
	case RootThis:
		root = f.this

	case RootLast:
		root = f.last

	default:
		if len(segs) == 0 {
			return nil
		}

		v, ok := f.scope.Lookup(segs[0].Key())
		if !ok {
			return nil
		}

		root, segs = v, segs[1:]
	}

	v, _ := Lookup(root, segs...)

	return v
}

// assign writes v at p.
func (f *frame) assign(p Path, v any) error {
	switch p.Root {
	case RootThis:
		this, err := assign(f.this, p.Segments, v, p.String())
		if err != nil {
			return err
		}

		f.this = this

		return nil

	case RootLast:
		return ErrReadOnlyPath.With(slog.String("path", p.String()))

	default:
		if len(p.Segments) == 0 {
			return invalidPath(p.String(), "empty path")
		}

		name := p.Segments[0].Key()
		if len(p.Segments) == 1 {
			f.scope.Define(name, v)

			return nil
		}

		owner := f.scope.Owner(name)
		if owner == nil {
			owner = f.scope
		}

		cur, err := assign(owner.vars[name], p.Segments[1:], v, p.String())
		if err != nil {
			return err
		}

		owner.Define(name, cur)

		return nil
	}
}
