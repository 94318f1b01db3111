package host

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"

	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	staticOnce sync.Once
	static     map[string]any
)

// staticPrelude returns a copy of the lazily-initialized prelude entries that
// do not depend on options. Nested mappings are copied as well, so callers
// may mutate the result without affecting the shared cache.
func staticPrelude() map[string]any {
	staticOnce.Do(func() {
		static = map[string]any{
			// System information.
			"target":   hostTarget(),
			"platform": hostPlatform(),
			"hostname": hostname(),
			"user":     currentUser(),
			"shell":    loginShell(),

			"cwd": cwd,

			"file": map[string]any{
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
				"isSymlink": fileIsSymlink,
			},

			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			// PATH-like string manipulation.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},

			"expr": map[string]any{
				"eval":    exprEval,
				"compile": exprCompile,
			},
		}
	})

	out := maps.Clone(static)
	for k, v := range out {
		if m, ok := v.(map[string]any); ok {
			out[k] = maps.Clone(m)
		}
	}

	return out
}

type config struct {
	environ []string
	output  io.Writer
	loop    *Loop
	logger  log.Logger
}

// Option configures [Prelude].
type Option func(*config)

// WithEnviron sets the "KEY=VALUE" entries read by env. If not provided, the
// process environment is used.
func WithEnviron(env []string) Option {
	return func(c *config) {
		c.environ = env
	}
}

// WithOutput sets the writer used by print. It defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithLoop sets the loop on which promises created by async run their
// callbacks. If not provided, a new loop is created and can be retrieved
// with [LoopOf].
func WithLoop(l *Loop) Option {
	return func(c *config) {
		c.loop = l
	}
}

// WithLogger sets the logger used by the loop created when no loop is
// provided.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// loopKey is the prelude entry holding the loop used by async.
const loopKey = "async"

// Prelude returns a new variables mapping holding the host functions and
// values available to scripts:
//
//	target, platform         {os, arch} of the host
//	hostname, user, shell    host identity
//	env(key)                 environment variable lookup
//	cwd()                    working directory
//	file.exists(path)        also file.isDir, file.isRegular, file.isSymlink
//	path.abs(path)           also path.cat(elem...), path.rel(from, to)
//	mung.prefix(list, ...)   prefix items to a PATH-like list
//	mung.prefixif(list, predicate, ...)
//	expr.eval(source, env)   evaluate an expr-lang expression
//	expr.compile(source)     compile an expression to a function of env
//	print(args...)           write args to the output, space separated
//	async.resolve(v)         also async.reject(message), async.defer(fn, args...)
func Prelude(opts ...Option) map[string]any {
	c := config{output: os.Stdout}

	for _, opt := range opts {
		opt(&c)
	}

	if c.loop == nil {
		c.loop = NewLoop(c.logger)
	}

	vars := staticPrelude()

	env := environ(c.environ)
	vars["env"] = func(key string) string { return env[key] }
	vars["print"] = printer(c.output)
	vars[loopKey] = &asyncModule{loop: c.loop}

	return vars
}

// LoopOf returns the loop used by the async functions of a prelude returned
// by [Prelude], or nil if vars holds none.
func LoopOf(vars map[string]any) *Loop {
	if m, ok := vars[loopKey].(*asyncModule); ok {
		return m.loop
	}

	return nil
}

// asyncModule exposes promise constructors to scripts as methods.
type asyncModule struct {
	loop *Loop
}

// Resolve returns a promise fulfilled with v.
func (m *asyncModule) Resolve(v any) *Promise { return m.loop.Resolve(v) }

// Reject returns a promise rejected with message.
func (m *asyncModule) Reject(message string) *Promise {
	return m.loop.Reject(errors.New(message))
}

// Defer returns a promise settled by calling fn with args on the loop.
func (m *asyncModule) Defer(fn any, args ...any) *Promise {
	return m.loop.Defer(fn, args...)
}

// String returns a placeholder naming the module.
func (m *asyncModule) String() string { return "<async>" }

func printer(w io.Writer) func(args ...any) error {
	return func(args ...any) error {
		parts := make([]any, len(args))

		for i, arg := range args {
			if s, ok := arg.(string); ok {
				parts[i] = s
			} else {
				parts[i] = lang.FormatResult(arg)
			}
		}

		_, err := fmt.Fprintln(w, parts...)

		return err
	}
}
