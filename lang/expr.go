package lang

import (
	"errors"
	"log/slog"
	"reflect"
)

// Expr is a single compiled expression: one of [*CallExpr], [*GetExpr],
// [*LambdaExpr], [*SetExpr], or [*ValueExpr].
//
// Data that does not have the shape of an expression still compiles, to an
// Expr that fails when it is evaluated.
type Expr interface {
	// Source returns the data the expression was compiled from.
	Source() any

	isExpr()
}

// Operand is an expression parameter: either a [*Literal] that evaluates to
// itself, or a [Script] that is evaluated in the enclosing context.
type Operand interface {
	isOperand()
}

// Script is an ordered sequence of expressions evaluated left to right.
// The value of a script is the value of its last expression.
type Script []Expr

func (Script) isOperand() {}

// Literal is a raw operand (anything that is not a sequence).
type Literal struct {
	Value any
}

func (*Literal) isOperand() {}

// CallExpr is [ "call", target, args? ].
type CallExpr struct {
	Target Operand
	Args   []Operand
	path   *Path
	source []any
}

// GetExpr is [ "get", target ].
type GetExpr struct {
	Target Operand
	path   *Path
	source []any
}

// LambdaExpr is [ "lambda", paramNames, body ].
type LambdaExpr struct {
	Params []string
	Body   Script
	source []any
}

// SetExpr is [ "set", receiverPath, valueSource ].
type SetExpr struct {
	Receiver Path
	Value    Operand
	source   []any
}

// ValueExpr is [ "value", payload ]. The payload is returned as-is, by
// reference, and is never interpreted.
type ValueExpr struct {
	Payload any
	source  []any
}

// badExpr holds data that could not be compiled. Evaluating it returns err.
type badExpr struct {
	err    error
	source any
}

func (x *CallExpr) Source() any   { return x.source }
func (x *GetExpr) Source() any    { return x.source }
func (x *LambdaExpr) Source() any { return x.source }
func (x *SetExpr) Source() any    { return x.source }
func (x *ValueExpr) Source() any  { return x.source }
func (x *badExpr) Source() any    { return x.source }

func (*CallExpr) isExpr()   {}
func (*GetExpr) isExpr()    {}
func (*LambdaExpr) isExpr() {}
func (*SetExpr) isExpr()    {}
func (*ValueExpr) isExpr()  {}
func (*badExpr) isExpr()    {}

// CommandOf returns the command of x, or false if x is not a well-formed
// expression.
func CommandOf(x Expr) (Command, bool) {
	switch x.(type) {
	case *CallExpr:
		return CommandCall, true
	case *GetExpr:
		return CommandGet, true
	case *LambdaExpr:
		return CommandLambda, true
	case *SetExpr:
		return CommandSet, true
	case *ValueExpr:
		return CommandValue, true
	default:
		return -1, false
	}
}

// Compile converts decoded script data into a [Script].
//
// A sequence whose first element is a string is a single expression; any
// other sequence is a sequence of expressions. Compile never fails: data that
// is not shaped like a script compiles to expressions that return an error
// when evaluated, so scripts are only ever rejected at evaluation time.
// Use [Script.Check] to find those expressions up front.
func Compile(script any) Script {
	switch s := script.(type) {
	case Script:
		return s

	case Expr:
		return Script{s}

	case nil:
		return Script{}
	}

	seq, ok := sequence(script)
	if !ok {
		return Script{malformed(script, "script must be a sequence")}
	}

	if len(seq) > 0 {
		if _, isTag := seq[0].(string); isTag {
			return Script{compileExpr(seq)}
		}
	}

	out := make(Script, 0, len(seq))

	for _, elem := range seq {
		x, ok := sequence(elem)
		if !ok {
			out = append(out, malformed(elem, "expression must be a sequence"))

			continue
		}

		out = append(out, compileExpr(x))
	}

	return out
}

// Check returns an error joining the errors of every malformed expression in
// s, including those nested in operands and lambda bodies.
func (s Script) Check() error {
	var errs []error

	for _, x := range s {
		errs = append(errs, checkExpr(x))
	}

	return errors.Join(errs...)
}

func checkExpr(x Expr) error {
	checkOp := func(op Operand) error {
		if s, ok := op.(Script); ok {
			return s.Check()
		}

		return nil
	}

	switch x := x.(type) {
	case *badExpr:
		return x.err

	case *CallExpr:
		errs := []error{checkOp(x.Target)}
		for _, arg := range x.Args {
			errs = append(errs, checkOp(arg))
		}

		return errors.Join(errs...)

	case *GetExpr:
		return checkOp(x.Target)

	case *LambdaExpr:
		return x.Body.Check()

	case *SetExpr:
		return checkOp(x.Value)

	default:
		return nil
	}
}

func compileExpr(x []any) Expr {
	if len(x) == 0 {
		return malformed(x, "empty expression")
	}

	tag, ok := x[0].(string)
	if !ok {
		return malformed(x, "command must be a string")
	}

	cmd, ok := ParseCommand(tag)
	if !ok {
		return &badExpr{err: unknownCommand(tag, x), source: x}
	}

	param := func(i int) any {
		if i < len(x) {
			return x[i]
		}

		return nil
	}

	switch cmd {
	case CommandCall:
		return compileCall(x, param(1), param(2))

	case CommandGet:
		return compileGet(x, param(1))

	case CommandLambda:
		return compileLambda(x, param(1), param(2))

	case CommandSet:
		return compileSet(x, param(1), param(2))

	case CommandValue:
		return &ValueExpr{Payload: param(1), source: x}

	default:
		return &badExpr{err: unknownCommand(tag, x), source: x}
	}
}

func compileCall(x []any, target, args any) Expr {
	call := &CallExpr{Target: compileOperand(target), source: x}

	if s, ok := target.(string); ok {
		p, err := ParsePath(s)
		if err != nil {
			return &badExpr{err: err, source: x}
		}

		call.path = &p
	}

	if args == nil {
		return call
	}

	list, ok := sequence(args)
	if !ok {
		return malformed(x, "call arguments must be a sequence")
	}

	call.Args = make([]Operand, len(list))
	for i, arg := range list {
		call.Args[i] = compileOperand(arg)
	}

	return call
}

func compileGet(x []any, target any) Expr {
	get := &GetExpr{Target: compileOperand(target), source: x}

	if s, ok := target.(string); ok {
		p, err := ParsePath(s)
		if err != nil {
			return &badExpr{err: err, source: x}
		}

		get.path = &p
	}

	return get
}

func compileLambda(x []any, params, body any) Expr {
	lambda := &LambdaExpr{source: x}

	if params != nil {
		list, ok := sequence(params)
		if !ok {
			return malformed(x, "lambda parameters must be a sequence")
		}

		lambda.Params = make([]string, len(list))

		for i, p := range list {
			name, ok := p.(string)
			if !ok || name == "" {
				return malformed(x, "lambda parameter must be a name",
					slog.Int("index", i))
			}

			lambda.Params[i] = name
		}
	}

	if body != nil {
		lambda.Body = Compile(body)
	}

	return lambda
}

func compileSet(x []any, receiver, value any) Expr {
	s, ok := receiver.(string)
	if !ok {
		return malformed(x, "set receiver must be a path")
	}

	p, err := ParsePath(s)
	if err != nil {
		return &badExpr{err: err, source: x}
	}

	if p.Root == RootLast {
		return &badExpr{
			err:    ErrReadOnlyPath.With(slog.String("path", s)),
			source: x,
		}
	}

	return &SetExpr{Receiver: p, Value: compileOperand(value), source: x}
}

func compileOperand(v any) Operand {
	if s, ok := v.(Script); ok {
		return s
	}

	if _, ok := v.(Expr); ok {
		return Compile(v)
	}

	if seq, ok := sequence(v); ok {
		return Compile(seq)
	}

	return &Literal{Value: v}
}

// malformed returns a badExpr for source with the given reason.
func malformed(source any, reason string, attrs ...slog.Attr) *badExpr {
	err := ErrMalformedExpression.With(
		slog.String("reason", reason),
		slog.String("expression", FormatResult(source)),
	)

	return &badExpr{err: err.With(attrs...), source: source}
}

// sequence returns v as []any if v is a sequence in a code position.
// Go slices of other element types are copied; byte slices are not sequences.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case nil, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
