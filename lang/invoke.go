package lang

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

// Invocable is a value that can be the target of a call expression.
//
// The receiver this is the value the call is bound to: the value at the
// parent of the called path, or the enclosing context for single-segment
// paths and computed targets.
type Invocable interface {
	Invoke(ctx context.Context, this any, args ...any) (any, error)
}

// Func adapts an ordinary function to [Invocable].
type Func func(ctx context.Context, this any, args ...any) (any, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, this any, args ...any) (any, error) {
	return f(ctx, this, args...)
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Invoke calls fn with receiver this and the given arguments.
//
// If fn is an [Invocable], its Invoke method is called. Any other Go func is
// called through reflection: a leading context.Context parameter receives
// ctx, arguments are converted to the parameter types, missing arguments are
// zero values, and extra arguments are dropped unless the func is variadic.
// A trailing error result is returned as the error; otherwise zero results
// yield nil, one result yields that value, and several yield a []any.
//
// A panic raised by fn is returned as an error matching [ErrInvocation].
func Invoke(ctx context.Context, fn, this any, args ...any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}

			result, err = nil, ErrInvocation.Wrap(cause).
				With(slog.Bool("panic", true))
		}
	}()

	if f, ok := fn.(Invocable); ok {
		return f.Invoke(ctx, this, args...)
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrInvocation.With(
			slog.String("reason", "target is not invocable"),
			slog.String("kind", KindOf(fn).String()),
		)
	}

	return callFunc(ctx, rv, args)
}

func callFunc(ctx context.Context, fn reflect.Value, args []any) (any, error) {
	t := fn.Type()
	n := t.NumIn()
	in := make([]reflect.Value, 0, max(n, len(args)))

	first := 0
	if n > 0 && t.In(0) == contextType {
		in = append(in, reflect.ValueOf(&ctx).Elem())
		first = 1
	}

	fixed := n
	if t.IsVariadic() {
		fixed--
	}

	for i := first; i < fixed; i++ {
		var arg any
		if k := i - first; k < len(args) {
			arg = args[k]
		}

		v, err := convert(ctx, arg, t.In(i))
		if err != nil {
			return nil, err.With(slog.Int("argument", i-first))
		}

		in = append(in, v)
	}

	if t.IsVariadic() {
		elem := t.In(n - 1).Elem()

		for k := fixed - first; k < len(args); k++ {
			v, err := convert(ctx, args[k], elem)
			if err != nil {
				return nil, err.With(slog.Int("argument", k))
			}

			in = append(in, v)
		}
	}

	out := fn.Call(in)

	if m := len(out); m > 0 && t.Out(m-1) == errorType {
		if e := out[m-1]; !e.IsNil() {
			return nil, e.Interface().(error) //nolint:forcetypeassert
		}

		out = out[:m-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return unwrapValue(out[0]), nil
	default:
		res := make([]any, len(out))
		for i, o := range out {
			res[i] = unwrapValue(o)
		}

		return res, nil
	}
}

// unwrapValue returns the interface value of rv, with nil pointers, funcs,
// channels, and interfaces collapsed to an untyped nil.
func unwrapValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}

	return rv.Interface()
}

// convertValue converts v to a value of type t.
func convertValue(v any, t reflect.Type) (reflect.Value, error) {
	rv, err := convert(context.Background(), v, t)
	if err != nil {
		return rv, err
	}

	return rv, nil
}

// convert converts v to a value of type t.
//
// Beyond Go assignability, numbers convert between numeric types when no
// precision is lost, sequences convert element-wise to slices, mappings
// convert value-wise to string-keyed maps, and callable values convert to
// any func type.
func convert(ctx context.Context, v any, t reflect.Type) (reflect.Value, *Error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	mismatch := func() *Error {
		return ErrTypeMismatch.With(
			slog.String("expected", t.String()),
			slog.String("got", rv.Type().String()),
		)
	}

	switch {
	case isNumeric(rv.Kind()) && isNumeric(t.Kind()):
		cv := rv.Convert(t)
		if !sameNumber(rv, cv) {
			return reflect.Value{}, mismatch()
		}

		return cv, nil

	case rv.Kind() == reflect.String && t.Kind() == reflect.String:
		return rv.Convert(t), nil

	case t.Kind() == reflect.Func && IsCallable(v):
		return makeFunc(ctx, v, t), nil

	case t.Kind() == reflect.Slice && KindOf(v) == KindSequence:
		seq, _ := sequence(v)
		out := reflect.MakeSlice(t, len(seq), len(seq))

		for i, e := range seq {
			ev, err := convert(ctx, e, t.Elem())
			if err != nil {
				return reflect.Value{}, err.With(slog.Int("index", i))
			}

			out.Index(i).Set(ev)
		}

		return out, nil

	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String &&
		rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(t, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			ev, err := convert(ctx, iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err.With(slog.String("key", iter.Key().String()))
			}

			out.SetMapIndex(iter.Key().Convert(t.Key()), ev)
		}

		return out, nil
	}

	return reflect.Value{}, mismatch()
}

// makeFunc returns a func of type t that invokes fn.
//
// A leading context.Context parameter of t replaces ctx for the call. If fn
// fails and t has no trailing error result, the func panics with the error.
func makeFunc(ctx context.Context, fn any, t reflect.Type) reflect.Value {
	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		callCtx := ctx

		args := make([]any, 0, len(in))

		for i, v := range in {
			if i == 0 && t.In(0) == contextType {
				if c, ok := v.Interface().(context.Context); ok && c != nil {
					callCtx = c
				}

				continue
			}

			if i == len(in)-1 && t.IsVariadic() {
				for k := range v.Len() {
					args = append(args, v.Index(k).Interface())
				}

				continue
			}

			args = append(args, v.Interface())
		}

		res, err := Invoke(callCtx, fn, nil, args...)

		out := make([]reflect.Value, t.NumOut())
		for i := range out {
			out[i] = reflect.Zero(t.Out(i))
		}

		hasErr := len(out) > 0 && t.Out(len(out)-1) == errorType

		if err == nil && len(out) > 0 && !(hasErr && len(out) == 1) {
			v, cerr := convert(callCtx, res, t.Out(0))
			if cerr != nil {
				err = cerr
			} else {
				out[0] = v
			}
		}

		if err != nil {
			if !hasErr {
				panic(err)
			}

			out[len(out)-1] = reflect.ValueOf(&err).Elem()
		}

		return out
	})
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr, reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// sameNumber reports whether numeric values a and b are equal.
func sameNumber(a, b reflect.Value) bool {
	return numberOf(a) == numberOf(b)
}

func numberOf(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
