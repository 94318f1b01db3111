package lang

//go:generate go tool stringer --linecomment --type Kind,Command,Root,EncodeFormat --output kind_string.go

import (
	"reflect"
)

// Kind classifies a runtime value.
//
// Scripts operate on ordinary Go values. Every value belongs to exactly one
// Kind, which determines how paths descend into it and whether it can be
// called.
type Kind int

const (
	KindAbsent   Kind = iota // absent
	KindBoolean              // boolean
	KindNumber               // number
	KindString               // string
	KindFunction             // function
	KindSequence             // sequence
	KindMapping              // mapping
	KindHost                 // host
)

// KindOf returns the Kind of v.
//
// Any Go integer or floating-point type is a number. Slices and arrays are
// sequences, maps keyed by strings are mappings, and [Invocable] values or Go
// funcs are functions. Everything else (structs, pointers, channels, maps with
// non-string keys) is an opaque host value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindAbsent

	case bool:
		return KindBoolean

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return KindNumber

	case string:
		return KindString

	case Invocable:
		return KindFunction

	case []any:
		return KindSequence

	case map[string]any:
		return KindMapping
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return KindBoolean

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr, reflect.Float32, reflect.Float64:
		return KindNumber

	case reflect.String:
		return KindString

	case reflect.Func:
		if rv.IsNil() {
			return KindAbsent
		}

		return KindFunction

	case reflect.Slice, reflect.Array:
		return KindSequence

	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMapping
		}

		return KindHost

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindAbsent
		}

		return KindHost

	default:
		return KindHost
	}
}

// IsCallable reports whether v can be the target of a call expression.
func IsCallable(v any) bool {
	return KindOf(v) == KindFunction
}
