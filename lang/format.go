package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// EncodeFormat selects the text encoding used by [Encode].
type EncodeFormat int

const (
	EncodeJSON EncodeFormat = iota // json
	EncodeYAML                     // yaml
)

// ParseEncodeFormat returns the EncodeFormat named s.
func ParseEncodeFormat(s string) (EncodeFormat, bool) {
	for _, f := range []EncodeFormat{EncodeJSON, EncodeYAML} {
		if strings.EqualFold(s, f.String()) {
			return f, true
		}
	}

	return -1, false
}

// Encode writes v to w in the given format, followed by a newline.
//
// With indent > 0, JSON and YAML are written in block form with that many
// spaces per level; otherwise JSON is compact and YAML uses flow style.
// Values that have no data representation, such as functions and host
// values, are written as their kind name in angle brackets.
func Encode(
	ctx context.Context,
	w io.Writer,
	v any,
	format EncodeFormat,
	indent int,
) error {
	data := encodable(v)

	switch format {
	case EncodeJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)

		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}

		if err := enc.Encode(data); err != nil {
			return ErrEncode.Wrap(err)
		}

		return nil

	case EncodeYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		b, err := yaml.MarshalContext(ctx, data, opts...)
		if err != nil {
			return ErrEncode.Wrap(err)
		}

		if len(b) == 0 || b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}

		if _, err := w.Write(b); err != nil {
			return ErrEncode.Wrap(err)
		}

		return nil

	default:
		return ErrEncode.Wrap(fmt.Errorf("unknown format %d", format))
	}
}

// cycleMarker replaces a container that is reached again from within itself.
const cycleMarker = "<cycle>"

// visit identifies a mapping or sequence by its backing storage.
type visit struct {
	ptr  uintptr
	len  int
	kind reflect.Kind
}

// ancestors holds the containers enclosing the value being formatted.
type ancestors map[visit]struct{}

// enter records v as an ancestor and reports whether it was not already one.
// Values that cannot form a cycle are never recorded.
func (a ancestors) enter(v any) (visit, bool) {
	rv := reflect.ValueOf(v)

	var key visit

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return key, true
		}

		key = visit{ptr: rv.Pointer(), kind: reflect.Map}

	case reflect.Slice:
		if rv.Len() == 0 {
			return key, true
		}

		key = visit{ptr: rv.Pointer(), len: rv.Len(), kind: reflect.Slice}

	default:
		return key, true
	}

	if _, ok := a[key]; ok {
		return key, false
	}

	a[key] = struct{}{}

	return key, true
}

func (a ancestors) leave(key visit) {
	delete(a, key)
}

// encodable returns a copy of v in which every function and host value is
// replaced by a placeholder string, and every container nested within
// itself by [cycleMarker].
func encodable(v any) any {
	return encodableValue(v, ancestors{})
}

func encodableValue(v any, seen ancestors) any {
	switch v := v.(type) {
	case Script:
		return v.Source()
	case Expr:
		return v.Source()
	}

	switch KindOf(v) {
	case KindFunction:
		return placeholder(v)

	case KindHost:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}

		return placeholder(v)

	case KindSequence:
		if _, ok := v.([]byte); ok {
			return v
		}

		key, ok := seen.enter(v)
		if !ok {
			return cycleMarker
		}
		defer seen.leave(key)

		seq, _ := sequence(v)
		out := make([]any, len(seq))

		for i, e := range seq {
			out[i] = encodableValue(e, seen)
		}

		return out

	case KindMapping:
		key, ok := seen.enter(v)
		if !ok {
			return cycleMarker
		}
		defer seen.leave(key)

		rv := reflect.ValueOf(v)
		out := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = encodableValue(iter.Value().Interface(), seen)
		}

		return out

	default:
		return v
	}
}

func placeholder(v any) string {
	if l, ok := v.(*Lambda); ok {
		return l.String()
	}

	return "<" + KindOf(v).String() + ">"
}

// Source returns the data s was compiled from.
func (s Script) Source() []any {
	out := make([]any, len(s))
	for i, x := range s {
		out[i] = x.Source()
	}

	return out
}

// String returns the compact rendering of the data s was compiled from.
func (s Script) String() string {
	return FormatResult(s.Source())
}

// FormatResult formats an evaluation result as a single line.
//
// Strings are quoted, sequences and mappings are written in JSON-like
// notation with sorted keys, nil is written as "undefined", and functions and
// host values are written as placeholders. A sequence or mapping that contains
// itself is written as "<cycle>" where it recurs.
func FormatResult(result any) string {
	var b strings.Builder

	formatResultValue(&b, result, ancestors{})

	return b.String()
}

func formatResultValue(b *strings.Builder, v any, seen ancestors) {
	switch val := v.(type) {
	case nil:
		b.WriteString("undefined")

	case bool:
		b.WriteString(strconv.FormatBool(val))

	case int:
		b.WriteString(strconv.Itoa(val))

	case int64:
		b.WriteString(strconv.FormatInt(val, 10))

	case uint64:
		b.WriteString(strconv.FormatUint(val, 10))

	case float64:
		b.WriteString(strconv.FormatFloat(val, 'g', -1, 64))

	case string:
		b.WriteString(strconv.Quote(val))

	case []any:
		formatSlice(b, val, seen)

	case map[string]any:
		formatMap(b, val, seen)

	case Script:
		formatSlice(b, val.Source(), seen)

	case Expr:
		formatResultValue(b, val.Source(), seen)

	case *Lambda:
		b.WriteString(val.String())

	case fmt.Stringer:
		b.WriteString(val.String())

	default:
		switch KindOf(v) {
		case KindFunction:
			b.WriteString(placeholder(v))
		case KindSequence, KindMapping:
			formatResultValue(b, encodableValue(v, seen), seen)
		default:
			fmt.Fprintf(b, "%v", v)
		}
	}
}

func formatSlice(b *strings.Builder, vals []any, seen ancestors) {
	key, ok := seen.enter(vals)
	if !ok {
		b.WriteString(cycleMarker)

		return
	}
	defer seen.leave(key)

	b.WriteByte('[')

	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}

		formatResultValue(b, v, seen)
	}

	b.WriteByte(']')
}

func formatMap(b *strings.Builder, m map[string]any, seen ancestors) {
	key, ok := seen.enter(m)
	if !ok {
		b.WriteString(cycleMarker)

		return
	}
	defer seen.leave(key)

	b.WriteByte('{')

	for i, k := range sortedKeys(m) {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		formatResultValue(b, m[k], seen)
	}

	b.WriteByte('}')
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
