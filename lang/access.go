package lang

import (
	"log/slog"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lengthProperty is the read-only pseudo-property of sequences and strings.
const lengthProperty = "length"

// MaxIndexGrowth is the largest number of elements an assignment may append
// to a sequence. Writing to an index further beyond the end is an error.
const MaxIndexGrowth = 1 << 16

// Lookup returns the value at the given segments within v.
// A missing location yields (nil, false) rather than an error.
func Lookup(v any, segs ...Segment) (any, bool) {
	for _, seg := range segs {
		var ok bool

		v, ok = index(v, seg)
		if !ok {
			return nil, false
		}
	}

	return v, true
}

// index returns the value of seg within container.
func index(container any, seg Segment) (any, bool) {
	switch c := container.(type) {
	case nil:
		return nil, false

	case map[string]any:
		v, ok := c[seg.Key()]

		return v, ok

	case []any:
		if seg.IsIndex {
			if seg.Index < len(c) {
				return c[seg.Index], true
			}

			return nil, false
		}

		if seg.Name == lengthProperty {
			return len(c), true
		}

		return nil, false

	case string:
		if !seg.IsIndex && seg.Name == lengthProperty {
			return utf8.RuneCountInString(c), true
		}

		return nil, false
	}

	return reflectIndex(reflect.ValueOf(container), seg)
}

func reflectIndex(rv reflect.Value, seg Segment) (any, bool) {
	// Methods are looked up on the value as given, so that methods with
	// pointer receivers remain reachable.
	if !seg.IsIndex {
		if m, ok := methodByName(rv, seg.Name); ok {
			// Exported struct fields take precedence over methods.
			if f, ok := fieldByName(reflect.Indirect(rv), seg.Name); ok {
				return f.Interface(), true
			}

			return m.Interface(), true
		}
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		e := rv.MapIndex(reflect.ValueOf(seg.Key()).Convert(rv.Type().Key()))
		if !e.IsValid() {
			return nil, false
		}

		return e.Interface(), true

	case reflect.Slice, reflect.Array:
		if !seg.IsIndex {
			if seg.Name == lengthProperty {
				return rv.Len(), true
			}

			return nil, false
		}

		if seg.Index >= rv.Len() {
			return nil, false
		}

		return rv.Index(seg.Index).Interface(), true

	case reflect.String:
		if !seg.IsIndex && seg.Name == lengthProperty {
			return utf8.RuneCountInString(rv.String()), true
		}

	case reflect.Struct:
		if f, ok := fieldByName(rv, seg.Key()); ok {
			return f.Interface(), true
		}
	}

	return nil, false
}

// fieldByName returns the exported field of struct value rv matching name,
// either by Go field name (with the first letter upper-cased) or by the name
// in its json tag.
func fieldByName(rv reflect.Value, name string) (reflect.Value, bool) {
	if rv.Kind() != reflect.Struct || name == "" {
		return reflect.Value{}, false
	}

	t := rv.Type()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Name == name || f.Name == exported(name) || (tag != "" && tag == name) {
			return rv.Field(i), true
		}
	}

	return reflect.Value{}, false
}

// methodByName returns the method of rv named name, matching the exported
// spelling of name as well.
func methodByName(rv reflect.Value, name string) (reflect.Value, bool) {
	if !rv.IsValid() || name == "" || rv.NumMethod() == 0 {
		return reflect.Value{}, false
	}

	for _, n := range []string{name, exported(name)} {
		if m := rv.MethodByName(n); m.IsValid() {
			return m, true
		}
	}

	return reflect.Value{}, false
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(r)) + name[size:]
}

// assign writes v at segs within container and returns the updated
// container, which differs from container when it had to be created or grown.
//
// Missing intermediate containers are created: a mapping for a name segment,
// a sequence for an index segment.
func assign(container any, segs []Segment, v any, path string) (any, error) {
	if len(segs) == 0 {
		return v, nil
	}

	seg := segs[0]

	if KindOf(container) == KindAbsent {
		if seg.IsIndex {
			container = []any{}
		} else {
			container = map[string]any{}
		}
	}

	child, _ := index(container, seg)

	child, err := assign(child, segs[1:], v, path)
	if err != nil {
		return nil, err
	}

	return store(container, seg, child, path)
}

// store writes v at seg within container.
func store(container any, seg Segment, v any, path string) (any, error) {
	switch c := container.(type) {
	case map[string]any:
		if c == nil {
			c = map[string]any{}
		}

		c[seg.Key()] = v

		return c, nil

	case []any:
		if !seg.IsIndex {
			return nil, cannotAssign(path, seg, container)
		}

		if err := checkGrowth(len(c), seg, path); err != nil {
			return nil, err
		}

		if seg.Index >= len(c) {
			c = append(c, make([]any, seg.Index+1-len(c))...)
		}

		c[seg.Index] = v

		return c, nil
	}

	return reflectStore(reflect.ValueOf(container), seg, v, path)
}

func reflectStore(rv reflect.Value, seg Segment, v any, path string) (any, error) {
	orig := rv

	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		t := rv.Type()
		if t.Key().Kind() != reflect.String {
			break
		}

		ev, err := convertValue(v, t.Elem())
		if err != nil {
			return nil, err
		}

		if rv.IsNil() {
			rv = reflect.MakeMap(t)
		}

		rv.SetMapIndex(reflect.ValueOf(seg.Key()).Convert(t.Key()), ev)

		return rv.Interface(), nil

	case reflect.Slice:
		if !seg.IsIndex {
			break
		}

		ev, err := convertValue(v, rv.Type().Elem())
		if err != nil {
			return nil, err
		}

		if err := checkGrowth(rv.Len(), seg, path); err != nil {
			return nil, err
		}

		if n := seg.Index + 1 - rv.Len(); n > 0 {
			rv = reflect.AppendSlice(rv, reflect.MakeSlice(rv.Type(), n, n))
		}

		rv.Index(seg.Index).Set(ev)

		return rv.Interface(), nil

	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			break
		}

		if err := setField(rv.Elem(), seg, v, path); err != nil {
			return nil, err
		}

		return orig.Interface(), nil

	case reflect.Struct:
		// Struct values are copied; the modified copy replaces the original
		// in its parent.
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)

		if err := setField(cp, seg, v, path); err != nil {
			return nil, err
		}

		return cp.Interface(), nil
	}

	return nil, cannotAssign(path, seg, orig.Interface())
}

func setField(rv reflect.Value, seg Segment, v any, path string) error {
	f, ok := fieldByName(rv, seg.Key())
	if !ok || !f.CanSet() {
		return cannotAssign(path, seg, rv.Interface())
	}

	ev, err := convertValue(v, f.Type())
	if err != nil {
		return err
	}

	f.Set(ev)

	return nil
}

// checkGrowth rejects a write at seg that would append more than
// [MaxIndexGrowth] elements to a sequence of length n.
func checkGrowth(n int, seg Segment, path string) error {
	if seg.Index-n < MaxIndexGrowth {
		return nil
	}

	return ErrInvalidPath.With(
		slog.String("path", path),
		slog.String("segment", seg.String()),
		slog.Int("length", n),
		slog.String("reason", "index too far beyond the end of the sequence"),
	)
}

func cannotAssign(path string, seg Segment, container any) *Error {
	return ErrInvalidPath.With(
		slog.String("path", path),
		slog.String("segment", seg.String()),
		slog.String("reason", "cannot assign into "+KindOf(container).String()),
	)
}
