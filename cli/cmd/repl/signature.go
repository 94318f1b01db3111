package repl

import (
	"context"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/jsonscript/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is a call expression whose argument list contains the cursor.
type functionCall struct {
	name     string // target path, such as "path.cat"
	argIndex int    // 0-based argument under the cursor
	inCall   bool
}

// listFrame is an open sequence or mapping while scanning input.
type listFrame struct {
	seq   bool
	pos   int      // element index within the enclosing sequence
	elem  int      // index of the element being scanned
	items []string // string literals by element index, "" otherwise
}

func (f *listFrame) setString(s string) {
	for len(f.items) <= f.elem {
		f.items = append(f.items, "")
	}

	f.items[f.elem] = s
}

func (f *listFrame) item(i int) string {
	if i < len(f.items) {
		return f.items[i]
	}

	return ""
}

// detectFunctionCall reports the innermost call expression, written as
// ["call", "name", [args...]], whose argument sequence contains cursor.
// Strings may be quoted with either ' or ", as in YAML flow sequences.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	var stack []*listFrame

	for i := 0; i < cursor; i++ {
		switch c := input[i]; c {
		case '[', '{':
			f := &listFrame{seq: c == '['}
			if n := len(stack); n > 0 {
				f.pos = stack[n-1].elem
			}

			stack = append(stack, f)

		case ']', '}':
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}

		case ',':
			if n := len(stack); n > 0 {
				stack[n-1].elem++
			}

		case '"', '\'':
			s, end, closed := scanString(input[:cursor], i)
			if !closed {
				i = cursor

				break
			}

			if n := len(stack); n > 0 && stack[n-1].seq {
				stack[n-1].setString(s)
			}

			i = end
		}
	}

	for n := len(stack) - 1; n > 0; n-- {
		args, call := stack[n], stack[n-1]
		if !args.seq || !call.seq || args.pos != 2 {
			continue
		}

		if call.item(0) == lang.CommandCall.String() && call.item(1) != "" {
			return functionCall{
				name:     call.item(1),
				argIndex: args.elem,
				inCall:   true,
			}
		}
	}

	return functionCall{}
}

// scanString returns the contents of the quoted string starting at input[i],
// the index of its closing quote, and whether the string is closed.
func scanString(input string, i int) (string, int, bool) {
	quote := input[i]

	var b strings.Builder

	for j := i + 1; j < len(input); j++ {
		switch c := input[j]; {
		case c == quote:
			return b.String(), j, true
		case c == '\\' && quote == '"' && j+1 < len(input):
			j++
			b.WriteByte(input[j])
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), len(input), false
}

// signature returns the parameter names of the function fn. Lambdas report
// their declared names. Host functions report their parameter types, except a
// leading context, with a variadic parameter prefixed by "...".
func signature(fn any) ([]string, bool) {
	switch fn := fn.(type) {
	case *lang.Lambda:
		return fn.Params, true
	case lang.Func:
		return []string{"...any"}, true
	case nil:
		return nil, false
	}

	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return nil, false
	}

	var params []string

	for i := range t.NumIn() {
		in := t.In(i)
		if i == 0 && in == reflect.TypeFor[context.Context]() {
			continue
		}

		if t.IsVariadic() && i == t.NumIn()-1 {
			params = append(params, "..."+typeName(in.Elem()))
		} else {
			params = append(params, typeName(in))
		}
	}

	return params, true
}

// typeName returns the script-facing name of a Go parameter type.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "function"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "sequence"
	case reflect.Map:
		return "mapping"
	case reflect.Interface:
		return "any"
	case reflect.Pointer:
		return typeName(t.Elem())
	}

	if t.Name() != "" {
		return t.Name()
	}

	return "arg"
}

// renderSignatureHint renders name(params...) with the parameter at argIndex
// highlighted. A variadic parameter is highlighted for every index at or
// beyond its own.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if argIndex == i || (variadic && argIndex > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
