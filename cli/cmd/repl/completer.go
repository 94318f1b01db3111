package repl

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jsonscript/lang"
)

// ctrlCommands are the available control commands, entered with a leading
// ctrlPrefix.
var ctrlCommands = []string{"clear", "edit", "help", "quit", "this", "vars"}

// maxIndexCandidates limits the sequence indices offered as completions.
const maxIndexCandidates = 16

// isWordBoundary reports whether r delimits a completion word. Scripts are
// typed as JSON or YAML flow sequences, so quotes, brackets, braces and
// separators end a word, as does the '.' between path segments.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', '"', '\'', '[', ']', '{', '}', ',', ':':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word at cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted path preceding the word starting at
// wordStart, or "" for a word that is not a member access. For the input
// `["get", "this.user.na` and the word "na", the parent path is "this.user".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// resolve returns the value at the dotted path s in rt without evaluating
// anything.
func resolve(rt *lang.Runtime, s string) (any, bool) {
	p, err := lang.ParsePath(s)
	if err != nil {
		return nil, false
	}

	segs := p.Segments

	var root any

	switch p.Root {
	case lang.RootThis:
		root = rt.This()
	case lang.RootLast:
		root = rt.Last()
	default:
		if len(segs) == 0 {
			return nil, false
		}

		v, ok := rt.Scope().Lookup(segs[0].Name)
		if !ok {
			return nil, false
		}

		root, segs = v, segs[1:]
	}

	return lang.Lookup(root, segs...)
}

// childCandidates returns the completions available after parent. The
// top level offers the command names, the path roots and every variable.
func childCandidates(rt *lang.Runtime, parent string) []string {
	if parent == "" {
		names := slices.Collect(lang.Commands())
		names = append(names, "this", "$")

		return append(names, rt.Scope().Names()...)
	}

	v, ok := resolve(rt, parent)
	if !ok {
		return nil
	}

	return members(v)
}

// members returns the names addressable by a path segment on v: mapping
// keys, sequence indices, and exported fields and methods of host values.
func members(v any) []string {
	switch v := v.(type) {
	case nil:
		return nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for k := range v {
			names = append(names, k)
		}

		slices.Sort(names)

		return names
	}

	rv := reflect.ValueOf(v)

	var names []string

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		for i := range min(rv.Len(), maxIndexCandidates) {
			names = append(names, strconv.Itoa(i))
		}

		return append(names, "length")

	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			for _, k := range rv.MapKeys() {
				names = append(names, k.String())
			}
		}

	case reflect.Pointer:
		if !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
			names = fieldNames(rv.Elem().Type())
		}

	case reflect.Struct:
		names = fieldNames(rv.Type())
	}

	for i := range rv.Type().NumMethod() {
		names = append(names, lowerFirst(rv.Type().Method(i).Name))
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func fieldNames(t reflect.Type) []string {
	var names []string

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
			names = append(names, tag)
		} else {
			names = append(names, f.Name)
		}
	}

	return names
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(r)) + s[size:]
}

// completion is the state of the candidate list for the word at the cursor.
type completion struct {
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	candidates []string
}

// complete computes the ranked completions for the word at cursor. Control
// lines complete command names. After a '.', every member of the parent is
// offered; otherwise an empty word offers nothing.
func complete(rt *lang.Runtime, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)
	c := completion{wordStart: start, wordEnd: end}

	if rest, ok := strings.CutPrefix(input, ctrlPrefix); ok {
		if word == "" || start != len(ctrlPrefix) || strings.ContainsFunc(rest[:end-len(ctrlPrefix)], unicode.IsSpace) {
			return c
		}

		c.candidates = ctrlCommands
		c.matches = fuzzy.Find(word, c.candidates)

		return c
	}

	parent := parentPath(input, start)
	c.candidates = childCandidates(rt, parent)

	if word == "" {
		if parent == "" {
			return c
		}

		c.matches = make(fuzzy.Matches, len(c.candidates))
		for i, s := range c.candidates {
			c.matches[i] = fuzzy.Match{Str: s, Index: i}
		}

		return c
	}

	c.matches = fuzzy.Find(word, c.candidates)

	return c
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate is highlighted while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	tabbing bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabbing && i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w > room && i < len(matches)-1 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
