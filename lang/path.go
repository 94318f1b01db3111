package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Root selects the value a [Path] is resolved against.
type Root int

const (
	RootVariables Root = iota // variables
	RootThis                  // this
	RootLast                  // $
)

// Segment is a single property access within a [Path].
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// String returns the segment as it would appear in a path.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}

	return s.Name
}

// Key returns the segment as a mapping key.
func (s Segment) Key() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}

	return s.Name
}

// Path is a parsed location within the context ("this"), the last value
// ("$"), or the variables.
//
// For [RootVariables], the first segment names the variable.
type Path struct {
	Root     Root
	Segments []Segment
	source   string
}

// ParsePath parses a path string.
//
// A path beginning with "this" followed by the end of the string, a '.' or a
// '[' is rooted at the context. A path beginning with '$' is rooted at the
// last value; "$x" is shorthand for "$.x". Any other path is rooted at the
// variables. Segments are separated by '.', and may also be written in
// brackets, either as an index ("[0]") or as a quoted key ("[\"a.b\"]").
// A segment consisting only of decimal digits is an index.
func ParsePath(s string) (Path, error) {
	p := Path{Root: RootVariables, source: s}
	rest := s

	switch {
	case rest == "this" ||
		strings.HasPrefix(rest, "this.") ||
		strings.HasPrefix(rest, "this["):
		p.Root = RootThis
		rest = strings.TrimPrefix(rest, "this")

	case strings.HasPrefix(rest, "$"):
		p.Root = RootLast
		rest = rest[1:]

		if rest != "" && rest[0] != '.' && rest[0] != '[' {
			rest = "." + rest
		}

	default:
		if rest == "" {
			return p, invalidPath(s, "empty path")
		}

		if rest[0] != '[' {
			rest = "." + rest
		}
	}

	for rest != "" {
		var (
			seg Segment
			err error
		)

		switch rest[0] {
		case '.':
			seg, rest, err = parseDotted(s, rest[1:], p.Root == RootVariables && len(p.Segments) == 0)

		case '[':
			seg, rest, err = parseBracket(s, rest[1:])

		default:
			err = invalidPath(s, "expected '.' or '['")
		}

		if err != nil {
			return p, err
		}

		p.Segments = append(p.Segments, seg)
	}

	return p, nil
}

// MustParsePath is like [ParsePath] but panics if s cannot be parsed.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}

	return p
}

func parseDotted(src, rest string, isVariable bool) (Segment, string, error) {
	end := strings.IndexAny(rest, ".[")
	if end < 0 {
		end = len(rest)
	}

	name := rest[:end]
	if name == "" {
		return Segment{}, rest, invalidPath(src, "empty segment")
	}

	// A variable name is never an index, even if it is numeric.
	if !isVariable {
		if i, ok := parseIndex(name); ok {
			return Segment{Index: i, IsIndex: true}, rest[end:], nil
		}
	}

	return Segment{Name: name}, rest[end:], nil
}

func parseBracket(src, rest string) (Segment, string, error) {
	if rest != "" && (rest[0] == '"' || rest[0] == '\'') {
		end := closingQuote(rest)
		if end < 0 || len(rest) <= end+1 || rest[end+1] != ']' {
			return Segment{}, rest, invalidPath(src, "unterminated quoted key")
		}

		key := rest[1:end]
		if rest[0] == '"' {
			unq, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return Segment{}, rest, invalidPath(src, "invalid quoted key")
			}

			key = unq
		}

		return Segment{Name: key}, rest[end+2:], nil
	}

	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return Segment{}, rest, invalidPath(src, "unterminated index")
	}

	i, ok := parseIndex(rest[:end])
	if !ok {
		return Segment{}, rest, invalidPath(src, "index must be a non-negative integer")
	}

	return Segment{Index: i, IsIndex: true}, rest[end+1:], nil
}

// closingQuote returns the position of the quote that ends the quoted key at
// the start of s, or -1. Double-quoted keys may contain escaped quotes.
func closingQuote(s string) int {
	quote := s[0]

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quote == '"' {
				i++
			}
		case quote:
			return i
		}
	}

	return -1
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	i, err := strconv.Atoi(s)

	return i, err == nil
}

func invalidPath(path, reason string) *Error {
	return ErrInvalidPath.With(
		slog.String("path", path),
		slog.String("reason", reason),
	)
}

// String returns the path source. A path without one, such as the result of
// [Path.Parent], is written so that [ParsePath] yields the same segments.
func (p Path) String() string {
	if p.source != "" {
		return p.source
	}

	var b strings.Builder

	switch p.Root {
	case RootThis:
		b.WriteString("this")
	case RootLast:
		b.WriteString("$")
	}

	for i, seg := range p.Segments {
		isVariable := i == 0 && p.Root == RootVariables

		switch {
		case seg.IsIndex:
			b.WriteString(seg.String())

		case needsBrackets(seg.Name, isVariable):
			b.WriteString(quoteKey(seg.Name))

		default:
			if !isVariable {
				b.WriteByte('.')
			}

			b.WriteString(seg.Name)
		}
	}

	return b.String()
}

// needsBrackets reports whether name would not parse back as a single name
// segment when written after a '.'.
func needsBrackets(name string, isVariable bool) bool {
	if name == "" || strings.ContainsAny(name, ".[") {
		return true
	}

	if isVariable {
		return name == "this" || strings.HasPrefix(name, "$")
	}

	_, isIndex := parseIndex(name)

	return isIndex
}

// quoteKey writes name as a bracketed key, preferring double quotes.
func quoteKey(name string) string {
	if strings.ContainsRune(name, '"') && !strings.ContainsRune(name, '\'') {
		return "['" + name + "']"
	}

	return "[" + strconv.Quote(name) + "]"
}

// Len returns the number of segments in p, counting the root selector for
// paths rooted at the context or last value.
func (p Path) Len() int {
	if p.Root == RootVariables {
		return len(p.Segments)
	}

	return len(p.Segments) + 1
}

// Parent returns p without its last segment. The parent of a path with a
// single segment is undefined.
func (p Path) Parent() Path {
	parent := Path{Root: p.Root}
	if len(p.Segments) > 0 {
		parent.Segments = p.Segments[:len(p.Segments)-1]
	}

	return parent
}
