package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to colorize records. Styles are bound to a
// renderer for the output, so colors are dropped when the output is not a
// terminal.
type palette struct {
	key, str, num, yes, no, when, null lipgloss.Style
	level                              map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		when: fg("4"),
		null: fg("8"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5").Bold(true),
			slog.LevelDebug:        fg("4").Bold(true),
			slog.LevelInfo:         fg("2").Bold(true),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(level slog.Level) lipgloss.Style {
	for _, l := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if level >= l {
			return p.level[l]
		}
	}

	return p.level[slog.Level(LevelTrace)]
}

// prettyHandler renders records for a human reader, either as a single line
// of key=value pairs (text) or as an indented object (json).
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors palette
	format Format
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}

	return level >= minimum
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// field is a rendered key and value.
type field struct{ key, value string }

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, r.NumAttrs()+len(h.attrs)+4)

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, field{a.Key, h.value(a.Value)})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	lvl := slog.Any(slog.LevelKey, r.Level)
	if h.opts.ReplaceAttr != nil {
		lvl = h.opts.ReplaceAttr(nil, lvl)
	}

	fields = append(fields, field{
		slog.LevelKey,
		h.colors.levelStyle(r.Level).Render(lvl.Value.String()),
	})

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, field{slog.MessageKey, r.Message})

	for _, a := range h.attrs {
		fields = h.append(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.append(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeObject(&buf, fields)
	} else {
		h.writeLine(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// append adds a to fields, flattening groups into dotted keys.
func (h *prettyHandler) append(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.append(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.value(a.Value)})
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.colors.str.Render(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")
	case slog.KindDuration:
		return h.colors.when.Render(v.Duration().String())
	case slog.KindTime:
		return h.colors.when.Render(v.Time().Format(time.RFC3339))
	}

	switch x := v.Any().(type) {
	case nil:
		return h.colors.null.Render("null")
	case error:
		return h.colors.no.Render(x.Error())
	default:
		return h.colors.str.Render(fmt.Sprint(x))
	}
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		if f.key == slog.MessageKey {
			buf.WriteString(f.value)

			continue
		}

		buf.WriteString(h.colors.key.Render(f.key + "="))
		buf.WriteString(f.value)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []field) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.key))
	}

	buf.WriteString("{\n")

	for i, f := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(f.key + ":"))
		buf.WriteString(strings.Repeat(" ", width-len(f.key)+1))
		buf.WriteString(f.value)

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}
