package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Error("discarded")
	l.TraceContext(t.Context(), "discarded")

	if l.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", l.Level())
	}

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on a zero logger should stay a zero logger")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{LevelError, func(l Logger) { l.Warn("msg") }, false},
		{LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{LevelDebug, func(l Logger) { l.Trace("msg") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := strings.Contains(buf.String(), "msg"); got != tt.want {
				t.Errorf("expected logged=%v, got output %q", tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)
	l.With(slog.String("component", "eval")).
		Trace("step", slog.Int("depth", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("expected TRACE, got %v", rec["level"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("expected time to be omitted")
	}

	if rec["component"] != "eval" || rec["depth"] != float64(2) {
		t.Errorf("missing attributes: %v", rec)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false), WithLevel(LevelInfo)).
		Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller source in %q", buf.String())
	}
}

func TestLogger_WrapKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false), WithLevel(LevelError)).
		With(slog.String("run", "42"))
	l.Info("hidden")

	w := l.Wrap(WithLevel(LevelInfo))
	w.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unexpected record: %q", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "run=42") {
		t.Errorf("expected wrapped record with attrs, got %q", out)
	}

	if w.Level() != LevelInfo || l.Level() != LevelError {
		t.Errorf("unexpected levels: %v %v", w.Level(), l.Level())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("msg", "resolved"), slog.Int("code", 7))
}

func TestPrettyHandler(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := Make(&buf, WithFormat(format), WithLevel(LevelDebug))
			l.With(slog.String("scope", "outer")).Debug("hello",
				slog.Any("err", errors.New("boom")),
				slog.Any("detail", valuer{}),
				slog.Bool("ok", true),
			)

			out := buf.String()
			for _, want := range []string{
				"DEBUG", "hello", "scope", "outer", "boom",
				"detail.msg", "resolved", "detail.code", "7", "true",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithPretty(false)))
	Config(WithLevel(LevelDebug), WithFormat(FormatJSON))

	Debug("configured", slog.String("key", "value"))

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected JSON record, got %q", buf.String())
	}

	if Default().Format() != FormatJSON {
		t.Errorf("expected json format, got %v", Default().Format())
	}
}
