package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		var f Format
		if err := f.UnmarshalText([]byte(tt.in)); err != nil {
			t.Fatal(err)
		}

		if f != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got,
		[]string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("unexpected levels: %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("unexpected formats: %v", got)
	}

	if s := Level(1).String(); s != "Level(1)" {
		t.Errorf("unexpected name for unnamed level: %q", s)
	}
}

func TestTimeFormatter(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-05-06T07:08:09Z"},
		{"kitchen", "7:08AM"},
		{"DateTime", "2024-05-06 07:08:09"},
		{"2006", "2024"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := timeFormatter(tt.layout)(when); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	c := makeConfig(nil, WithLevel(LevelError), WithCaller(true), WithPretty(false))

	if c.level != LevelError || !c.caller || c.pretty || c.output == nil {
		t.Errorf("unexpected config: %+v", c)
	}

	if c.format != DefaultFormat {
		t.Errorf("expected default format, got %v", c.format)
	}
}
