package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestLoadYAML(t *testing.T) {
	res, err := loadYAML(strings.NewReader(`
log:
  level: debug
  pretty: false
max_depth: 10
ratio: 0.5
`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"max-depth", "10"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
		if err != nil {
			t.Fatalf("%s: %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("%s: expected %#v, got %#v", tt.flag, tt.want, got)
		}
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	res, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "x"}}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestLoadYAML_Invalid(t *testing.T) {
	if _, err := loadYAML(strings.NewReader("log: [unclosed")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestLoadYAML_Parse(t *testing.T) {
	var c struct {
		Log struct {
			Level string
		} `embed:"" prefix:"log-"`
		MaxDepth int
	}

	res, err := loadYAML(strings.NewReader("log:\n  level: trace\nmax_depth: 12\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&c, kong.Resolvers(res), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if c.Log.Level != "trace" || c.MaxDepth != 12 {
		t.Errorf("unexpected values: %+v", c)
	}
}

func TestLoadYAML_NotMapping(t *testing.T) {
	if _, err := loadYAML(strings.NewReader("- a\n- b\n")); err == nil {
		t.Error("expected an error for a sequence document")
	}
}
