package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/jsonscript/host"
	"github.com/ardnew/jsonscript/lang"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		script string
		run    Run
		want   string
	}{
		{
			name:   "plain",
			script: `[["set", "x", ["call", "expr.eval", ["a + 1", {"a": 1}]]], ["get", "x"]]`,
			want:   "2\n",
		},
		{
			name:   "variable flag",
			script: `["get", "n"]`,
			run:    Run{Output: "json", Inputs: Inputs{Var: map[string]string{"n": "41"}}},
			want:   "41\n",
		},
		{
			name:   "compact json",
			script: `["value", {"b": [1, 2], "a": "s"}]`,
			run:    Run{Output: "json"},
			want:   `{"a":"s","b":[1,2]}` + "\n",
		},
		{
			name:   "indented json",
			script: `["value", [1]]`,
			run:    Run{Output: "json", Indent: 2},
			want:   "[\n  1\n]\n",
		},
		{
			name:   "undefined",
			script: `[]`,
			want:   "undefined\n",
		},
		{
			name:   "promise",
			script: `["call", "async.resolve", ["done"]]`,
			want:   "\"done\"\n",
		},
		{
			name:   "print",
			script: `[["call", "print", ["side", 1]], ["value", true]]`,
			want:   "side 1\ntrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdout(t.Context(), &out)
			ctx = WithStdin(ctx, strings.NewReader(tt.script))

			r := tt.run
			r.Script = "-"

			if r.Output == "" {
				r.Output = "plain"
			}

			if err := r.Run(ctx); err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestRun_This(t *testing.T) {
	var out bytes.Buffer

	r := Run{
		Inputs: Inputs{This: writeFile(t, "this.yaml", "greeting: hi\n")},
		Output: "plain",
		Script: writeFile(t, "script.json", `["get", "this.greeting"]`),
	}

	if err := r.Run(WithStdout(t.Context(), &out)); err != nil {
		t.Fatal(err)
	}

	if out.String() != "\"hi\"\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		run    Run
		want   error
	}{
		{"malformed", `[1]`, Run{Check: true}, ErrMalformed},
		{"malformed at evaluation", `[1]`, Run{}, lang.ErrMalformedExpression},
		{"rejected", `["call", "async.reject", ["bad"]]`, Run{}, host.ErrRejected},
		{"no prelude", `["call", "env", ["HOME"]]`, Run{NoPrelude: true}, lang.ErrInvocation},
		{"decode", `[1, 2`, Run{}, ErrDecodeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdout(t.Context(), &out)
			ctx = WithStdin(ctx, strings.NewReader(tt.script))

			r := tt.run
			r.Script, r.Output = "-", "plain"

			if err := r.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
