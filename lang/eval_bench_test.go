package lang

import (
	"testing"
)

// BenchmarkExecute benchmarks evaluation of scripts that define and invoke
// lambdas, both from decoded data and from a compiled script.
func BenchmarkExecute(b *testing.B) {
	tests := []struct {
		name   string
		script string
		want   any
	}{
		{
			name: "lambda_calls",
			script: `[
  ["set", "inc", ["lambda", ["n"], [["call", "add", [["get", "n"], 1]]]]],
  ["set", "twice", ["lambda", ["f", "x"], [["call", "f", [["call", "f", [["get", "x"]]]]]]]],
  ["call", "twice", [["get", "inc"], ["call", "twice", [["get", "inc"], 1]]]]
]`,
			want: 5,
		},
		{
			name: "closures",
			script: `[
  ["set", "adder", ["lambda", ["a"], [["lambda", ["b"], [["call", "add", [["get", "a"], ["get", "b"]]]]]]]],
  ["set", "add10", ["call", "adder", [10]]],
  ["set", "add20", ["call", "adder", [20]]],
  ["call", "add", [["call", "add10", [1]], ["call", "add20", [2]]]]
]`,
			want: 33,
		},
		{
			name: "paths",
			script: `[
  ["set", "this.user.name", "ada"],
  ["set", "this.user.langs[2]", "go"],
  ["set", "n", ["get", "this.user.langs.length"]],
  ["get", "n"]
]`,
			want: 3,
		},
	}

	vars := func() map[string]any {
		return map[string]any{"add": func(a, b int) int { return a + b }}
	}

	for _, tt := range tests {
		data, err := DecodeString(tt.script)
		if err != nil {
			b.Fatalf("decode error: %v", err)
		}

		for _, input := range []struct {
			name   string
			script any
		}{
			{name: "decoded", script: data},
			{name: "compiled", script: Compile(data)},
		} {
			b.Run(tt.name+"/"+input.name, func(b *testing.B) {
				v, err := Execute(b.Context(), input.script, WithVariables(vars()))
				if err != nil || v != tt.want {
					b.Fatalf("expected %v, got %v (%v)", tt.want, v, err)
				}

				b.ResetTimer()
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					_, err := Execute(b.Context(), input.script,
						WithThis(map[string]any{}), WithVariables(vars()))
					if err != nil {
						b.Fatalf("execute error: %v", err)
					}
				}
			})
		}
	}
}
