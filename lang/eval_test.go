package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExecute_EmptyScript(t *testing.T) {
	for _, script := range []any{nil, []any{}, Script{}} {
		result, err := Execute(t.Context(), script)
		if err != nil {
			t.Fatalf("execute %v: %v", script, err)
		}

		if result != nil {
			t.Errorf("expected undefined, got %v", result)
		}
	}
}

func TestExecute_SequenceReturnsLast(t *testing.T) {
	script := []any{
		[]any{"get", "a"},
		[]any{"get", "b"},
	}

	result, err := Execute(t.Context(), script,
		WithVariables(map[string]any{"a": 1, "b": 2}))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 2 {
		t.Errorf("expected 2, got %v", result)
	}
}

func TestExecute_SideEffectsInOrder(t *testing.T) {
	vars := map[string]any{}
	script := []any{
		[]any{"set", "a", 1},
		[]any{"set", "b", []any{"get", "a"}},
		[]any{"set", "a", 3},
		[]any{"get", "b"},
	}

	result, err := Execute(t.Context(), script, WithVariables(vars))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 1 {
		t.Errorf("expected 1, got %v", result)
	}

	if vars["a"] != 3 || vars["b"] != 1 {
		t.Errorf("unexpected variables: %v", vars)
	}
}

func TestGet(t *testing.T) {
	this := map[string]any{"a": 10}

	result, err := Execute(t.Context(), []any{"get", "this"}, WithThis(this))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	m, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", result)
	}

	m["probe"] = true
	if this["probe"] != true {
		t.Error("get this did not return the context by identity")
	}

	tests := []struct {
		name   string
		script any
		this   any
		vars   map[string]any
		want   any
	}{
		{
			name:   "variable",
			script: []any{"get", "a"},
			vars:   map[string]any{"a": 5},
			want:   5,
		},
		{
			name:   "context property",
			script: []any{"get", "this.a"},
			this:   map[string]any{"a": 10},
			vars:   map[string]any{"a": 5},
			want:   10,
		},
		{
			name:   "double indirection",
			script: []any{"get", []any{"get", "this.a"}},
			this:   map[string]any{"a": "b"},
			vars:   map[string]any{"b": 5},
			want:   5,
		},
		{
			name:   "missing variable",
			script: []any{"get", "missing"},
			want:   nil,
		},
		{
			name:   "missing nested",
			script: []any{"get", "a.b.c"},
			vars:   map[string]any{"a": map[string]any{}},
			want:   nil,
		},
		{
			name:   "index",
			script: []any{"get", "a[1]"},
			vars:   map[string]any{"a": []any{"x", "y"}},
			want:   "y",
		},
		{
			name:   "dotted index",
			script: []any{"get", "a.1.b"},
			vars:   map[string]any{"a": []any{nil, map[string]any{"b": true}}},
			want:   true,
		},
		{
			name:   "quoted key",
			script: []any{"get", `a["x.y"]`},
			vars:   map[string]any{"a": map[string]any{"x.y": "dot"}},
			want:   "dot",
		},
		{
			name:   "sequence length",
			script: []any{"get", "a.length"},
			vars:   map[string]any{"a": []any{1, 2, 3}},
			want:   3,
		},
		{
			name: "last value",
			script: []any{
				[]any{"value", map[string]any{"k": "v"}},
				[]any{"get", "$.k"},
			},
			want: "v",
		},
		{
			name: "last value shorthand",
			script: []any{
				[]any{"value", map[string]any{"k": "v"}},
				[]any{"get", "$k"},
			},
			want: "v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Execute(t.Context(), tt.script,
				WithThis(tt.this), WithVariables(tt.vars))
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}

			if result != tt.want {
				t.Errorf("expected %v, got %v", tt.want, result)
			}
		})
	}
}

func TestGet_TypeMismatch(t *testing.T) {
	_, err := Execute(t.Context(), []any{"get", []any{"value", 5}})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if got, ok := e.Attr("got"); !ok || got.String() != "number" {
		t.Errorf("expected got=number, got %v", got)
	}
}

func TestSet(t *testing.T) {
	this := map[string]any{}

	result, err := Execute(t.Context(), []any{"set", "this.newProperty", 5},
		WithThis(this))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 5 {
		t.Errorf("expected 5, got %v", result)
	}

	if this["newProperty"] != 5 {
		t.Errorf("expected context.newProperty=5, got %v", this["newProperty"])
	}
}

func TestSet_Nested(t *testing.T) {
	nested := map[string]any{"sibling": "kept"}
	this := map[string]any{"nestedContext": nested}

	_, err := Execute(t.Context(),
		[]any{"set", "this.nestedContext.newProperty", 5}, WithThis(this))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if nested["newProperty"] != 5 {
		t.Errorf("expected nested.newProperty=5, got %v", nested["newProperty"])
	}

	if nested["sibling"] != "kept" {
		t.Errorf("sibling property disturbed: %v", nested)
	}
}

func TestSet_EmptyScriptAssignsUndefined(t *testing.T) {
	vars := map[string]any{}

	result, err := Execute(t.Context(), []any{"set", "newProperty", []any{}},
		WithVariables(vars))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != nil {
		t.Errorf("expected undefined, got %v", result)
	}

	v, ok := vars["newProperty"]
	if !ok {
		t.Fatal("expected newProperty to be assigned")
	}

	if v != nil {
		t.Errorf("expected undefined, got %#v", v)
	}
}

func TestSet_CreatesContainers(t *testing.T) {
	vars := map[string]any{}
	script := []any{
		[]any{"set", "a.b[2]", "x"},
		[]any{"set", "a.c.d", true},
	}

	if _, err := Execute(t.Context(), script, WithVariables(vars)); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	a, ok := vars["a"].(map[string]any)
	if !ok {
		t.Fatalf("expected a to be a mapping, got %T", vars["a"])
	}

	b, ok := a["b"].([]any)
	if !ok || len(b) != 3 {
		t.Fatalf("expected a.b to be a sequence of 3, got %#v", a["b"])
	}

	if b[0] != nil || b[1] != nil || b[2] != "x" {
		t.Errorf("unexpected a.b: %#v", b)
	}

	c, ok := a["c"].(map[string]any)
	if !ok || c["d"] != true {
		t.Errorf("unexpected a.c: %#v", a["c"])
	}
}

func TestSet_GrowsSequenceInPlace(t *testing.T) {
	vars := map[string]any{"list": []any{1}}

	if _, err := Execute(t.Context(), []any{"set", "list[3]", 4},
		WithVariables(vars)); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	list, ok := vars["list"].([]any)
	if !ok || len(list) != 4 || list[3] != 4 {
		t.Errorf("expected grown list, got %#v", vars["list"])
	}
}

func TestSet_SequenceGrowthLimit(t *testing.T) {
	tests := []struct {
		name  string
		vars  map[string]any
		path  string
		want  error
		check func(t *testing.T, vars map[string]any)
	}{
		{
			name: "within limit",
			vars: map[string]any{},
			path: fmt.Sprintf("list[%d]", MaxIndexGrowth-1),
			check: func(t *testing.T, vars map[string]any) {
				t.Helper()

				list, ok := vars["list"].([]any)
				if !ok || len(list) != MaxIndexGrowth || list[MaxIndexGrowth-1] != true {
					t.Errorf("expected list of %d elements", MaxIndexGrowth)
				}
			},
		},
		{
			name: "past limit",
			vars: map[string]any{},
			path: fmt.Sprintf("list[%d]", MaxIndexGrowth),
			want: ErrInvalidPath,
		},
		{
			name: "huge index",
			vars: map[string]any{"list": []any{1, 2}},
			path: "list[4000000000]",
			want: ErrInvalidPath,
		},
		{
			name: "nested",
			vars: map[string]any{},
			path: "a.b[4000000000].c",
			want: ErrInvalidPath,
		},
		{
			name: "typed slice",
			vars: map[string]any{"nums": []int{1}},
			path: "nums[4000000000]",
			want: ErrInvalidPath,
		},
		{
			name: "typed slice within limit",
			vars: map[string]any{"nums": []int{1}},
			path: "nums[3]",
			check: func(t *testing.T, vars map[string]any) {
				t.Helper()

				nums, ok := vars["nums"].([]int)
				if !ok || len(nums) != 4 || nums[3] != 1 {
					t.Errorf("expected grown typed slice, got %#v", vars["nums"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := any(true)
			if strings.HasPrefix(tt.path, "nums") {
				value = 1
			}

			_, err := Execute(t.Context(), []any{"set", tt.path, value},
				WithVariables(tt.vars))

			if tt.want == nil {
				if err != nil {
					t.Fatalf("execute error: %v", err)
				}

				tt.check(t, tt.vars)

				return
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if _, ok := e.Attr("reason"); !ok {
				t.Error("expected a reason attribute")
			}
		})
	}
}

func TestSet_ReplaceThis(t *testing.T) {
	rt := New()

	if _, err := rt.Execute(t.Context(), []any{"set", "this", "replaced"}); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if rt.This() != "replaced" {
		t.Errorf("expected replaced context, got %v", rt.This())
	}
}

func TestSet_LastIsReadOnly(t *testing.T) {
	for _, path := range []string{"$", "$.a", "$a"} {
		_, err := Execute(t.Context(), []any{"set", path, 1})
		if !errors.Is(err, ErrReadOnlyPath) {
			t.Errorf("set %q: expected ErrReadOnlyPath, got %v", path, err)
		}
	}
}

func TestValue_Identity(t *testing.T) {
	arr := []any{"get", "a"}

	result, err := Execute(t.Context(), []any{"value", arr})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	got, ok := result.([]any)
	if !ok || len(got) != len(arr) || &got[0] != &arr[0] {
		t.Errorf("value did not return its payload by identity: %#v", result)
	}

	empty := []any{}

	vars := map[string]any{}
	if _, err := Execute(t.Context(),
		[]any{"set", "list", []any{"value", empty}}, WithVariables(vars)); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if list, ok := vars["list"].([]any); !ok || list == nil {
		t.Errorf("expected empty sequence, got %#v", vars["list"])
	}
}

func TestCall_Receiver(t *testing.T) {
	receiverOf := func(ctx context.Context, this any, _ ...any) (any, error) {
		return this, nil
	}

	nested := map[string]any{"nestedMethod": Func(receiverOf)}
	this := map[string]any{
		"contextMethod": Func(receiverOf),
		"nestedContext": nested,
	}

	readVariableOne := Func(func(_ context.Context, this any, _ ...any) (any, error) {
		v, _ := Lookup(this, MustParsePath("variableOne").Segments...)

		return v, nil
	})

	vars := map[string]any{
		"functionOne": readVariableOne,
		"variableOne": "from variables",
	}

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, result any)
	}{
		{
			name: "context method",
			path: "this.contextMethod",
			check: func(t *testing.T, result any) {
				if m, ok := result.(map[string]any); !ok || m["nestedContext"] == nil {
					t.Errorf("expected context receiver, got %v", result)
				}
			},
		},
		{
			name: "nested method",
			path: "this.nestedContext.nestedMethod",
			check: func(t *testing.T, result any) {
				if m, ok := result.(map[string]any); !ok || m["nestedMethod"] == nil {
					t.Errorf("expected nested receiver, got %v", result)
				}
			},
		},
		{
			name: "single segment",
			path: "functionOne",
			check: func(t *testing.T, result any) {
				if result != nil {
					t.Errorf("expected undefined, got %v", result)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Execute(t.Context(), []any{"call", tt.path},
				WithThis(this), WithVariables(vars))
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}

			tt.check(t, result)
		})
	}
}

func TestCall_Arguments(t *testing.T) {
	var order []string

	vars := map[string]any{
		"record": func(s string) string {
			order = append(order, s)

			return s
		},
		"join": func(a, b string) string { return a + b },
	}

	script := []any{"call", "join", []any{
		[]any{"call", "record", []any{"first"}},
		[]any{"call", "record", []any{"second"}},
	}}

	result, err := Execute(t.Context(), script, WithVariables(vars))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != "firstsecond" {
		t.Errorf("expected firstsecond, got %v", result)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("arguments evaluated out of order: %v", order)
	}
}

func TestCall_ComputedTarget(t *testing.T) {
	vars := map[string]any{
		"name":   "double",
		"double": func(n int) int { return n * 2 },
	}

	tests := []struct {
		name   string
		script any
	}{
		{
			name:   "path string",
			script: []any{"call", []any{"get", "name"}, []any{21}},
		},
		{
			name:   "function value",
			script: []any{"call", []any{"get", "double"}, []any{21}},
		},
		{
			name: "lambda",
			script: []any{"call",
				[]any{"lambda", []any{"n"}, []any{"call", "double", []any{[]any{"get", "n"}}}},
				[]any{21},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Execute(t.Context(), tt.script, WithVariables(vars))
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}

			if result != 42 {
				t.Errorf("expected 42, got %v", result)
			}
		})
	}
}

func TestCall_NotInvocable(t *testing.T) {
	tests := []struct {
		name   string
		script any
	}{
		{name: "missing", script: []any{"call", "missing"}},
		{name: "number", script: []any{"call", "n"}},
		{name: "computed", script: []any{"call", []any{"value", 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(t.Context(), tt.script,
				WithVariables(map[string]any{"n": 1}))
			if !errors.Is(err, ErrInvocation) {
				t.Errorf("expected ErrInvocation, got %v", err)
			}
		})
	}
}

func TestCall_HostErrorPropagates(t *testing.T) {
	errHost := errors.New("host failure")
	vars := map[string]any{
		"fail": func() (int, error) { return 0, errHost },
	}

	_, err := Execute(t.Context(), []any{"call", "fail"}, WithVariables(vars))
	if !errors.Is(err, errHost) {
		t.Errorf("expected host error, got %v", err)
	}

	if errors.Is(err, ErrInvocation) {
		t.Error("host error should not be wrapped")
	}
}

func TestCall_HostPanic(t *testing.T) {
	vars := map[string]any{
		"boom": func() { panic("boom") },
	}

	_, err := Execute(t.Context(), []any{"call", "boom"}, WithVariables(vars))
	if !errors.Is(err, ErrInvocation) {
		t.Errorf("expected ErrInvocation, got %v", err)
	}
}

type counter struct {
	Count int `json:"count"`
}

func (c *counter) Add(n int) int {
	c.Count += n

	return c.Count
}

func TestCall_GoMethod(t *testing.T) {
	c := &counter{}
	script := []any{
		[]any{"call", "this.counter.add", []any{2}},
		[]any{"call", "this.counter.Add", []any{3}},
		[]any{"get", "this.counter.count"},
	}

	result, err := Execute(t.Context(), script,
		WithThis(map[string]any{"counter": c}))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 5 || c.Count != 5 {
		t.Errorf("expected 5, got %v (count %d)", result, c.Count)
	}
}

func TestLambda(t *testing.T) {
	result, err := Execute(t.Context(), []any{"lambda", []any{}, []any{}})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if !IsCallable(result) {
		t.Fatalf("expected invocable, got %T", result)
	}

	result, err = Execute(t.Context(),
		[]any{"lambda", []any{"one"}, []any{[]any{"value", 5}}})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	fn, ok := result.(*Lambda)
	if !ok {
		t.Fatalf("expected *Lambda, got %T", result)
	}

	if fn.Arity() != 1 {
		t.Errorf("expected arity 1, got %d", fn.Arity())
	}

	for _, args := range [][]any{nil, {1}, {1, 2, 3}} {
		v, err := fn.Invoke(t.Context(), nil, args...)
		if err != nil {
			t.Fatalf("invoke error: %v", err)
		}

		if v != 5 {
			t.Errorf("invoke %v: expected 5, got %v", args, v)
		}
	}
}

func TestLambda_Closure(t *testing.T) {
	vars := map[string]any{}
	script := []any{
		[]any{"set", "outer", "visible"},
		[]any{"set", "fn", []any{"lambda", []any{"p"}, []any{
			[]any{"set", "seen", []any{"get", "p"}},
			[]any{"value", []any{[]any{"get", "outer"}}},
			[]any{"get", "outer"},
		}}},
		[]any{"call", "fn", []any{"first"}},
	}

	result, err := Execute(t.Context(), script, WithVariables(vars))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != "visible" {
		t.Errorf("expected visible, got %v", result)
	}

	if _, ok := vars["p"]; ok {
		t.Error("parameter leaked into the enclosing scope")
	}

	if _, ok := vars["seen"]; ok {
		t.Error("lambda write leaked into the enclosing scope")
	}
}

func TestLambda_NoLeakBetweenInvocations(t *testing.T) {
	script := []any{
		[]any{"set", "fn", []any{"lambda", []any{"a", "b"}, []any{
			[]any{"get", "b"},
		}}},
		[]any{"call", "fn", []any{1, 2}},
		[]any{"call", "fn", []any{3}},
	}

	result, err := Execute(t.Context(), script)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != nil {
		t.Errorf("expected undefined for missing parameter, got %v", result)
	}
}

func TestLambda_SharedOuterScope(t *testing.T) {
	vars := map[string]any{"state": map[string]any{"n": 0}}
	script := []any{
		[]any{"set", "inc", []any{"lambda", []any{"v"}, []any{
			[]any{"set", "state.n", []any{"get", "v"}},
		}}},
		[]any{"set", "read", []any{"lambda", []any{}, []any{
			[]any{"get", "state.n"},
		}}},
		[]any{"call", "inc", []any{7}},
		[]any{"call", "read"},
	}

	result, err := Execute(t.Context(), script, WithVariables(vars))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 7 {
		t.Errorf("expected 7, got %v", result)
	}
}

func TestLambda_CapturesThisAndLast(t *testing.T) {
	script := []any{
		[]any{"value", "captured"},
		[]any{"set", "fn", []any{"lambda", []any{}, []any{
			[]any{"get", "$"},
		}}},
		[]any{"value", "later"},
		[]any{"call", "fn"},
	}

	result, err := Execute(t.Context(), script)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != "captured" {
		t.Errorf("expected captured last value, got %v", result)
	}

	fn := Func(func(ctx context.Context, _ any, args ...any) (any, error) {
		return Invoke(ctx, args[0], map[string]any{"other": true})
	})

	result, err = Execute(t.Context(), []any{"call", "apply", []any{
		[]any{"lambda", []any{}, []any{"get", "this.mine"}},
	}},
		WithThis(map[string]any{"mine": "yes"}),
		WithVariables(map[string]any{"apply": fn}))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != "yes" {
		t.Errorf("expected captured context, got %v", result)
	}
}

func TestUnknownCommand(t *testing.T) {
	tests := []struct {
		tag        string
		suggestion string
	}{
		{tag: "gt", suggestion: "get"},
		{tag: "lmbd", suggestion: "lambda"},
		{tag: "calll", suggestion: "call"},
		{tag: "values", suggestion: "value"},
		{tag: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			_, err := Execute(t.Context(), []any{tt.tag, "a"})
			if !errors.Is(err, ErrUnknownCommand) {
				t.Fatalf("expected ErrUnknownCommand, got %v", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			s, ok := e.Attr("suggestion")
			if tt.suggestion == "" {
				if ok {
					t.Errorf("expected no suggestion, got %v", s)
				}

				return
			}

			if !ok || s.String() != tt.suggestion {
				t.Errorf("expected suggestion %s, got %v", tt.suggestion, s)
			}
		})
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name   string
		script any
		want   error
	}{
		{name: "scalar script", script: 5, want: ErrMalformedExpression},
		{name: "scalar expression", script: []any{5}, want: ErrMalformedExpression},
		{name: "empty expression", script: []any{[]any{}}, want: ErrMalformedExpression},
		{name: "set without path", script: []any{"set", 5, 1}, want: ErrMalformedExpression},
		{name: "bad params", script: []any{"lambda", "x", []any{}}, want: ErrMalformedExpression},
		{name: "bad args", script: []any{"call", "f", 1}, want: ErrMalformedExpression},
		{name: "bad path", script: []any{"get", "a..b"}, want: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Compile(tt.script).Check(); !errors.Is(err, tt.want) {
				t.Errorf("check: expected %v, got %v", tt.want, err)
			}

			if _, err := Execute(t.Context(), tt.script); !errors.Is(err, tt.want) {
				t.Errorf("execute: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMalformed_OnlyWhenEvaluated(t *testing.T) {
	vars := map[string]any{}
	script := []any{
		[]any{"set", "before", true},
		[]any{"bogus"},
		[]any{"set", "after", true},
	}

	if _, err := Execute(t.Context(), script, WithVariables(vars)); err == nil {
		t.Fatal("expected error")
	}

	if vars["before"] != true {
		t.Error("expressions before the malformed one were not evaluated")
	}

	if _, ok := vars["after"]; ok {
		t.Error("expressions after the malformed one were evaluated")
	}
}

func TestMaxDepth(t *testing.T) {
	script := []any{
		[]any{"set", "loop", []any{"lambda", []any{}, []any{
			[]any{"call", "loop"},
		}}},
		[]any{"call", "loop"},
	}

	_, err := Execute(t.Context(), script, WithMaxDepth(32))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Execute(ctx, []any{"value", 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRuntime_Persistent(t *testing.T) {
	rt := New()

	if _, err := rt.Execute(t.Context(), []any{"set", "x", 1}); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	result, err := rt.Execute(t.Context(), []any{"get", "$"})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if result != 1 {
		t.Errorf("expected last value 1, got %v", result)
	}

	if rt.Variables()["x"] != 1 {
		t.Errorf("expected x=1, got %v", rt.Variables()["x"])
	}

	if rt.Last() != 1 {
		t.Errorf("expected Last()=1, got %v", rt.Last())
	}
}
