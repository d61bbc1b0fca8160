package exprs

import (
	"strings"
	"testing"
)

func TestEvalArithmetic(t *testing.T) {
	e := New()
	cases := []struct {
		expr string
		want float64
	}{
		{"(+ 1 2)", 3},
		{"(* 4 2.5)", 10},
		{"(- 10 (/ 8 2))", 6},
		{"42", 42},
		{"3.25", 3.25},
	}
	for _, tc := range cases {
		got, err := e.Eval(tc.expr, nil)
		if err != nil {
			t.Errorf("Eval(%q): %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Eval(%q) = %g, want %g", tc.expr, got, tc.want)
		}
	}
}

func TestEvalWithBindings(t *testing.T) {
	e := New()
	got, err := e.Eval("(* x 10)", map[string]float64{"x": 2})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 20 {
		t.Errorf("got %g, want 20", got)
	}

	got, err = e.Eval("(+ a b)", map[string]float64{"a": 1.5, "b": 2.5})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 4 {
		t.Errorf("got %g, want 4", got)
	}
}

func TestEvalBareBinding(t *testing.T) {
	e := New()
	got, err := e.Eval("i", map[string]float64{"i": 7})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 7 {
		t.Errorf("got %g, want 7", got)
	}

	// A bare reference must resolve to its own binding, not whichever
	// definition happened to be installed last.
	got, err = e.Eval("a", map[string]float64{"a": 2, "b": 6})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 2 {
		t.Errorf("Eval(\"a\") = %g, want 2", got)
	}
}

func TestEvalUndefinedSymbol(t *testing.T) {
	e := New()
	if _, err := e.Eval("missing", nil); err == nil {
		t.Error("undefined symbol should fail")
	}
}

func TestEvalEmptyExpression(t *testing.T) {
	e := New()
	if _, err := e.Eval("", nil); err == nil {
		t.Error("empty expression should fail")
	}
	if _, err := e.Eval("   ", nil); err == nil {
		t.Error("blank expression should fail")
	}
}

func TestEvalNonNumericResult(t *testing.T) {
	e := New()
	if _, err := e.Eval(`"hello"`, nil); err == nil {
		t.Error("string result should fail the numeric path")
	}
	if _, err := e.Eval("true", nil); err == nil {
		t.Error("boolean result should fail the numeric path")
	}
}

func TestEvalBool(t *testing.T) {
	e := New()
	cases := []struct {
		expr string
		env  map[string]float64
		want bool
	}{
		{"(> 3 1)", nil, true},
		{"(< 3 1)", nil, false},
		{"(> x 5)", map[string]float64{"x": 7}, true},
		{"0", nil, false},
		{"1", nil, true},
		{"-2", nil, true},
		{"true", nil, true},
		{"false", nil, false},
	}
	for _, tc := range cases {
		got, err := e.EvalBool(tc.expr, tc.env)
		if err != nil {
			t.Errorf("EvalBool(%q): %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("EvalBool(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestBuildSourceDeterministic(t *testing.T) {
	env := map[string]float64{"b": 2, "a": 1, "c": 3.5}
	src := buildSource("(+ a b)", env)
	want := "(def a 1)\n(def b 2)\n(def c 3.5)\n(+ a b)"
	if src != want {
		t.Errorf("buildSource = %q, want %q", src, want)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(3); got != "3" {
		t.Errorf("formatFloat(3) = %q, want \"3\"", got)
	}
	if got := formatFloat(-2); got != "-2" {
		t.Errorf("formatFloat(-2) = %q, want \"-2\"", got)
	}
	if got := formatFloat(1.25); got != "1.25" {
		t.Errorf("formatFloat(1.25) = %q, want \"1.25\"", got)
	}
}

func TestEvalSyntaxError(t *testing.T) {
	e := New()
	_, err := e.Eval("(+ 1", nil)
	if err == nil {
		t.Fatal("unbalanced expression should fail")
	}
	if !strings.Contains(err.Error(), "(+ 1") {
		t.Errorf("error should quote the expression: %v", err)
	}
}

func TestEvaluatorIsReusable(t *testing.T) {
	e := New()
	for i := 0; i < 3; i++ {
		got, err := e.Eval("(+ 1 1)", nil)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if got != 2 {
			t.Fatalf("run %d: got %g", i, got)
		}
	}
	// Definitions do not leak between evaluations.
	if _, err := e.Eval("x", nil); err == nil {
		t.Error("bindings from earlier calls must not persist")
	}
}
