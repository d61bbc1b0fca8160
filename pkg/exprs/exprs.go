// Package exprs evaluates scalar CAD expressions in a sandboxed zygomys
// environment. The bridge's control-flow expander and parameter
// resolution use it to turn expression strings into numbers against the
// variable bindings in effect at conversion time.
package exprs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// Evaluator evaluates expressions in fresh sandboxed environments.
// Each call builds its own environment for determinism, so an Evaluator
// is safe for concurrent use.
type Evaluator struct{}

// New creates a new Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval evaluates expr with the given bindings and returns its numeric
// value. Booleans and non-numeric results are errors.
func (e *Evaluator) Eval(expr string, bindings map[string]float64) (float64, error) {
	res, err := e.run(expr, bindings)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(res)
	if !ok {
		return 0, fmt.Errorf("exprs: %q: expected a number, got %s", expr, res.SexpString(nil))
	}
	return f, nil
}

// EvalBool evaluates expr as a condition. Booleans are used directly;
// numbers are true when non-zero, matching the source language.
func (e *Evaluator) EvalBool(expr string, bindings map[string]float64) (bool, error) {
	res, err := e.run(expr, bindings)
	if err != nil {
		return false, err
	}
	if b, ok := res.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	if f, ok := toFloat(res); ok {
		return f != 0, nil
	}
	return false, fmt.Errorf("exprs: %q: expected a boolean, got %s", expr, res.SexpString(nil))
}

// run evaluates expr in a fresh sandbox with bindings installed as
// global definitions. The sandbox prevents filesystem and syscall
// access; the timeout guards against runaway user expressions.
func (e *Evaluator) run(expr string, bindings map[string]float64) (zygo.Sexp, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("exprs: empty expression")
	}
	if !strings.HasPrefix(trimmed, "(") {
		return evalAtom(trimmed, bindings)
	}

	source := buildSource(trimmed, bindings)

	ch := make(chan runResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- runResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		env := zygo.NewZlispSandbox()
		defer env.Stop()

		if err := env.LoadString(source); err != nil {
			ch <- runResult{err: err}
			return
		}
		res, err := env.Run()
		ch <- runResult{sexp: res, err: err}
	}()

	res, err := waitWithTimeout(ch)
	if err != nil {
		return nil, fmt.Errorf("exprs: evaluating %q: %w", expr, err)
	}
	return res, nil
}

// evalAtom resolves a bare atom without the interpreter. zygomys drops
// a trailing bare atom from a loaded program, so sending one through
// LoadString+Run would silently yield the last binding's value instead
// of the atom's own.
func evalAtom(atom string, bindings map[string]float64) (zygo.Sexp, error) {
	if f, err := strconv.ParseFloat(atom, 64); err == nil {
		return &zygo.SexpFloat{Val: f}, nil
	}
	switch atom {
	case "true":
		return &zygo.SexpBool{Val: true}, nil
	case "false":
		return &zygo.SexpBool{Val: false}, nil
	}
	if v, ok := bindings[atom]; ok {
		return &zygo.SexpFloat{Val: v}, nil
	}
	return nil, fmt.Errorf("exprs: %q: not a number, boolean or bound variable", atom)
}

// buildSource prefixes the expression with one (def ...) per binding.
// Bindings are emitted in sorted order so generated source is stable.
func buildSource(expr string, bindings map[string]float64) string {
	if len(bindings) == 0 {
		return expr
	}
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "(def %s %s)\n", name, formatFloat(bindings[name]))
	}
	b.WriteString(expr)
	return b.String()
}

// formatFloat renders a float as zygomys source. Integral values are
// written with a trailing .0 kept off so they parse as ints and mix
// cleanly with integer arithmetic in user expressions.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// toFloat extracts a float64 from a numeric Sexp.
func toFloat(s zygo.Sexp) (float64, bool) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), true
	case *zygo.SexpFloat:
		return v.Val, true
	}
	return 0, false
}
