package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
)

// MaxLoopIterations bounds loop expansion so a bad step or range cannot
// blow up conversion.
const MaxLoopIterations = 10000

// convertControlFlow expands for/if/let nodes. Control flow exists only
// in the AST: the resulting geometry node holds the already expanded
// instances as its children, and mesh generation treats it as an
// implicit union.
func (c *Converter) convertControlFlow(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	switch d := n.Data.(type) {
	case *ast.ForData:
		return c.expandFor(n, d, env)
	case *ast.IfData:
		return c.expandIf(n, d, env)
	case *ast.LetData:
		return c.expandLet(n, d, env)
	default:
		return nil, nodeErrorf(ErrInvalidParameter, n, "missing or mismatched parameters (%T)", n.Data)
	}
}

func (c *Converter) expandFor(n *ast.Node, d *ast.ForData, env map[string]float64) (*GeometryNode, error) {
	if d.Var == "" {
		return nil, nodeErrorf(ErrInvalidParameter, n, "loop variable name is empty")
	}
	start, err := c.resolveValue(d.Start, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "start: %v", err)
	}
	end, err := c.resolveValue(d.End, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "end: %v", err)
	}
	step, err := c.resolveOpt(d.Step, 1, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "step: %v", err)
	}
	if step == 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "step must be non-zero")
	}

	g := c.newNode(n, nil)
	iterations := 0
	for v := start; (step > 0 && v <= end) || (step < 0 && v >= end); v += step {
		if iterations >= MaxLoopIterations {
			return nil, nodeErrorf(ErrInvalidParameter, n, "loop exceeds %d iterations", MaxLoopIterations)
		}
		iterEnv := extendEnv(env, d.Var, v)
		for i, child := range n.Children {
			cg, err := c.convert(child, iterEnv)
			if err != nil {
				return nil, wrapChild(n, i, err)
			}
			g.Children = append(g.Children, cg)
		}
		iterations++
	}
	g.Spec = &ControlFlowSpec{Kind: ast.KindFor, Iterations: iterations}
	return g, nil
}

func (c *Converter) expandIf(n *ast.Node, d *ast.IfData, env map[string]float64) (*GeometryNode, error) {
	taken, err := c.evalCondition(d.Cond, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "cond: %v", err)
	}

	branch := n.Children
	if !taken {
		branch = d.Else
	}

	g := c.newNode(n, &ControlFlowSpec{Kind: ast.KindIf, Taken: taken})
	for i, child := range branch {
		cg, err := c.convert(child, env)
		if err != nil {
			return nil, wrapChild(n, i, err)
		}
		g.Children = append(g.Children, cg)
	}
	return g, nil
}

func (c *Converter) expandLet(n *ast.Node, d *ast.LetData, env map[string]float64) (*GeometryNode, error) {
	if len(d.Bindings) == 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "let has no bindings")
	}

	// Bindings evaluate in order; later bindings see earlier ones.
	letEnv := env
	for _, b := range d.Bindings {
		if b.Name == "" {
			return nil, nodeErrorf(ErrInvalidParameter, n, "binding name is empty")
		}
		v, err := c.resolveValue(b.Value, letEnv)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "binding %s: %v", b.Name, err)
		}
		letEnv = extendEnv(letEnv, b.Name, v)
	}

	g := c.newNode(n, &ControlFlowSpec{Kind: ast.KindLet})
	for i, child := range n.Children {
		cg, err := c.convert(child, letEnv)
		if err != nil {
			return nil, wrapChild(n, i, err)
		}
		g.Children = append(g.Children, cg)
	}
	return g, nil
}

// evalCondition resolves a condition value. Literals are true when
// non-zero; expressions evaluate through the evaluator's boolean path.
func (c *Converter) evalCondition(v ast.Value, env map[string]float64) (bool, error) {
	if !v.IsExpr() {
		return v.Num != 0, nil
	}
	return c.eval.EvalBool(v.Expr, env)
}

// extendEnv returns env plus one binding, copying so sibling iterations
// never see each other's values.
func extendEnv(env map[string]float64, name string, val float64) map[string]float64 {
	out := make(map[string]float64, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	out[name] = val
	return out
}
