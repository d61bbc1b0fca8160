package bridge

import (
	"fmt"

	"github.com/tessera-cad/tessera/pkg/ast"
)

// resolveValue resolves a scalar parameter against the bindings in
// effect, evaluating expression values through the converter's
// evaluator.
func (c *Converter) resolveValue(v ast.Value, env map[string]float64) (float64, error) {
	if !v.IsExpr() {
		return v.Num, nil
	}
	f, err := c.eval.Eval(v.Expr, env)
	if err != nil {
		return 0, fmt.Errorf("expression %q: %w", v.Expr, err)
	}
	return f, nil
}

// resolveOpt resolves an optional scalar, substituting def when absent.
func (c *Converter) resolveOpt(v *ast.Value, def float64, env map[string]float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	return c.resolveValue(*v, env)
}

// resolveVec resolves a 3-component vector parameter.
func (c *Converter) resolveVec(v ast.VecValue, env map[string]float64) (ast.Vec3, error) {
	x, err := c.resolveValue(v[0], env)
	if err != nil {
		return ast.Vec3{}, err
	}
	y, err := c.resolveValue(v[1], env)
	if err != nil {
		return ast.Vec3{}, err
	}
	z, err := c.resolveValue(v[2], env)
	if err != nil {
		return ast.Vec3{}, err
	}
	return ast.Vec3{X: x, Y: y, Z: z}, nil
}

// resolveVec2 resolves a 2-component vector parameter.
func (c *Converter) resolveVec2(v ast.Vec2Value, env map[string]float64) ([2]float64, error) {
	x, err := c.resolveValue(v[0], env)
	if err != nil {
		return [2]float64{}, err
	}
	y, err := c.resolveValue(v[1], env)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{x, y}, nil
}

// resolveFn resolves a local segment-count override into the form
// Resolution.FragmentsWith expects.
func (c *Converter) resolveFn(v *ast.Value, env map[string]float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := c.resolveValue(*v, env)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// radiusParam resolves the radius-or-diameter parameter pair shared by
// spheres, circles and cylinder radii. The radius wins when both are
// given; both absent yields def.
func (c *Converter) radiusParam(r, d *ast.Value, def float64, env map[string]float64) (float64, error) {
	if r != nil {
		return c.resolveValue(*r, env)
	}
	if d != nil {
		dv, err := c.resolveValue(*d, env)
		if err != nil {
			return 0, err
		}
		return dv / 2, nil
	}
	return def, nil
}
