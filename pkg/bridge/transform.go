package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// convertTransform resolves an affine transform or color node. The
// transform wraps the implicit union of its converted children; an
// empty transform is valid and contributes no geometry.
func (c *Converter) convertTransform(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	spec := &TransformSpec{Op: n.Kind}
	switch d := n.Data.(type) {
	case *ast.TranslateData:
		v, err := c.resolveVec(d.V, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "v: %v", err)
		}
		spec.V = v
	case *ast.RotateData:
		a, err := c.resolveVec(d.A, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "a: %v", err)
		}
		spec.V = a // Euler degrees, converted to radians at the kernel boundary
	case *ast.ScaleData:
		v, err := c.resolveVec(d.V, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "v: %v", err)
		}
		if v.X == 0 || v.Y == 0 || v.Z == 0 {
			return nil, nodeErrorf(ErrInvalidParameter, n, "scale factors must be non-zero, got %s", v)
		}
		spec.V = v
	case *ast.MirrorData:
		v, err := c.resolveVec(d.V, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "v: %v", err)
		}
		if v.IsZero() {
			return nil, nodeErrorf(ErrInvalidParameter, n, "mirror normal must be non-zero")
		}
		spec.V = v
	case *ast.ColorData:
		m, err := colorMaterial(n, d)
		if err != nil {
			return nil, err
		}
		spec.Color = m
	default:
		return nil, nodeErrorf(ErrInvalidParameter, n, "missing or mismatched parameters (%T)", n.Data)
	}

	children, err := c.convertChildren(n, env)
	if err != nil {
		return nil, err
	}
	g := c.newNode(n, spec)
	g.Children = children
	return g, nil
}

func colorMaterial(n *ast.Node, d *ast.ColorData) (*kernel.Material, error) {
	a := 1.0
	if d.A != nil {
		a = *d.A
	}
	for _, comp := range []float64{d.R, d.G, d.B, a} {
		if comp < 0 || comp > 1 {
			return nil, nodeErrorf(ErrInvalidParameter, n, "color components must be in [0,1], got [%g, %g, %g, %g]", d.R, d.G, d.B, a)
		}
	}
	return &kernel.Material{R: d.R, G: d.G, B: d.B, A: a}, nil
}
