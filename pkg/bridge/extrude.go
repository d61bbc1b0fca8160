package bridge

import (
	"math"

	"github.com/tessera-cad/tessera/pkg/ast"
)

// convertExtrusion resolves a sweep node. Every child must be a 2D
// profile; multiple profiles sweep independently and union, which is
// equivalent to sweeping their union since the sweep transform is
// global.
func (c *Converter) convertExtrusion(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	if len(n.Children) < 1 {
		return nil, nodeErrorf(ErrNoChildren, n, "%s requires at least 1 child profile", n.Kind)
	}
	for i, child := range n.Children {
		if !child.Kind.Is2DProfile() {
			return nil, nodeErrorf(ErrInvalidContext, n, "child %d is %s; extrusions sweep 2D profiles", i, child.Kind)
		}
	}

	children, err := c.convertChildren(n, env)
	if err != nil {
		return nil, err
	}

	var spec NodeSpec
	switch d := n.Data.(type) {
	case *ast.LinearExtrudeData:
		spec, err = c.linearExtrudeSpec(n, d, children, env)
	case *ast.RotateExtrudeData:
		spec, err = c.rotateExtrudeSpec(n, d, children, env)
	default:
		return nil, nodeErrorf(ErrInvalidParameter, n, "missing or mismatched parameters (%T)", n.Data)
	}
	if err != nil {
		return nil, err
	}

	g := c.newNode(n, spec)
	g.Children = children
	return g, nil
}

func (c *Converter) linearExtrudeSpec(n *ast.Node, d *ast.LinearExtrudeData, children []*GeometryNode, env map[string]float64) (*LinearExtrudeSpec, error) {
	h, err := c.resolveValue(d.Height, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "height: %v", err)
	}
	if h <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "height must be positive, got %g", h)
	}

	twist, err := c.resolveOpt(d.Twist, 0, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "twist: %v", err)
	}

	scale := [2]float64{1, 1}
	if d.Scale != nil {
		scale, err = c.resolveVec2(*d.Scale, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "scale: %v", err)
		}
		if scale[0] <= 0 || scale[1] <= 0 {
			return nil, nodeErrorf(ErrInvalidParameter, n, "scale must be positive on both axes, got [%g, %g]", scale[0], scale[1])
		}
	}

	fn, err := c.resolveFn(d.Fn, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "$fn: %v", err)
	}
	return &LinearExtrudeSpec{
		Height:   h,
		Center:   d.Center,
		Twist:    twist * math.Pi / 180,
		Scale:    scale,
		Segments: c.res.FragmentsWith(fn, profilesRadius(children)),
	}, nil
}

func (c *Converter) rotateExtrudeSpec(n *ast.Node, d *ast.RotateExtrudeData, children []*GeometryNode, env map[string]float64) (*RotateExtrudeSpec, error) {
	angle, err := c.resolveOpt(d.Angle, 360, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "angle: %v", err)
	}
	if angle <= 0 || angle > 360 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "angle must be in (0, 360], got %g", angle)
	}

	fn, err := c.resolveFn(d.Fn, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "$fn: %v", err)
	}
	return &RotateExtrudeSpec{
		Angle:    angle * math.Pi / 180,
		Segments: c.res.FragmentsWith(fn, profilesRadius(children)),
	}, nil
}

// profilesRadius returns the largest distance from the Z axis reached
// by any child profile, used to derive sweep fragment counts.
func profilesRadius(children []*GeometryNode) float64 {
	var r float64
	for _, child := range children {
		min, max := profileBounds(child.Spec)
		for _, x := range []float64{min[0], max[0], min[1], max[1]} {
			if a := math.Abs(x); a > r {
				r = a
			}
		}
	}
	return r
}

// profileBounds computes a profile spec's 2D bounding box.
func profileBounds(spec NodeSpec) (min, max [2]float64) {
	switch s := spec.(type) {
	case *CircleSpec:
		return [2]float64{-s.Radius, -s.Radius}, [2]float64{s.Radius, s.Radius}
	case *SquareSpec:
		if s.Center {
			return [2]float64{-s.Size[0] / 2, -s.Size[1] / 2}, [2]float64{s.Size[0] / 2, s.Size[1] / 2}
		}
		return [2]float64{0, 0}, s.Size
	case *PolygonSpec:
		min = s.Points[0]
		max = s.Points[0]
		for _, p := range s.Points[1:] {
			for i := 0; i < 2; i++ {
				if p[i] < min[i] {
					min[i] = p[i]
				}
				if p[i] > max[i] {
					max[i] = p[i]
				}
			}
		}
		return min, max
	}
	return
}
