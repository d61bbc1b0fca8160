package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
)

// convertPrimitive resolves and validates primitive parameters. All
// dimension checks happen here so mesh generation can assume a valid
// spec; no fallback geometry is ever substituted for a bad parameter.
func (c *Converter) convertPrimitive(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	if len(n.Children) != 0 {
		return nil, nodeErrorf(ErrValidationFailed, n, "primitive has %d children, want none", len(n.Children))
	}

	var spec NodeSpec
	var err error
	switch d := n.Data.(type) {
	case *ast.CubeData:
		spec, err = c.cubeSpec(n, d, env)
	case *ast.SphereData:
		spec, err = c.sphereSpec(n, d, env)
	case *ast.CylinderData:
		spec, err = c.cylinderSpec(n, d, env)
	case *ast.PolyhedronData:
		spec, err = c.polyhedronSpec(n, d)
	case *ast.CircleData:
		spec, err = c.circleSpec(n, d, env)
	case *ast.SquareData:
		spec, err = c.squareSpec(n, d, env)
	case *ast.PolygonData:
		spec, err = c.polygonSpec(n, d)
	default:
		return nil, nodeErrorf(ErrInvalidParameter, n, "missing or mismatched parameters (%T)", n.Data)
	}
	if err != nil {
		return nil, err
	}
	return c.newNode(n, spec), nil
}

func (c *Converter) cubeSpec(n *ast.Node, d *ast.CubeData, env map[string]float64) (*CubeSpec, error) {
	size := ast.Vec3{X: 1, Y: 1, Z: 1}
	if d.Size != nil {
		v, err := c.resolveVec(*d.Size, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "size: %v", err)
		}
		size = v
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "size must be positive on every axis, got %s", size)
	}
	return &CubeSpec{Size: size, Center: d.Center}, nil
}

func (c *Converter) sphereSpec(n *ast.Node, d *ast.SphereData, env map[string]float64) (*SphereSpec, error) {
	r, err := c.radiusParam(d.R, d.D, 1, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radius: %v", err)
	}
	if r <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radius must be positive, got %g", r)
	}
	fn, err := c.resolveFn(d.Fn, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "$fn: %v", err)
	}
	return &SphereSpec{Radius: r, Segments: c.res.FragmentsWith(fn, r)}, nil
}

func (c *Converter) cylinderSpec(n *ast.Node, d *ast.CylinderData, env map[string]float64) (*CylinderSpec, error) {
	h, err := c.resolveOpt(d.H, 1, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "height: %v", err)
	}
	if h <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "height must be positive, got %g", h)
	}

	// r/d set both radii; r1/r2 (or d1/d2) override per end.
	base, err := c.radiusParam(d.R, d.D, 1, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radius: %v", err)
	}
	rBottom, rTop := base, base
	if d.R1 != nil || d.D1 != nil {
		rBottom, err = c.radiusParam(d.R1, d.D1, base, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "r1: %v", err)
		}
	}
	if d.R2 != nil || d.D2 != nil {
		rTop, err = c.radiusParam(d.R2, d.D2, base, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "r2: %v", err)
		}
	}
	if rBottom < 0 || rTop < 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radii must not be negative, got r1=%g r2=%g", rBottom, rTop)
	}
	if rBottom == 0 && rTop == 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "at least one radius must be positive")
	}

	fn, err := c.resolveFn(d.Fn, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "$fn: %v", err)
	}
	rMax := rBottom
	if rTop > rMax {
		rMax = rTop
	}
	return &CylinderSpec{
		Height:   h,
		RBottom:  rBottom,
		RTop:     rTop,
		Center:   d.Center,
		Segments: c.res.FragmentsWith(fn, rMax),
	}, nil
}

func (c *Converter) polyhedronSpec(n *ast.Node, d *ast.PolyhedronData) (*PolyhedronSpec, error) {
	if len(d.Points) < 3 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "need at least 3 points, got %d", len(d.Points))
	}
	if len(d.Faces) == 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "need at least 1 face")
	}
	for i, f := range d.Faces {
		if len(f) < 3 {
			return nil, nodeErrorf(ErrInvalidParameter, n, "face %d has %d vertices, want at least 3", i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(d.Points) {
				return nil, nodeErrorf(ErrInvalidParameter, n, "face %d references point %d, have %d points", i, idx, len(d.Points))
			}
		}
	}
	return &PolyhedronSpec{Points: d.Points, Faces: d.Faces}, nil
}

func (c *Converter) circleSpec(n *ast.Node, d *ast.CircleData, env map[string]float64) (*CircleSpec, error) {
	r, err := c.radiusParam(d.R, d.D, 1, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radius: %v", err)
	}
	if r <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "radius must be positive, got %g", r)
	}
	fn, err := c.resolveFn(d.Fn, env)
	if err != nil {
		return nil, nodeErrorf(ErrInvalidParameter, n, "$fn: %v", err)
	}
	return &CircleSpec{Radius: r, Segments: c.res.FragmentsWith(fn, r)}, nil
}

func (c *Converter) squareSpec(n *ast.Node, d *ast.SquareData, env map[string]float64) (*SquareSpec, error) {
	size := [2]float64{1, 1}
	if d.Size != nil {
		v, err := c.resolveVec2(*d.Size, env)
		if err != nil {
			return nil, nodeErrorf(ErrInvalidParameter, n, "size: %v", err)
		}
		size = v
	}
	if size[0] <= 0 || size[1] <= 0 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "size must be positive on both axes, got [%g, %g]", size[0], size[1])
	}
	return &SquareSpec{Size: size, Center: d.Center}, nil
}

func (c *Converter) polygonSpec(n *ast.Node, d *ast.PolygonData) (*PolygonSpec, error) {
	if len(d.Points) < 3 {
		return nil, nodeErrorf(ErrInvalidParameter, n, "need at least 3 points, got %d", len(d.Points))
	}
	return &PolygonSpec{Points: d.Points}, nil
}
