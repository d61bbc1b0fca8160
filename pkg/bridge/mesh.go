package bridge

import (
	"fmt"
	"math"
	"time"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// generateMesh builds the subtree's solid through the kernel and
// tessellates it. The entry node gets special handling: standalone 2D
// profiles become flat meshes, and modifier roots render their subtree
// (scene assembly decides styling), except disable which is empty.
func (c *Converter) generateMesh(g *GeometryNode) (*kernel.Mesh, error) {
	if g.Kind.Is2DProfile() {
		mesh, err := c.profileMesh(g)
		if err != nil {
			return nil, err
		}
		annotateMesh(g, mesh)
		return mesh, nil
	}

	var (
		solid kernel.Solid
		segs  int
		err   error
	)
	if mod, ok := g.Modifier(); ok {
		if mod == ast.ModDisable {
			mesh := kernel.NewMesh(g.Name)
			annotateMesh(g, mesh)
			return mesh, nil
		}
		solid, segs, err = c.buildUnion(g, g.Children)
	} else {
		solid, segs, err = c.buildSolid(g)
	}
	if err != nil {
		return nil, err
	}
	if solid == nil {
		// Fully disabled or empty subtree.
		mesh := kernel.NewMesh(g.Name)
		annotateMesh(g, mesh)
		return mesh, nil
	}

	mesh, err := c.kern.ToMesh(solid, segs)
	if err != nil {
		e := geomErrorf(ErrMeshGenerationFailed, g, "tessellation failed")
		e.Err = err
		return nil, e
	}
	mesh.Name = g.Name
	c.decorateMesh(g, mesh)
	annotateMesh(g, mesh)
	return mesh, nil
}

// annotateMesh fills the mesh metadata bag with the producing node's
// category, kind, child count, resolved parameters, generation time and
// source location. CSG nodes additionally record the operation.
func annotateMesh(g *GeometryNode, mesh *kernel.Mesh) {
	mesh.SetMetadata("category", g.Category.String())
	mesh.SetMetadata("type", g.Kind.String())
	mesh.SetMetadata("childCount", len(g.Children))
	mesh.SetMetadata("params", fmt.Sprintf("%+v", g.Spec))
	mesh.SetMetadata("generatedAt", time.Now().UTC().Format(time.RFC3339))
	if !g.Loc.IsZero() {
		mesh.SetMetadata("loc", g.Loc.String())
	}
	if s, ok := g.Spec.(*CSGSpec); ok {
		mesh.SetMetadata("operation", s.Op.String())
	}
}

// decorateMesh records the root node's own transform or material on the
// mesh. Geometry is already baked into the vertices; these fields are
// informational for viewers and tests.
func (c *Converter) decorateMesh(g *GeometryNode, mesh *kernel.Mesh) {
	s, ok := g.Spec.(*TransformSpec)
	if !ok {
		return
	}
	switch s.Op {
	case ast.KindTranslate:
		mesh.Position = kernel.Vec3{X: s.V.X, Y: s.V.Y, Z: s.V.Z}
	case ast.KindRotate:
		mesh.Rotation = kernel.Vec3{
			X: s.V.X * math.Pi / 180,
			Y: s.V.Y * math.Pi / 180,
			Z: s.V.Z * math.Pi / 180,
		}
	case ast.KindScale:
		mesh.Scaling = kernel.Vec3{X: s.V.X, Y: s.V.Y, Z: s.V.Z}
	case ast.KindColor:
		if s.Color != nil {
			m := *s.Color
			mesh.Material = &m
		}
	}
}

// buildSolid recursively builds the kernel solid for a subtree. The
// returned segment count is the finest tessellation hint found in the
// subtree. A nil solid with nil error means the subtree contributes no
// geometry (disabled or background modifier, empty expansion).
func (c *Converter) buildSolid(g *GeometryNode) (kernel.Solid, int, error) {
	switch s := g.Spec.(type) {
	case *CubeSpec:
		solid := c.kern.Box(s.Size.X, s.Size.Y, s.Size.Z)
		if !s.Center {
			solid = c.kern.Translate(solid, s.Size.X/2, s.Size.Y/2, s.Size.Z/2)
		}
		return solid, 0, nil

	case *SphereSpec:
		return c.kern.Sphere(s.Radius), s.Segments, nil

	case *CylinderSpec:
		solid := c.kern.Cylinder(s.Height, s.RBottom, s.RTop)
		if !s.Center {
			solid = c.kern.Translate(solid, 0, 0, s.Height/2)
		}
		return solid, s.Segments, nil

	case *PolyhedronSpec:
		solid, err := c.kern.Polyhedron(s.Points, s.Faces)
		if err != nil {
			e := geomErrorf(ErrMeshGenerationFailed, g, "polyhedron construction failed")
			e.Err = err
			return nil, 0, e
		}
		return solid, 0, nil

	case *CircleSpec, *SquareSpec, *PolygonSpec:
		return nil, 0, geomErrorf(ErrInvalidContext, g, "2D profile cannot appear in a solid context")

	case *TransformSpec:
		return c.buildTransform(g, s)

	case *CSGSpec:
		return c.buildBoolean(g, s)

	case *LinearExtrudeSpec:
		return c.buildLinearExtrude(g, s)

	case *RotateExtrudeSpec:
		return c.buildRotateExtrude(g, s)

	case *ControlFlowSpec:
		return c.buildUnion(g, g.Children)

	case *ModifierSpec:
		switch s.Mod {
		case ast.ModDisable, ast.ModBackground:
			// Background subtrees render separately and never take part
			// in solid geometry.
			return nil, 0, nil
		default:
			return c.buildUnion(g, g.Children)
		}

	default:
		return nil, 0, geomErrorf(ErrUnknownNodeType, g, "no solid builder for spec %T", g.Spec)
	}
}

func (c *Converter) buildTransform(g *GeometryNode, s *TransformSpec) (kernel.Solid, int, error) {
	solid, segs, err := c.buildUnion(g, g.Children)
	if err != nil || solid == nil {
		return nil, segs, err
	}

	switch s.Op {
	case ast.KindTranslate:
		solid = c.kern.Translate(solid, s.V.X, s.V.Y, s.V.Z)
	case ast.KindRotate:
		solid = c.kern.Rotate(solid,
			s.V.X*math.Pi/180,
			s.V.Y*math.Pi/180,
			s.V.Z*math.Pi/180)
	case ast.KindScale:
		solid = c.kern.Scale(solid, s.V.X, s.V.Y, s.V.Z)
	case ast.KindMirror:
		solid, err = c.kern.Mirror(solid, s.V.X, s.V.Y, s.V.Z)
		if err != nil {
			e := geomErrorf(ErrMeshGenerationFailed, g, "mirror failed")
			e.Err = err
			return nil, 0, e
		}
	case ast.KindColor:
		// Material only; geometry passes through.
	default:
		return nil, 0, geomErrorf(ErrUnknownNodeType, g, "no transform for kind %s", s.Op)
	}
	return solid, segs, nil
}

// buildBoolean folds the boolean operation left over the ordered child
// solids. Invisible children are skipped; an invisible first child
// empties a difference or intersection entirely.
func (c *Converter) buildBoolean(g *GeometryNode, spec *CSGSpec) (kernel.Solid, int, error) {
	var acc kernel.Solid
	segs := 0
	for i, child := range g.Children {
		s, childSegs, err := c.buildSolid(child)
		if err != nil {
			return nil, 0, err
		}
		if childSegs > segs {
			segs = childSegs
		}
		if s == nil {
			if i == 0 && spec.Op != kernel.OpUnion {
				return nil, segs, nil
			}
			continue
		}
		if acc == nil {
			if i == 0 || spec.Op == kernel.OpUnion {
				acc = s
			}
			continue
		}
		acc, err = c.kern.Boolean(acc, s, spec.Op)
		if err != nil {
			e := geomErrorf(ErrBooleanOperationFailed, g, "%s step %d failed", spec.Op, i)
			e.Err = err
			return nil, 0, e
		}
	}
	return acc, segs, nil
}

// buildLinearExtrude sweeps each child profile along Z and unions the
// results. Kernel sweeps are centered about z=0; the non-centered
// default lifts the solid so it starts at z=0.
func (c *Converter) buildLinearExtrude(g *GeometryNode, spec *LinearExtrudeSpec) (kernel.Solid, int, error) {
	var acc kernel.Solid
	segs := spec.Segments
	for i, child := range g.Children {
		p, childSegs, err := c.buildProfile(child)
		if err != nil {
			return nil, 0, err
		}
		if childSegs > segs {
			segs = childSegs
		}
		s := c.kern.Extrude(p, spec.Height, spec.Twist, spec.Scale[0], spec.Scale[1])
		if acc == nil {
			acc = s
			continue
		}
		acc, err = c.kern.Boolean(acc, s, kernel.OpUnion)
		if err != nil {
			e := geomErrorf(ErrBooleanOperationFailed, g, "profile union step %d failed", i)
			e.Err = err
			return nil, 0, e
		}
	}
	if acc != nil && !spec.Center {
		acc = c.kern.Translate(acc, 0, 0, spec.Height/2)
	}
	return acc, segs, nil
}

// buildRotateExtrude revolves each child profile around the Z axis and
// unions the results.
func (c *Converter) buildRotateExtrude(g *GeometryNode, spec *RotateExtrudeSpec) (kernel.Solid, int, error) {
	var acc kernel.Solid
	segs := spec.Segments
	for i, child := range g.Children {
		p, childSegs, err := c.buildProfile(child)
		if err != nil {
			return nil, 0, err
		}
		if childSegs > segs {
			segs = childSegs
		}
		s, err := c.kern.Revolve(p, spec.Angle)
		if err != nil {
			e := geomErrorf(ErrMeshGenerationFailed, g, "revolve failed")
			e.Err = err
			return nil, 0, e
		}
		if acc == nil {
			acc = s
			continue
		}
		acc, err = c.kern.Boolean(acc, s, kernel.OpUnion)
		if err != nil {
			e := geomErrorf(ErrBooleanOperationFailed, g, "profile union step %d failed", i)
			e.Err = err
			return nil, 0, e
		}
	}
	return acc, segs, nil
}

// buildProfile builds the kernel profile for a 2D node. Non-centered
// squares become polygons so the corner-at-origin placement is exact.
func (c *Converter) buildProfile(g *GeometryNode) (kernel.Profile, int, error) {
	switch s := g.Spec.(type) {
	case *CircleSpec:
		return c.kern.Circle(s.Radius), s.Segments, nil
	case *SquareSpec:
		if s.Center {
			return c.kern.Rectangle(s.Size[0], s.Size[1]), 0, nil
		}
		w, h := s.Size[0], s.Size[1]
		p, err := c.kern.Polygon([][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}})
		if err != nil {
			e := geomErrorf(ErrMeshGenerationFailed, g, "square profile failed")
			e.Err = err
			return nil, 0, e
		}
		return p, 0, nil
	case *PolygonSpec:
		p, err := c.kern.Polygon(s.Points)
		if err != nil {
			e := geomErrorf(ErrMeshGenerationFailed, g, "polygon profile failed")
			e.Err = err
			return nil, 0, e
		}
		return p, 0, nil
	default:
		return nil, 0, geomErrorf(ErrUnknownNodeType, g, "no profile builder for spec %T", g.Spec)
	}
}

// buildUnion builds the implicit union of a child list, skipping
// invisible subtrees.
func (c *Converter) buildUnion(g *GeometryNode, children []*GeometryNode) (kernel.Solid, int, error) {
	var acc kernel.Solid
	segs := 0
	for i, child := range children {
		s, childSegs, err := c.buildSolid(child)
		if err != nil {
			return nil, 0, err
		}
		if childSegs > segs {
			segs = childSegs
		}
		if s == nil {
			continue
		}
		if acc == nil {
			acc = s
			continue
		}
		acc, err = c.kern.Boolean(acc, s, kernel.OpUnion)
		if err != nil {
			e := geomErrorf(ErrBooleanOperationFailed, g, "implicit union step %d failed", i)
			e.Err = err
			return nil, 0, e
		}
	}
	return acc, segs, nil
}

// profileMesh tessellates a standalone 2D profile into a flat mesh at
// z=0, fan triangulated with +Z normals.
func (c *Converter) profileMesh(g *GeometryNode) (*kernel.Mesh, error) {
	var pts [][2]float64
	switch s := g.Spec.(type) {
	case *CircleSpec:
		pts = make([][2]float64, s.Segments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / float64(s.Segments)
			pts[i] = [2]float64{s.Radius * math.Cos(a), s.Radius * math.Sin(a)}
		}
	case *SquareSpec:
		w, h := s.Size[0], s.Size[1]
		pts = [][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
		if s.Center {
			for i := range pts {
				pts[i][0] -= w / 2
				pts[i][1] -= h / 2
			}
		}
	case *PolygonSpec:
		pts = s.Points
	default:
		return nil, geomErrorf(ErrUnknownNodeType, g, "no profile builder for spec %T", g.Spec)
	}

	mesh := kernel.NewMesh(g.Name)
	for _, p := range pts {
		mesh.Vertices = append(mesh.Vertices, float32(p[0]), float32(p[1]), 0)
		mesh.Normals = append(mesh.Normals, 0, 0, 1)
	}
	for i := 1; i < len(pts)-1; i++ {
		mesh.Indices = append(mesh.Indices, 0, uint32(i), uint32(i+1))
	}
	return mesh, nil
}

// geomErrorf builds an *Error carrying a geometry node's context.
func geomErrorf(code ErrorCode, g *GeometryNode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Node:    g.Name,
		Kind:    g.Kind,
		Loc:     g.Loc,
	}
}
