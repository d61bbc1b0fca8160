package bridge_test

import (
	"fmt"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// fakeSolid is an axis-aligned box stand-in for a kernel solid. leaves
// counts the primitives folded into it, so tests can assert how much
// geometry a subtree contributed.
type fakeSolid struct {
	min, max [3]float64
	leaves   int
}

func (s *fakeSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

type fakeProfile struct {
	min, max [2]float64
}

func (p *fakeProfile) BoundingBox() (min, max [2]float64) {
	return p.min, p.max
}

// call is one recorded kernel invocation.
type call struct {
	op   string
	args []float64
}

// fakeKernel implements kernel.Kernel with bounding-box arithmetic and
// records every call in order, so tests can assert dispatch, fold order
// and the exact values crossing the kernel boundary.
type fakeKernel struct {
	calls []call
}

func (k *fakeKernel) record(op string, args ...float64) {
	k.calls = append(k.calls, call{op: op, args: args})
}

// ops returns the recorded operation names in order.
func (k *fakeKernel) ops() []string {
	out := make([]string, len(k.calls))
	for i, c := range k.calls {
		out[i] = c.op
	}
	return out
}

// find returns the first recorded call with the given op name.
func (k *fakeKernel) find(op string) (call, bool) {
	for _, c := range k.calls {
		if c.op == op {
			return c, true
		}
	}
	return call{}, false
}

func (k *fakeKernel) count(op string) int {
	n := 0
	for _, c := range k.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (k *fakeKernel) Box(x, y, z float64) kernel.Solid {
	k.record("box", x, y, z)
	return &fakeSolid{
		min:    [3]float64{-x / 2, -y / 2, -z / 2},
		max:    [3]float64{x / 2, y / 2, z / 2},
		leaves: 1,
	}
}

func (k *fakeKernel) Sphere(radius float64) kernel.Solid {
	k.record("sphere", radius)
	return &fakeSolid{
		min:    [3]float64{-radius, -radius, -radius},
		max:    [3]float64{radius, radius, radius},
		leaves: 1,
	}
}

func (k *fakeKernel) Cylinder(height, rBottom, rTop float64) kernel.Solid {
	k.record("cylinder", height, rBottom, rTop)
	r := rBottom
	if rTop > r {
		r = rTop
	}
	return &fakeSolid{
		min:    [3]float64{-r, -r, -height / 2},
		max:    [3]float64{r, r, height / 2},
		leaves: 1,
	}
}

func (k *fakeKernel) Polyhedron(points [][3]float64, faces [][]int) (kernel.Solid, error) {
	k.record("polyhedron", float64(len(points)), float64(len(faces)))
	s := &fakeSolid{leaves: 1}
	s.min, s.max = points[0], points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < s.min[i] {
				s.min[i] = p[i]
			}
			if p[i] > s.max[i] {
				s.max[i] = p[i]
			}
		}
	}
	return s, nil
}

func (k *fakeKernel) Circle(radius float64) kernel.Profile {
	k.record("circle", radius)
	return &fakeProfile{min: [2]float64{-radius, -radius}, max: [2]float64{radius, radius}}
}

func (k *fakeKernel) Rectangle(x, y float64) kernel.Profile {
	k.record("rectangle", x, y)
	return &fakeProfile{min: [2]float64{-x / 2, -y / 2}, max: [2]float64{x / 2, y / 2}}
}

func (k *fakeKernel) Polygon(points [][2]float64) (kernel.Profile, error) {
	k.record("polygon", float64(len(points)))
	p := &fakeProfile{min: points[0], max: points[0]}
	for _, pt := range points[1:] {
		for i := 0; i < 2; i++ {
			if pt[i] < p.min[i] {
				p.min[i] = pt[i]
			}
			if pt[i] > p.max[i] {
				p.max[i] = pt[i]
			}
		}
	}
	return p, nil
}

func (k *fakeKernel) Extrude(p kernel.Profile, height, twist, scaleX, scaleY float64) kernel.Solid {
	k.record("extrude", height, twist, scaleX, scaleY)
	min, max := p.BoundingBox()
	return &fakeSolid{
		min:    [3]float64{min[0], min[1], -height / 2},
		max:    [3]float64{max[0], max[1], height / 2},
		leaves: 1,
	}
}

func (k *fakeKernel) Revolve(p kernel.Profile, angle float64) (kernel.Solid, error) {
	k.record("revolve", angle)
	min, max := p.BoundingBox()
	r := max[0]
	if -min[0] > r {
		r = -min[0]
	}
	return &fakeSolid{
		min:    [3]float64{-r, -r, min[1]},
		max:    [3]float64{r, r, max[1]},
		leaves: 1,
	}, nil
}

func (k *fakeKernel) Boolean(a, b kernel.Solid, op kernel.BooleanOp) (kernel.Solid, error) {
	k.record("boolean:" + op.String())
	fa := a.(*fakeSolid)
	fb := b.(*fakeSolid)
	out := &fakeSolid{leaves: fa.leaves + fb.leaves}
	switch op {
	case kernel.OpUnion:
		out.min, out.max = fa.min, fa.max
		for i := 0; i < 3; i++ {
			if fb.min[i] < out.min[i] {
				out.min[i] = fb.min[i]
			}
			if fb.max[i] > out.max[i] {
				out.max[i] = fb.max[i]
			}
		}
	case kernel.OpDifference:
		out.min, out.max = fa.min, fa.max
	case kernel.OpIntersection:
		out.min, out.max = fa.min, fa.max
		for i := 0; i < 3; i++ {
			if fb.min[i] > out.min[i] {
				out.min[i] = fb.min[i]
			}
			if fb.max[i] < out.max[i] {
				out.max[i] = fb.max[i]
			}
		}
	default:
		return nil, fmt.Errorf("fake: unknown op %d", int(op))
	}
	return out, nil
}

func (k *fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	k.record("translate", x, y, z)
	f := s.(*fakeSolid)
	return &fakeSolid{
		min:    [3]float64{f.min[0] + x, f.min[1] + y, f.min[2] + z},
		max:    [3]float64{f.max[0] + x, f.max[1] + y, f.max[2] + z},
		leaves: f.leaves,
	}
}

func (k *fakeKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	k.record("rotate", x, y, z)
	f := s.(*fakeSolid)
	return &fakeSolid{min: f.min, max: f.max, leaves: f.leaves}
}

func (k *fakeKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	k.record("scale", x, y, z)
	f := s.(*fakeSolid)
	out := &fakeSolid{leaves: f.leaves}
	factors := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		a, b := f.min[i]*factors[i], f.max[i]*factors[i]
		if a > b {
			a, b = b, a
		}
		out.min[i], out.max[i] = a, b
	}
	return out
}

func (k *fakeKernel) Mirror(s kernel.Solid, nx, ny, nz float64) (kernel.Solid, error) {
	k.record("mirror", nx, ny, nz)
	f := s.(*fakeSolid)
	return &fakeSolid{min: f.min, max: f.max, leaves: f.leaves}, nil
}

// ToMesh emits one unit marker triangle per folded leaf so vertex
// counts scale with the amount of geometry, and keeps the solid's
// bounds reachable through Mesh.Bounds by emitting the two bbox
// corners.
func (k *fakeKernel) ToMesh(s kernel.Solid, segments int) (*kernel.Mesh, error) {
	k.record("tomesh", float64(segments))
	f := s.(*fakeSolid)
	mesh := kernel.NewMesh("")
	for i := 0; i < f.leaves; i++ {
		mesh.Vertices = append(mesh.Vertices,
			float32(f.min[0]), float32(f.min[1]), float32(f.min[2]),
			float32(f.max[0]), float32(f.max[1]), float32(f.max[2]),
			float32(f.min[0]), float32(f.max[1]), float32(f.max[2]),
		)
		mesh.Normals = append(mesh.Normals, 0, 0, 1, 0, 0, 1, 0, 0, 1)
		base := uint32(i * 3)
		mesh.Indices = append(mesh.Indices, base, base+1, base+2)
	}
	return mesh, nil
}

// ---------------------------------------------------------------------------
// AST construction helpers
// ---------------------------------------------------------------------------

func lit(f float64) *ast.Value {
	v := ast.Lit(f)
	return &v
}

func expr(s string) *ast.Value {
	v := ast.Ex(s)
	return &v
}

func cubeNode(x, y, z float64, center bool) *ast.Node {
	size := ast.LitVec(x, y, z)
	return &ast.Node{
		Kind: ast.KindCube,
		Data: &ast.CubeData{Size: &size, Center: center},
	}
}

func sphereNode(r float64) *ast.Node {
	return &ast.Node{
		Kind: ast.KindSphere,
		Data: &ast.SphereData{R: lit(r)},
	}
}

func cylinderNode(h, r float64, center bool) *ast.Node {
	return &ast.Node{
		Kind: ast.KindCylinder,
		Data: &ast.CylinderData{H: lit(h), R: lit(r), Center: center},
	}
}

func circleNode(r float64) *ast.Node {
	return &ast.Node{
		Kind: ast.KindCircle,
		Data: &ast.CircleData{R: lit(r)},
	}
}

func csgNode(kind ast.Kind, children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: kind, Data: &ast.CSGData{}, Children: children}
}

func translateNode(x, y, z float64, children ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindTranslate,
		Data:     &ast.TranslateData{V: ast.LitVec(x, y, z)},
		Children: children,
	}
}

func modifierNode(mod ast.Modifier, children ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindModifier,
		Data:     &ast.ModifierData{Mod: mod},
		Children: children,
	}
}
