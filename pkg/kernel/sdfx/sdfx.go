// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/tessera-cad/tessera/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution when
// the caller gives no segment hint.
const defaultMeshCells = 200

// sdfSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// sdfProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfProfile struct {
	s sdf.SDF2
}

// BoundingBox returns the 2D axis-aligned bounding box.
func (p *sdfProfile) BoundingBox() (min, max [2]float64) {
	bb := p.s.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct{}

// New returns a new sdfx-backed Kernel.
func New() *Kernel {
	return &Kernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
// meshSolid values (polyhedra) have no SDF and return false.
func unwrap(s kernel.Solid) (sdf.SDF3, bool) {
	if w, ok := s.(*sdfSolid); ok {
		return w.s, true
	}
	return nil, false
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfSolid{s: s}
}

func unwrapProfile(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfProfile).s
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Box creates a box with the given dimensions, centered at the origin.
// sdf.Box3D only fails for non-positive dimensions, which callers
// validate first, so a failure here is a programming error.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere centered at the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder (or cone when rBottom != rTop) along the
// Z axis, centered at the origin.
func (k *Kernel) Cylinder(height, rBottom, rTop float64) kernel.Solid {
	if rBottom == rTop {
		s, err := sdf.Cylinder3D(height, rBottom, 0)
		if err != nil {
			panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
		}
		return wrap(s)
	}
	s, err := sdf.Cone3D(height, rBottom, rTop, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cone3D: %v", err))
	}
	return wrap(s)
}

// Polyhedron creates a mesh-backed solid from a point list and faces.
// Faces are fan triangulated. The result meshes and transforms like any
// other solid but does not participate in SDF boolean operations.
func (k *Kernel) Polyhedron(points [][3]float64, faces [][]int) (kernel.Solid, error) {
	return newMeshSolid(points, faces)
}

// ---------------------------------------------------------------------------
// 2D profiles
// ---------------------------------------------------------------------------

// Circle creates a disc profile centered at the origin.
func (k *Kernel) Circle(radius float64) kernel.Profile {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Circle2D: %v", err))
	}
	return &sdfProfile{s: s}
}

// Rectangle creates a rectangle profile centered at the origin.
func (k *Kernel) Rectangle(x, y float64) kernel.Profile {
	return &sdfProfile{s: sdf.Box2D(v2.Vec{X: x, Y: y}, 0)}
}

// Polygon creates a closed polygon profile from its vertex list.
func (k *Kernel) Polygon(points [][2]float64) (kernel.Profile, error) {
	vs := make([]v2.Vec, len(points))
	for i, p := range points {
		vs[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon profile: %w", err)
	}
	return &sdfProfile{s: s}, nil
}

// ---------------------------------------------------------------------------
// Sweeps
// ---------------------------------------------------------------------------

// Extrude sweeps a profile along Z, centered about z=0. Twist is the
// total rotation in radians over the sweep; scaleX/scaleY scale the
// profile at the top. sdfx has dedicated combinations for each case.
func (k *Kernel) Extrude(p kernel.Profile, height, twist, scaleX, scaleY float64) kernel.Solid {
	s2 := unwrapProfile(p)
	hasTwist := twist != 0
	hasScale := scaleX != 1 || scaleY != 1
	switch {
	case hasTwist && hasScale:
		return wrap(sdf.ScaleTwistExtrude3D(s2, height, twist, v2.Vec{X: scaleX, Y: scaleY}))
	case hasTwist:
		return wrap(sdf.TwistExtrude3D(s2, height, twist))
	case hasScale:
		return wrap(sdf.ScaleExtrude3D(s2, height, v2.Vec{X: scaleX, Y: scaleY}))
	default:
		return wrap(sdf.Extrude3D(s2, height))
	}
}

// Revolve sweeps a profile around the Z axis through angle radians.
func (k *Kernel) Revolve(p kernel.Profile, angle float64) (kernel.Solid, error) {
	s, err := sdf.RevolveTheta3D(unwrapProfile(p), angle)
	if err != nil {
		return nil, fmt.Errorf("sdfx: revolve: %w", err)
	}
	return wrap(s), nil
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// Boolean applies op to (a, b). Mesh-backed solids (polyhedra) cannot be
// combined with SDF booleans and fail explicitly.
func (k *Kernel) Boolean(a, b kernel.Solid, op kernel.BooleanOp) (kernel.Solid, error) {
	sa, okA := unwrap(a)
	sb, okB := unwrap(b)
	if !okA || !okB {
		return nil, fmt.Errorf("sdfx: %s: mesh-backed solids do not support boolean operations", op)
	}
	switch op {
	case kernel.OpUnion:
		return wrap(sdf.Union3D(sa, sb)), nil
	case kernel.OpDifference:
		return wrap(sdf.Difference3D(sa, sb)), nil
	case kernel.OpIntersection:
		return wrap(sdf.Intersect3D(sa, sb)), nil
	default:
		return nil, fmt.Errorf("sdfx: unknown boolean op %d", int(op))
	}
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if ms, ok := s.(*meshSolid); ok {
		return ms.translate(x, y, z)
	}
	s3, _ := unwrap(s)
	return wrap(sdf.Transform3D(s3, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})))
}

// Rotate rotates a solid by Euler angles in radians, X then Y then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if ms, ok := s.(*meshSolid); ok {
		return ms.rotate(x, y, z)
	}
	s3, _ := unwrap(s)
	m := sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))
	return wrap(sdf.Transform3D(s3, m))
}

// Scale scales a solid per axis. Zero factors are rejected upstream.
func (k *Kernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	if ms, ok := s.(*meshSolid); ok {
		return ms.scale(x, y, z)
	}
	s3, _ := unwrap(s)
	return wrap(sdf.Transform3D(s3, sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})))
}

// Mirror reflects a solid across the plane through the origin with the
// given normal. The reflection is built by rotating the normal onto +Z,
// mirroring across the XY plane, and rotating back.
func (k *Kernel) Mirror(s kernel.Solid, nx, ny, nz float64) (kernel.Solid, error) {
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		return nil, fmt.Errorf("sdfx: mirror: zero-length normal")
	}
	nx, ny, nz = nx/length, ny/length, nz/length

	if ms, ok := s.(*meshSolid); ok {
		return ms.mirror(nx, ny, nz), nil
	}
	s3, _ := unwrap(s)

	// Normal already on the Z axis: plain XY mirror.
	if nx == 0 && ny == 0 {
		return wrap(sdf.Transform3D(s3, sdf.MirrorXY())), nil
	}

	// axis = n × z is perpendicular to both; rotating by the angle
	// between n and z about it takes n onto z.
	axis := v3.Vec{X: ny, Y: -nx, Z: 0}
	angle := math.Acos(nz)
	m := sdf.Rotate3d(axis, -angle).Mul(sdf.MirrorXY()).Mul(sdf.Rotate3d(axis, angle))
	return wrap(sdf.Transform3D(s3, m)), nil
}

// ---------------------------------------------------------------------------
// Mesh output
// ---------------------------------------------------------------------------

// meshCells maps a segment-count hint to a marching cubes resolution.
func meshCells(segments int) int {
	if segments <= 0 {
		return defaultMeshCells
	}
	cells := segments * 6
	if cells < 120 {
		return 120
	}
	if cells > 300 {
		return 300
	}
	return cells
}

// ToMesh converts a solid to a triangle mesh. SDF solids go through
// marching cubes; mesh-backed solids pass their triangles through.
func (k *Kernel) ToMesh(s kernel.Solid, segments int) (*kernel.Mesh, error) {
	if ms, ok := s.(*meshSolid); ok {
		return ms.toMesh(), nil
	}
	s3, _ := unwrap(s)

	renderer := render.NewMarchingCubesUniform(meshCells(segments))
	triangles := render.ToTriangles(s3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	mesh := kernel.NewMesh("")
	mesh.Vertices = make([]float32, 0, numVerts*3)
	mesh.Normals = make([]float32, 0, numVerts*3)
	mesh.Indices = make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, nx, ny, nz)
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}

	return mesh, nil
}
