// Package kernel defines the abstract geometry kernel interface the
// bridge renders through. Implementations (sdfx today) provide solid
// modeling, profile sweeps and boolean operations behind this interface,
// so the bridge never touches a backend API directly.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is an opaque handle to a 2D profile used for sweeps.
type Profile interface {
	// BoundingBox returns the 2D axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// BooleanOp selects a boolean operation over two solids.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Kernel is the abstract geometry kernel interface.
//
// Primitives are built in their natural origin-centered position; any
// centering policy of the source language is applied by the caller via
// Translate. All angles are radians; callers convert from the source
// language's degrees at this boundary.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, rBottom, rTop float64) Solid
	Polyhedron(points [][3]float64, faces [][]int) (Solid, error)

	// 2D profiles
	Circle(radius float64) Profile
	Rectangle(x, y float64) Profile
	Polygon(points [][2]float64) (Profile, error)

	// Sweeps. Extrude sweeps the profile along Z, centered about z=0,
	// with a total twist (radians) and per-axis scale at the top.
	// Revolve sweeps the profile around the Z axis through angle.
	Extrude(p Profile, height, twist, scaleX, scaleY float64) Solid
	Revolve(p Profile, angle float64) (Solid, error)

	// Boolean applies op to the pair (a, b). Individual steps may fail
	// for solid representations the backend cannot combine.
	Boolean(a, b Solid, op BooleanOp) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid
	Scale(s Solid, x, y, z float64) Solid
	Mirror(s Solid, nx, ny, nz float64) (Solid, error)

	// Mesh output. segments hints the tessellation resolution for
	// curved surfaces; backends may interpret or ignore it.
	ToMesh(s Solid, segments int) (*Mesh, error)
}
