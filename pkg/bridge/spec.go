package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// NodeSpec is the closed union of resolved per-node parameters. Specs
// are produced during conversion with all expressions already
// evaluated, validated, and defaults applied; mesh generation reads
// them without touching the AST again. Specs are immutable once built.
type NodeSpec interface {
	nodeSpec()
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// CubeSpec is a resolved box primitive.
type CubeSpec struct {
	Size   ast.Vec3
	Center bool
}

func (*CubeSpec) nodeSpec() {}

// SphereSpec is a resolved sphere primitive.
type SphereSpec struct {
	Radius   float64
	Segments int
}

func (*SphereSpec) nodeSpec() {}

// CylinderSpec is a resolved cylinder/cone primitive.
type CylinderSpec struct {
	Height   float64
	RBottom  float64
	RTop     float64
	Center   bool
	Segments int
}

func (*CylinderSpec) nodeSpec() {}

// PolyhedronSpec is a resolved raw-mesh primitive.
type PolyhedronSpec struct {
	Points [][3]float64
	Faces  [][]int
}

func (*PolyhedronSpec) nodeSpec() {}

// CircleSpec is a resolved disc profile.
type CircleSpec struct {
	Radius   float64
	Segments int
}

func (*CircleSpec) nodeSpec() {}

// SquareSpec is a resolved rectangle profile.
type SquareSpec struct {
	Size   [2]float64
	Center bool
}

func (*SquareSpec) nodeSpec() {}

// PolygonSpec is a resolved polygon profile.
type PolygonSpec struct {
	Points [][2]float64
}

func (*PolygonSpec) nodeSpec() {}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// TransformSpec is a resolved affine transform or color attachment.
// V holds the translation, Euler rotation (degrees, as authored),
// scale factors or mirror normal depending on Op. Color is set only
// for color nodes.
type TransformSpec struct {
	Op    ast.Kind
	V     ast.Vec3
	Color *kernel.Material
}

func (*TransformSpec) nodeSpec() {}

// ---------------------------------------------------------------------------
// CSG
// ---------------------------------------------------------------------------

// CSGSpec is a resolved boolean operation.
type CSGSpec struct {
	Op kernel.BooleanOp
}

func (*CSGSpec) nodeSpec() {}

// ---------------------------------------------------------------------------
// Extrusions
// ---------------------------------------------------------------------------

// LinearExtrudeSpec is a resolved linear sweep. Twist is in radians;
// Scale is the profile scale at the top of the sweep.
type LinearExtrudeSpec struct {
	Height   float64
	Center   bool
	Twist    float64
	Scale    [2]float64
	Segments int
}

func (*LinearExtrudeSpec) nodeSpec() {}

// RotateExtrudeSpec is a resolved rotational sweep. Angle is in
// radians; a full revolution by default.
type RotateExtrudeSpec struct {
	Angle    float64
	Segments int
}

func (*RotateExtrudeSpec) nodeSpec() {}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// ControlFlowSpec records how a control-flow node expanded. For loops,
// Iterations is the resolved iteration count; for ifs, Taken reports
// which branch was generated.
type ControlFlowSpec struct {
	Kind       ast.Kind
	Iterations int
	Taken      bool
}

func (*ControlFlowSpec) nodeSpec() {}

// ---------------------------------------------------------------------------
// Modifiers
// ---------------------------------------------------------------------------

// ModifierSpec is a resolved visibility modifier.
type ModifierSpec struct {
	Mod ast.Modifier
}

func (*ModifierSpec) nodeSpec() {}
