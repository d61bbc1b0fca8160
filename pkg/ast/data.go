package ast

// ---------------------------------------------------------------------------
// Primitives (3D)
// ---------------------------------------------------------------------------

// CubeData parameterizes a cube/box. A nil Size means the language
// default of 1 on every axis. Center=false places the minimum corner at
// the origin, matching the source language default.
type CubeData struct {
	Size   *VecValue `json:"size,omitempty"`
	Center bool      `json:"center,omitempty"`
}

func (*CubeData) nodeData() {}

// SphereData parameterizes a sphere. Diameter is honored only when the
// radius is absent; both absent means radius 1.
type SphereData struct {
	R  *Value `json:"r,omitempty"`
	D  *Value `json:"d,omitempty"`
	Fn *Value `json:"fn,omitempty"` // local segment-count override
}

func (*SphereData) nodeData() {}

// CylinderData parameterizes a cylinder or cone. R1/R2 (or D1/D2) give
// the bottom/top radii for cones; R (or D) sets both.
type CylinderData struct {
	H      *Value `json:"h,omitempty"`
	R      *Value `json:"r,omitempty"`
	R1     *Value `json:"r1,omitempty"`
	R2     *Value `json:"r2,omitempty"`
	D      *Value `json:"d,omitempty"`
	D1     *Value `json:"d1,omitempty"`
	D2     *Value `json:"d2,omitempty"`
	Center bool   `json:"center,omitempty"`
	Fn     *Value `json:"fn,omitempty"`
}

func (*CylinderData) nodeData() {}

// PolyhedronData is a raw mesh primitive: a point list plus faces given
// as indices into it. Faces with more than three vertices are fan
// triangulated during mesh generation.
type PolyhedronData struct {
	Points [][3]float64 `json:"points"`
	Faces  [][]int      `json:"faces"`
}

func (*PolyhedronData) nodeData() {}

// ---------------------------------------------------------------------------
// Primitives (2D profiles)
// ---------------------------------------------------------------------------

// CircleData parameterizes a disc profile.
type CircleData struct {
	R  *Value `json:"r,omitempty"`
	D  *Value `json:"d,omitempty"`
	Fn *Value `json:"fn,omitempty"`
}

func (*CircleData) nodeData() {}

// SquareData parameterizes a rectangle profile.
type SquareData struct {
	Size   *Vec2Value `json:"size,omitempty"`
	Center bool       `json:"center,omitempty"`
}

func (*SquareData) nodeData() {}

// PolygonData is a closed 2D polygon profile.
type PolygonData struct {
	Points [][2]float64 `json:"points"`
}

func (*PolygonData) nodeData() {}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// TranslateData moves children by V.
type TranslateData struct {
	V VecValue `json:"v"`
}

func (*TranslateData) nodeData() {}

// RotateData rotates children by Euler angles in degrees, applied X then
// Y then Z. Conversion to radians happens at the kernel boundary.
type RotateData struct {
	A VecValue `json:"a"`
}

func (*RotateData) nodeData() {}

// ScaleData scales children per axis. Zero factors are rejected during
// conversion.
type ScaleData struct {
	V VecValue `json:"v"`
}

func (*ScaleData) nodeData() {}

// MirrorData reflects children across the plane through the origin with
// normal V. A zero-length normal is rejected during conversion.
type MirrorData struct {
	V VecValue `json:"v"`
}

func (*MirrorData) nodeData() {}

// ColorData attaches a material color to child meshes without altering
// geometry. Components are in [0,1]. A nil alpha means opaque.
type ColorData struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

func (*ColorData) nodeData() {}

// ---------------------------------------------------------------------------
// CSG
// ---------------------------------------------------------------------------

// CSGData carries no parameters; the operation is the node kind.
type CSGData struct{}

func (*CSGData) nodeData() {}

// ---------------------------------------------------------------------------
// Extrusions
// ---------------------------------------------------------------------------

// LinearExtrudeData sweeps the child profile along the Z axis.
type LinearExtrudeData struct {
	Height Value      `json:"height"`
	Center bool       `json:"center,omitempty"`
	Twist  *Value     `json:"twist,omitempty"` // total twist in degrees
	Scale  *Vec2Value `json:"scale,omitempty"` // profile scale at the top
	Fn     *Value     `json:"fn,omitempty"`
}

func (*LinearExtrudeData) nodeData() {}

// RotateExtrudeData sweeps the child profile around the Z axis. A nil
// angle means a full revolution.
type RotateExtrudeData struct {
	Angle *Value `json:"angle,omitempty"` // degrees
	Fn    *Value `json:"fn,omitempty"`
}

func (*RotateExtrudeData) nodeData() {}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// ForData expands its children once per iteration of Var over
// [Start, End] stepping by Step (default 1).
type ForData struct {
	Var   string `json:"var"`
	Start Value  `json:"start"`
	End   Value  `json:"end"`
	Step  *Value `json:"step,omitempty"`
}

func (*ForData) nodeData() {}

// IfData generates the node children when Cond is true, and the Else
// branch (if any) when it is false.
type IfData struct {
	Cond Value   `json:"cond"`
	Else []*Node `json:"else,omitempty"`
}

func (*IfData) nodeData() {}

// Binding is a single name/value pair introduced by a let node.
type Binding struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// LetData introduces local bindings visible to the node children.
// Bindings are evaluated in order; later bindings see earlier ones.
type LetData struct {
	Bindings []Binding `json:"bindings"`
}

func (*LetData) nodeData() {}

// ---------------------------------------------------------------------------
// Modifiers
// ---------------------------------------------------------------------------

// Modifier enumerates the visibility/emphasis modifiers.
type Modifier int

const (
	ModDisable    Modifier = iota // hide and skip ("*")
	ModShowOnly                   // emphasize subtree, suppress siblings ("!")
	ModDebug                      // visually flag ("#")
	ModBackground                 // translucent, excluded from solids ("%")
)

var modifierNames = map[Modifier]string{
	ModDisable:    "disable",
	ModShowOnly:   "show-only",
	ModDebug:      "debug",
	ModBackground: "background",
}

func (m Modifier) String() string {
	if n, ok := modifierNames[m]; ok {
		return n
	}
	return "unknown"
}

// ModifierFromString resolves a parser modifier tag. The boolean is
// false for unrecognized tags.
func ModifierFromString(s string) (Modifier, bool) {
	for m, n := range modifierNames {
		if n == s {
			return m, true
		}
	}
	return 0, false
}

// ModifierData marks the node children with a visibility modifier.
type ModifierData struct {
	Mod Modifier `json:"mod"`
}

func (*ModifierData) nodeData() {}
