package ast

import "fmt"

// Kind enumerates the AST node variants.
type Kind int

const (
	KindInvalid Kind = iota

	// Primitives (3D)
	KindCube
	KindSphere
	KindCylinder
	KindPolyhedron

	// Primitives (2D profiles)
	KindCircle
	KindSquare
	KindPolygon

	// Transforms
	KindTranslate
	KindRotate
	KindScale
	KindMirror
	KindColor

	// CSG
	KindUnion
	KindDifference
	KindIntersection

	// Extrusions
	KindLinearExtrude
	KindRotateExtrude

	// Control flow
	KindFor
	KindIf
	KindLet

	// Modifiers
	KindModifier
)

var kindNames = map[Kind]string{
	KindCube:          "cube",
	KindSphere:        "sphere",
	KindCylinder:      "cylinder",
	KindPolyhedron:    "polyhedron",
	KindCircle:        "circle",
	KindSquare:        "square",
	KindPolygon:       "polygon",
	KindTranslate:     "translate",
	KindRotate:        "rotate",
	KindScale:         "scale",
	KindMirror:        "mirror",
	KindColor:         "color",
	KindUnion:         "union",
	KindDifference:    "difference",
	KindIntersection:  "intersection",
	KindLinearExtrude: "linear_extrude",
	KindRotateExtrude: "rotate_extrude",
	KindFor:           "for",
	KindIf:            "if",
	KindLet:           "let",
	KindModifier:      "modifier",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFromString resolves a parser kind tag to a Kind.
// Unrecognized tags return KindInvalid, not an error; the dispatcher
// treats KindInvalid as a hard UnknownNodeType failure.
func KindFromString(s string) Kind {
	return kindsByName[s]
}

// Category is the coarse discriminant used for dispatch and arity rules.
type Category int

const (
	CategoryInvalid Category = iota
	CategoryPrimitive
	CategoryTransform
	CategoryCSG
	CategoryExtrusion
	CategoryControlFlow
	CategoryModifier
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryTransform:
		return "transform"
	case CategoryCSG:
		return "csg"
	case CategoryExtrusion:
		return "extrusion"
	case CategoryControlFlow:
		return "control-flow"
	case CategoryModifier:
		return "modifier"
	default:
		return "invalid"
	}
}

// Category maps a Kind to its category. Unknown kinds map to
// CategoryInvalid so the dispatcher's unsupported arm stays explicit.
func (k Kind) Category() Category {
	switch k {
	case KindCube, KindSphere, KindCylinder, KindPolyhedron,
		KindCircle, KindSquare, KindPolygon:
		return CategoryPrimitive
	case KindTranslate, KindRotate, KindScale, KindMirror, KindColor:
		return CategoryTransform
	case KindUnion, KindDifference, KindIntersection:
		return CategoryCSG
	case KindLinearExtrude, KindRotateExtrude:
		return CategoryExtrusion
	case KindFor, KindIf, KindLet:
		return CategoryControlFlow
	case KindModifier:
		return CategoryModifier
	default:
		return CategoryInvalid
	}
}

// Is2DProfile reports whether the kind is a flat profile primitive.
func (k Kind) Is2DProfile() bool {
	return k == KindCircle || k == KindSquare || k == KindPolygon
}

// SourceLocation is a line/column span in the original source,
// carried for diagnostics only.
type SourceLocation struct {
	Line    int `json:"line"`
	Col     int `json:"col"`
	EndLine int `json:"end_line,omitempty"`
	EndCol  int `json:"end_col,omitempty"`
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// IsZero reports whether the location was never set by the parser.
func (l SourceLocation) IsZero() bool {
	return l == SourceLocation{}
}

// Node is a single AST node. Kind selects the variant, Data carries the
// variant-specific parameters, Children is the ordered body.
type Node struct {
	Kind     Kind           `json:"kind"`
	Name     string         `json:"name,omitempty"`
	Loc      SourceLocation `json:"loc"`
	Children []*Node        `json:"children,omitempty"`
	Data     NodeData       `json:"data,omitempty"`
}

// NodeData is the closed union of kind-specific payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
