package bridge

import (
	"fmt"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// GeometryNode is one node of the converted geometry tree. It carries
// the resolved spec for its operation and the ordered child list; the
// mesh is produced on demand through the converter's kernel and
// memoized per node.
//
// Nodes are immutable after conversion. Subtrees returned from the
// content cache are shared between parents, which is safe for the same
// reason.
type GeometryNode struct {
	Name     string
	Kind     ast.Kind
	Category ast.Category
	Loc      ast.SourceLocation
	Spec     NodeSpec
	Children []*GeometryNode

	// Source points back to the originating AST node (shared, not
	// owned). A node served from the content cache keeps the source of
	// its first conversion.
	Source *ast.Node

	conv *Converter
	hash ContentHash
	mesh *kernel.Mesh
}

// Hash returns the structural content hash of the originating subtree.
func (g *GeometryNode) Hash() ContentHash {
	return g.hash
}

// Modifier returns the visibility modifier for modifier nodes, and
// false for every other kind.
func (g *GeometryNode) Modifier() (ast.Modifier, bool) {
	if s, ok := g.Spec.(*ModifierSpec); ok {
		return s.Mod, true
	}
	return 0, false
}

// Validate re-checks the structural invariants of the subtree: spec
// presence, per-category arity and extrusion profile children. The
// converter establishes these during conversion; Validate exists for
// callers that assemble or clone trees and want the same guarantees.
func (g *GeometryNode) Validate() error {
	if g == nil {
		return &Error{Code: ErrValidationFailed, Message: "nil geometry node"}
	}
	if err := g.validate(); err != nil {
		return err
	}
	return nil
}

func (g *GeometryNode) validate() error {
	if g.Spec == nil {
		return g.validationError("missing spec")
	}

	switch g.Category {
	case ast.CategoryPrimitive:
		if len(g.Children) != 0 {
			return g.validationError("primitive has %d children, want none", len(g.Children))
		}
	case ast.CategoryTransform:
		// Any child count is valid; an empty transform is empty geometry.
	case ast.CategoryCSG:
		if len(g.Children) < 2 {
			return g.validationError("boolean has %d children, want at least 2", len(g.Children))
		}
	case ast.CategoryExtrusion:
		if len(g.Children) < 1 {
			return g.validationError("extrusion has no children")
		}
		for _, child := range g.Children {
			if !child.Kind.Is2DProfile() {
				return g.validationError("extrusion child %s is not a 2D profile", child.Kind)
			}
		}
	case ast.CategoryModifier:
		if len(g.Children) < 1 {
			return g.validationError("modifier has no children")
		}
	case ast.CategoryControlFlow:
		// Expanded during conversion; any child count is valid.
	default:
		return g.validationError("invalid category for kind %s", g.Kind)
	}

	for _, child := range g.Children {
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (g *GeometryNode) validationError(format string, args ...interface{}) *Error {
	return &Error{
		Code:    ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
		Node:    g.Name,
		Kind:    g.Kind,
		Loc:     g.Loc,
	}
}

// Clone returns a deep copy of the subtree. Specs are shared (they are
// immutable); memoized meshes are not carried over.
func (g *GeometryNode) Clone() *GeometryNode {
	if g == nil {
		return nil
	}
	out := &GeometryNode{
		Name:     g.Name,
		Kind:     g.Kind,
		Category: g.Category,
		Loc:      g.Loc,
		Spec:     g.Spec,
		Source:   g.Source,
		conv:     g.conv,
		hash:     g.hash,
	}
	if len(g.Children) > 0 {
		out.Children = make([]*GeometryNode, len(g.Children))
		for i, child := range g.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// DebugInfo returns a plain-data description of the subtree for
// inspection and logging.
func (g *GeometryNode) DebugInfo() map[string]interface{} {
	info := map[string]interface{}{
		"name":     g.Name,
		"kind":     g.Kind.String(),
		"category": g.Category.String(),
		"spec":     fmt.Sprintf("%+v", g.Spec),
		"hash":     fmt.Sprintf("%x", g.hash[:8]),
	}
	if !g.Loc.IsZero() {
		info["loc"] = g.Loc.String()
	}
	if g.mesh != nil {
		info["mesh"] = fmt.Sprintf("%d vertices, %d triangles", g.mesh.VertexCount(), g.mesh.TriangleCount())
	}
	if len(g.Children) > 0 {
		children := make([]map[string]interface{}, len(g.Children))
		for i, child := range g.Children {
			children[i] = child.DebugInfo()
		}
		info["children"] = children
	}
	return info
}

// GenerateMesh produces the renderable mesh for the subtree, building
// solids bottom-up through the kernel and tessellating the result. The
// mesh is memoized; repeated calls return the same mesh.
//
// A standalone 2D profile node yields a flat mesh at z=0. A fully
// disabled subtree yields an empty mesh rather than an error.
func (g *GeometryNode) GenerateMesh() (*kernel.Mesh, error) {
	if g.conv == nil {
		return nil, &Error{Code: ErrNotInitialized, Message: "node has no converter"}
	}
	if g.mesh != nil {
		return g.mesh, nil
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	mesh, err := g.conv.generateMesh(g)
	if err != nil {
		return nil, err
	}
	g.mesh = mesh
	g.conv.noteMeshGenerated()
	return mesh, nil
}
