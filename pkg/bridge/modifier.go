package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
)

// convertModifier resolves a visibility modifier node. The modifier
// itself produces no geometry; it marks its subtree for the scene
// assembler (disable, show-only, debug, background).
func (c *Converter) convertModifier(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	if len(n.Children) < 1 {
		return nil, nodeErrorf(ErrNoChildren, n, "modifier requires at least 1 child")
	}
	d, ok := n.Data.(*ast.ModifierData)
	if !ok {
		return nil, nodeErrorf(ErrInvalidParameter, n, "missing or mismatched parameters (%T)", n.Data)
	}
	switch d.Mod {
	case ast.ModDisable, ast.ModShowOnly, ast.ModDebug, ast.ModBackground:
	default:
		return nil, nodeErrorf(ErrInvalidParameter, n, "unknown modifier %d", int(d.Mod))
	}

	children, err := c.convertChildren(n, env)
	if err != nil {
		return nil, err
	}
	g := c.newNode(n, &ModifierSpec{Mod: d.Mod})
	g.Children = children
	return g, nil
}
