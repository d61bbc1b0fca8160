package bridge

import (
	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// convertCSG resolves a boolean node. Order matters: difference and
// intersection fold left over the ordered child list, so children are
// converted and kept exactly in source order.
func (c *Converter) convertCSG(n *ast.Node, env map[string]float64) (*GeometryNode, error) {
	if len(n.Children) < 2 {
		return nil, nodeErrorf(ErrInsufficientChildren, n, "%s requires at least 2 children, got %d", n.Kind, len(n.Children))
	}

	var op kernel.BooleanOp
	switch n.Kind {
	case ast.KindUnion:
		op = kernel.OpUnion
	case ast.KindDifference:
		op = kernel.OpDifference
	case ast.KindIntersection:
		op = kernel.OpIntersection
	default:
		return nil, nodeErrorf(ErrUnknownNodeType, n, "not a boolean kind")
	}

	for i, child := range n.Children {
		if child.Kind.Is2DProfile() {
			return nil, nodeErrorf(ErrInvalidContext, n, "child %d is a 2D profile; booleans operate on solids", i)
		}
	}

	children, err := c.convertChildren(n, env)
	if err != nil {
		return nil, err
	}
	g := c.newNode(n, &CSGSpec{Op: op})
	g.Children = children
	return g, nil
}
