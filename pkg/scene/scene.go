// Package scene assembles converted geometry trees into the flat mesh
// list a viewer renders, applying visibility-modifier semantics that
// span siblings: show-only suppresses everything outside the marked
// subtrees, disabled subtrees are dropped, and debug and background
// subtrees are emitted as separately styled meshes.
package scene

import (
	"fmt"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/bridge"
	"github.com/tessera-cad/tessera/pkg/kernel"
)

// Style tells the viewer how to render an item.
type Style int

const (
	StyleNormal Style = iota
	StyleDebug        // highlighted overlay
	StyleBackground   // translucent, excluded from solid geometry
)

func (s Style) String() string {
	switch s {
	case StyleDebug:
		return "debug"
	case StyleBackground:
		return "background"
	default:
		return "normal"
	}
}

// Item is one renderable mesh with its style.
type Item struct {
	Mesh  *kernel.Mesh
	Style Style
}

// Assemble walks the converted forest and produces the render list.
//
// If any show-only modifier exists in the forest, only those subtrees
// are rendered. Otherwise every root renders normally, plus one styled
// item per debug or background subtree found below it. Empty meshes
// (fully disabled subtrees) are dropped.
func Assemble(roots []*bridge.GeometryNode) ([]Item, error) {
	if focus := collectModified(roots, ast.ModShowOnly); len(focus) > 0 {
		var items []Item
		for _, n := range focus {
			item, err := render(n, StyleNormal)
			if err != nil {
				return nil, err
			}
			items = append(items, item...)
		}
		return items, nil
	}

	var items []Item
	for _, root := range roots {
		if mod, ok := root.Modifier(); ok && mod == ast.ModDisable {
			continue
		}
		style := StyleNormal
		if mod, ok := root.Modifier(); ok {
			style = styleFor(mod)
		}
		item, err := render(root, style)
		if err != nil {
			return nil, err
		}
		items = append(items, item...)

		// Nested debug and background subtrees render as extra items on
		// top of the normal geometry.
		for _, mod := range []ast.Modifier{ast.ModDebug, ast.ModBackground} {
			for _, n := range collectModified(root.Children, mod) {
				extra, err := render(n, styleFor(mod))
				if err != nil {
					return nil, err
				}
				items = append(items, extra...)
			}
		}
	}
	return items, nil
}

func render(n *bridge.GeometryNode, style Style) ([]Item, error) {
	mesh, err := n.GenerateMesh()
	if err != nil {
		return nil, fmt.Errorf("scene: rendering %s: %w", n.Name, err)
	}
	if mesh.IsEmpty() {
		return nil, nil
	}
	return []Item{{Mesh: mesh, Style: style}}, nil
}

func styleFor(mod ast.Modifier) Style {
	switch mod {
	case ast.ModDebug:
		return StyleDebug
	case ast.ModBackground:
		return StyleBackground
	default:
		return StyleNormal
	}
}

// collectModified finds the outermost modifier nodes with the given
// modifier in each tree. Subtrees under a disable modifier are never
// searched; nothing inside a dropped subtree renders.
func collectModified(nodes []*bridge.GeometryNode, want ast.Modifier) []*bridge.GeometryNode {
	var out []*bridge.GeometryNode
	for _, n := range nodes {
		if mod, ok := n.Modifier(); ok {
			if mod == want {
				out = append(out, n)
				continue
			}
			if mod == ast.ModDisable {
				continue
			}
		}
		out = append(out, collectModified(n.Children, want)...)
	}
	return out
}
