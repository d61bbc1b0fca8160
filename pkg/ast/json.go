package ast

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a Kind as its parser tag string.
func (k Kind) MarshalJSON() ([]byte, error) {
	n, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("ast: cannot marshal invalid kind %d", int(k))
	}
	return json.Marshal(n)
}

// UnmarshalJSON decodes a parser tag string into a Kind. Unrecognized
// tags decode to KindInvalid rather than failing, so that a structurally
// valid document with an unsupported node reaches the dispatcher and
// fails there with full node context.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = KindFromString(s)
	return nil
}

// MarshalJSON encodes a Modifier as its tag string.
func (m Modifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a modifier tag string.
func (m *Modifier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	mod, ok := ModifierFromString(s)
	if !ok {
		return fmt.Errorf("ast: unknown modifier %q", s)
	}
	*m = mod
	return nil
}

// nodeJSON is the wire shadow of Node: Data arrives as a raw message and
// is decoded into the concrete payload selected by Kind.
type nodeJSON struct {
	Kind     Kind            `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Loc      SourceLocation  `json:"loc"`
	Children []*Node         `json:"children,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// emptyData returns the zero payload for a kind, or nil for unknown
// kinds. A nil payload survives decoding so conversion can report
// UnknownNodeType with node context.
func emptyData(k Kind) NodeData {
	switch k {
	case KindCube:
		return &CubeData{}
	case KindSphere:
		return &SphereData{}
	case KindCylinder:
		return &CylinderData{}
	case KindPolyhedron:
		return &PolyhedronData{}
	case KindCircle:
		return &CircleData{}
	case KindSquare:
		return &SquareData{}
	case KindPolygon:
		return &PolygonData{}
	case KindTranslate:
		return &TranslateData{}
	case KindRotate:
		return &RotateData{}
	case KindScale:
		return &ScaleData{}
	case KindMirror:
		return &MirrorData{}
	case KindColor:
		return &ColorData{}
	case KindUnion, KindDifference, KindIntersection:
		return &CSGData{}
	case KindLinearExtrude:
		return &LinearExtrudeData{}
	case KindRotateExtrude:
		return &RotateExtrudeData{}
	case KindFor:
		return &ForData{}
	case KindIf:
		return &IfData{}
	case KindLet:
		return &LetData{}
	case KindModifier:
		return &ModifierData{}
	default:
		return nil
	}
}

// UnmarshalJSON decodes a node, selecting the Data payload type from the
// kind tag. Omitted payloads become the zero payload for the kind,
// matching the language rule that omitted parameters mean defaults.
func (n *Node) UnmarshalJSON(b []byte) error {
	var nj nodeJSON
	if err := json.Unmarshal(b, &nj); err != nil {
		return err
	}
	n.Kind = nj.Kind
	n.Name = nj.Name
	n.Loc = nj.Loc
	n.Children = nj.Children

	n.Data = emptyData(nj.Kind)
	if n.Data != nil && len(nj.Data) > 0 {
		if err := json.Unmarshal(nj.Data, n.Data); err != nil {
			return fmt.Errorf("ast: node %q at %s: %w", nj.Kind, nj.Loc, err)
		}
	}
	return nil
}

// ParseForest decodes a JSON array of AST nodes, the wire format the
// external parser hands to the bridge.
func ParseForest(b []byte) ([]*Node, error) {
	var nodes []*Node
	if err := json.Unmarshal(b, &nodes); err != nil {
		return nil, fmt.Errorf("ast: decoding node forest: %w", err)
	}
	return nodes, nil
}
