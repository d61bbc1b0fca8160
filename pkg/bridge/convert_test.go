package bridge_test

import (
	"errors"
	"testing"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/bridge"
)

// newConverter builds an initialized converter over a fresh fake kernel.
func newConverter(t *testing.T) (*bridge.Converter, *fakeKernel) {
	t.Helper()
	k := &fakeKernel{}
	c := bridge.NewConverter(bridge.Config{Kernel: k})
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c, k
}

func wantCode(t *testing.T, err error, code bridge.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	got, ok := bridge.CodeOf(err)
	if !ok {
		t.Fatalf("expected bridge error, got %T: %v", err, err)
	}
	if got != code {
		t.Fatalf("error code = %s, want %s (err: %v)", got, code, err)
	}
}

func TestConvertBeforeInitialize(t *testing.T) {
	c := bridge.NewConverter(bridge.Config{Kernel: &fakeKernel{}})
	_, err := c.Convert(cubeNode(1, 1, 1, false))
	wantCode(t, err, bridge.ErrNotInitialized)
}

func TestInitializeWithoutKernel(t *testing.T) {
	c := bridge.NewConverter(bridge.Config{})
	if err := c.Initialize(); err == nil {
		t.Fatal("Initialize should fail without a kernel")
	}
}

func TestConvertAfterDispose(t *testing.T) {
	c, _ := newConverter(t)
	c.Dispose()
	_, err := c.Convert(cubeNode(1, 1, 1, false))
	wantCode(t, err, bridge.ErrNotInitialized)

	// Dispose is idempotent.
	c.Dispose()
}

func TestConvertNilNode(t *testing.T) {
	c, _ := newConverter(t)
	_, err := c.Convert(nil)
	wantCode(t, err, bridge.ErrInvalidContext)
}

func TestUnknownNodeKind(t *testing.T) {
	c, _ := newConverter(t)
	n := &ast.Node{Kind: ast.KindInvalid, Loc: ast.SourceLocation{Line: 7, Col: 2}}
	_, err := c.Convert(n)
	wantCode(t, err, bridge.ErrUnknownNodeType)

	var be *bridge.Error
	if !asBridgeError(err, &be) {
		t.Fatal("expected *bridge.Error")
	}
	if be.Loc.Line != 7 {
		t.Errorf("error should carry source location, got %+v", be.Loc)
	}
}

func TestArityErrors(t *testing.T) {
	cases := []struct {
		name string
		node *ast.Node
		code bridge.ErrorCode
	}{
		{"union one child", csgNode(ast.KindUnion, cubeNode(1, 1, 1, false)), bridge.ErrInsufficientChildren},
		{"difference no children", csgNode(ast.KindDifference), bridge.ErrInsufficientChildren},
		{"extrude no children", &ast.Node{Kind: ast.KindLinearExtrude, Data: &ast.LinearExtrudeData{Height: ast.Lit(5)}}, bridge.ErrNoChildren},
		{"modifier no children", &ast.Node{Kind: ast.KindModifier, Data: &ast.ModifierData{}}, bridge.ErrNoChildren},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newConverter(t)
			_, err := c.Convert(tc.node)
			wantCode(t, err, tc.code)
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	negSize := ast.LitVec(-1, 2, 3)
	zeroScale := ast.LitVec(1, 0, 1)
	zeroNormal := ast.LitVec(0, 0, 0)

	cases := []struct {
		name string
		node *ast.Node
	}{
		{"cube negative size", &ast.Node{Kind: ast.KindCube, Data: &ast.CubeData{Size: &negSize}}},
		{"sphere zero radius", &ast.Node{Kind: ast.KindSphere, Data: &ast.SphereData{R: lit(0)}}},
		{"cylinder zero radii", &ast.Node{Kind: ast.KindCylinder, Data: &ast.CylinderData{H: lit(5), R: lit(0)}}},
		{"cylinder negative height", &ast.Node{Kind: ast.KindCylinder, Data: &ast.CylinderData{H: lit(-5), R: lit(2)}}},
		{"polygon two points", &ast.Node{Kind: ast.KindPolygon, Data: &ast.PolygonData{Points: [][2]float64{{0, 0}, {1, 0}}}}},
		{"polyhedron bad index", &ast.Node{Kind: ast.KindPolyhedron, Data: &ast.PolyhedronData{
			Points: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Faces:  [][]int{{0, 1, 5}},
		}}},
		{"scale zero factor", &ast.Node{Kind: ast.KindScale, Data: &ast.ScaleData{V: zeroScale},
			Children: []*ast.Node{cubeNode(1, 1, 1, false)}}},
		{"mirror zero normal", &ast.Node{Kind: ast.KindMirror, Data: &ast.MirrorData{V: zeroNormal},
			Children: []*ast.Node{cubeNode(1, 1, 1, false)}}},
		{"color out of range", &ast.Node{Kind: ast.KindColor, Data: &ast.ColorData{R: 1.5},
			Children: []*ast.Node{cubeNode(1, 1, 1, false)}}},
		{"extrude zero height", &ast.Node{Kind: ast.KindLinearExtrude,
			Data:     &ast.LinearExtrudeData{Height: ast.Lit(0)},
			Children: []*ast.Node{circleNode(2)}}},
		{"revolve angle too large", &ast.Node{Kind: ast.KindRotateExtrude,
			Data:     &ast.RotateExtrudeData{Angle: lit(400)},
			Children: []*ast.Node{circleNode(2)}}},
		{"unknown modifier", modifierNode(ast.Modifier(42), cubeNode(1, 1, 1, false))},
		{"for zero step", &ast.Node{Kind: ast.KindFor,
			Data:     &ast.ForData{Var: "i", Start: ast.Lit(0), End: ast.Lit(3), Step: lit(0)},
			Children: []*ast.Node{cubeNode(1, 1, 1, false)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, k := newConverter(t)
			_, err := c.Convert(tc.node)
			if _, hit := bridge.RootCode(err); !hit {
				t.Fatalf("expected bridge error, got %v", err)
			}
			if code, _ := bridge.RootCode(err); code != bridge.ErrInvalidParameter {
				t.Fatalf("root code = %s, want InvalidParameter (err: %v)", code, err)
			}
			// Validation happens before any geometry work.
			if len(k.calls) != 0 {
				t.Errorf("kernel was called during failed conversion: %v", k.ops())
			}
		})
	}
}

func TestConvertCarriesSourceBackReference(t *testing.T) {
	c, _ := newConverter(t)
	n := cubeNode(2, 3, 4, false)
	n.Loc = ast.SourceLocation{Line: 4, Col: 9}
	g, err := c.Convert(n)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if g.Source != n {
		t.Error("converted node should reference its originating AST node")
	}
	if g.Loc != n.Loc {
		t.Errorf("loc = %+v, want %+v", g.Loc, n.Loc)
	}
}

func TestDiscardLocations(t *testing.T) {
	c := bridge.NewConverter(bridge.Config{Kernel: &fakeKernel{}, DiscardLocations: true})
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	n := cubeNode(1, 1, 1, false)
	n.Loc = ast.SourceLocation{Line: 4, Col: 9}
	g, err := c.Convert(n)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !g.Loc.IsZero() {
		t.Errorf("loc = %+v, want zero", g.Loc)
	}
}

func TestValidateNodesOption(t *testing.T) {
	c := bridge.NewConverter(bridge.Config{Kernel: &fakeKernel{}, ValidateNodes: true})
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	g, err := c.Convert(csgNode(ast.KindUnion, cubeNode(1, 1, 1, false), sphereNode(2)))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if g == nil {
		t.Fatal("expected a converted node")
	}
}

func TestEmptyTransformIsValid(t *testing.T) {
	c, _ := newConverter(t)
	g, err := c.Convert(&ast.Node{Kind: ast.KindTranslate, Data: &ast.TranslateData{V: ast.LitVec(1, 2, 3)}})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	mesh, err := g.GenerateMesh()
	if err != nil {
		t.Fatalf("GenerateMesh: %v", err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("empty transform should produce an empty mesh, got %d vertices", mesh.VertexCount())
	}
}

func TestChildFailureWrapping(t *testing.T) {
	c, _ := newConverter(t)
	bad := &ast.Node{Kind: ast.KindSphere, Data: &ast.SphereData{R: lit(-2)}}
	_, err := c.Convert(csgNode(ast.KindUnion, cubeNode(1, 1, 1, false), bad))

	outer, _ := bridge.CodeOf(err)
	if outer != bridge.ErrChildConversionFailed {
		t.Errorf("outer code = %s, want ChildConversionFailed", outer)
	}
	root, _ := bridge.RootCode(err)
	if root != bridge.ErrInvalidParameter {
		t.Errorf("root code = %s, want InvalidParameter", root)
	}
}

func Test2DProfileInBooleanContext(t *testing.T) {
	c, _ := newConverter(t)
	_, err := c.Convert(csgNode(ast.KindUnion, circleNode(2), cubeNode(1, 1, 1, false)))
	wantCode(t, err, bridge.ErrInvalidContext)
}

func TestExtrusionRejects3DChild(t *testing.T) {
	c, _ := newConverter(t)
	n := &ast.Node{
		Kind:     ast.KindLinearExtrude,
		Data:     &ast.LinearExtrudeData{Height: ast.Lit(5)},
		Children: []*ast.Node{cubeNode(1, 1, 1, false)},
	}
	_, err := c.Convert(n)
	wantCode(t, err, bridge.ErrInvalidContext)
}

func TestConvertBuildsOrderedTree(t *testing.T) {
	c, _ := newConverter(t)
	n := csgNode(ast.KindDifference, cubeNode(10, 10, 10, true), sphereNode(5))
	g, err := c.Convert(n)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if g.Kind != ast.KindDifference || g.Category != ast.CategoryCSG {
		t.Errorf("root = %v/%v", g.Kind, g.Category)
	}
	if len(g.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(g.Children))
	}
	if g.Children[0].Kind != ast.KindCube || g.Children[1].Kind != ast.KindSphere {
		t.Errorf("child order lost: %v, %v", g.Children[0].Kind, g.Children[1].Kind)
	}
	if g.Name == "" || g.Children[0].Name == "" {
		t.Error("converted nodes should have generated names")
	}

	sphere, ok := g.Children[1].Spec.(*bridge.SphereSpec)
	if !ok {
		t.Fatalf("sphere spec is %T", g.Children[1].Spec)
	}
	if sphere.Radius != 5 {
		t.Errorf("sphere radius = %g, want 5", sphere.Radius)
	}
	// Default resolution: 360/12 = 30 angle fragments beats the
	// size-derived ceil(2*pi*5/2) = 16.
	if sphere.Segments != 30 {
		t.Errorf("sphere segments = %d, want 30", sphere.Segments)
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDiameterParameters(t *testing.T) {
	c, _ := newConverter(t)
	n := &ast.Node{Kind: ast.KindSphere, Data: &ast.SphereData{D: lit(10)}}
	g, err := c.Convert(n)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if s := g.Spec.(*bridge.SphereSpec); s.Radius != 5 {
		t.Errorf("radius from diameter = %g, want 5", s.Radius)
	}

	// r wins over d when both are present.
	n2 := &ast.Node{Kind: ast.KindSphere, Data: &ast.SphereData{R: lit(3), D: lit(10)}}
	g2, err := c.Convert(n2)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if s := g2.Spec.(*bridge.SphereSpec); s.Radius != 3 {
		t.Errorf("radius = %g, want 3 (r beats d)", s.Radius)
	}
}

func TestConeParameters(t *testing.T) {
	c, _ := newConverter(t)
	n := &ast.Node{Kind: ast.KindCylinder, Data: &ast.CylinderData{
		H: lit(10), R1: lit(4), R2: lit(0),
	}}
	g, err := c.Convert(n)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	s := g.Spec.(*bridge.CylinderSpec)
	if s.RBottom != 4 || s.RTop != 0 {
		t.Errorf("cone radii = %g/%g, want 4/0", s.RBottom, s.RTop)
	}
}

func asBridgeError(err error, target **bridge.Error) bool {
	return errors.As(err, target)
}
