package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tessera-cad/tessera/pkg/ast"
	"github.com/tessera-cad/tessera/pkg/bridge"
	"github.com/tessera-cad/tessera/pkg/kernel/sdfx"
	"github.com/tessera-cad/tessera/pkg/scene"
)

// colorPalette assigns distinct colors to parts that carry no explicit
// color of their own.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// debugColor flags debug-modified subtrees in the viewport.
const debugColor = "#E91E63"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx  context.Context
	conv *bridge.Converter
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Alpha    float64   `json:"alpha"`
	Style    string    `json:"style"`
}

// RenderErrorData is a JSON-serializable conversion error for the frontend.
type RenderErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RenderResult is the full result returned to the frontend.
type RenderResult struct {
	Meshes []MeshData        `json:"meshes"`
	Errors []RenderErrorData `json:"errors"`
}

// NewApp creates a new App with a converter over the sdfx kernel.
func NewApp() *App {
	return &App{
		conv: bridge.NewConverter(bridge.Config{
			Kernel:  sdfx.New(),
			Timeout: 30 * time.Second,
		}),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if err := a.conv.Initialize(); err != nil {
		log.Printf("converter init: %v", err)
	}
}

// Render takes a JSON-encoded AST forest and returns mesh data plus
// errors. This is the primary binding called by the frontend editor.
func (a *App) Render(astJSON string) RenderResult {
	result := RenderResult{
		Meshes: []MeshData{},
		Errors: []RenderErrorData{},
	}

	nodes, err := ast.ParseForest([]byte(astJSON))
	if err != nil {
		result.Errors = append(result.Errors, RenderErrorData{
			Code:    "ParseFailed",
			Message: err.Error(),
		})
		return result
	}

	roots, err := a.conv.ConvertForest(nodes)
	if err != nil {
		log.Printf("convert error: %v", err)
		result.Errors = append(result.Errors, toErrorData(err))
		return result
	}

	items, err := scene.Assemble(roots)
	if err != nil {
		log.Printf("assemble error: %v", err)
		result.Errors = append(result.Errors, toErrorData(err))
		return result
	}

	for i, item := range items {
		m := item.Mesh
		md := MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
			Alpha:    1,
			Style:    item.Style.String(),
		}
		if m.Material != nil {
			md.Color = materialHex(m.Material.R, m.Material.G, m.Material.B)
			md.Alpha = m.Material.A
		}
		switch item.Style {
		case scene.StyleDebug:
			md.Color = debugColor
		case scene.StyleBackground:
			md.Alpha = 0.25
		}
		result.Meshes = append(result.Meshes, md)
	}
	return result
}

// Stats returns converter counters for the frontend status bar.
func (a *App) Stats() bridge.Stats {
	return a.conv.Stats()
}

// ClearCache drops memoized conversion results.
func (a *App) ClearCache() {
	a.conv.ClearCache()
}

func toErrorData(err error) RenderErrorData {
	var be *bridge.Error
	if errors.As(err, &be) {
		return RenderErrorData{
			Line:    be.Loc.Line,
			Col:     be.Loc.Col,
			Code:    be.Code.String(),
			Message: err.Error(),
		}
	}
	return RenderErrorData{Code: "Internal", Message: err.Error()}
}

func materialHex(r, g, b float64) string {
	clamp := func(f float64) int {
		v := int(f*255 + 0.5)
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	const hex = "0123456789ABCDEF"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{clamp(r), clamp(g), clamp(b)} {
		out[1+i*2] = hex[v>>4]
		out[2+i*2] = hex[v&0xF]
	}
	return string(out)
}
