package kernel

// Vec3 is a plain 3D vector used for mesh transforms.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// One is the identity scaling vector.
var One = Vec3{1, 1, 1}

// Material is an RGBA material reference attached to a mesh.
// Components are in [0,1].
type Material struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
//
// Position/Rotation/Scaling record the local transform the producing
// node assigned to the mesh. Metadata is a free-form bag the bridge
// fills with category, type, child count and parameter information.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // producing node name

	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"` // Euler radians
	Scaling  Vec3 `json:"scaling"`

	Material *Material              `json:"material,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewMesh returns an empty mesh with identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Scaling: One}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounding box of the vertex buffer in
// the mesh's local space (Position/Rotation/Scaling not applied).
// An empty mesh returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for j := 0; j < 3; j++ {
		min[j] = float64(m.Vertices[j])
		max[j] = float64(m.Vertices[j])
	}
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			v := float64(m.Vertices[i+j])
			if v < min[j] {
				min[j] = v
			}
			if v > max[j] {
				max[j] = v
			}
		}
	}
	return min, max
}

// SetMetadata sets a metadata key, allocating the bag on first use.
func (m *Mesh) SetMetadata(key string, value interface{}) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	m.Metadata[key] = value
}
