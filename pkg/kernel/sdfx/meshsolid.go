package sdfx

import (
	"fmt"
	"math"

	"github.com/tessera-cad/tessera/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Solid = (*meshSolid)(nil)

// meshSolid is a triangle-soup solid used for polyhedron primitives,
// which have no SDF representation. It supports affine transforms and
// mesh output but not boolean combination.
type meshSolid struct {
	tris     [][3][3]float64
	min, max [3]float64
}

// newMeshSolid fan-triangulates the face list over the point list.
func newMeshSolid(points [][3]float64, faces [][]int) (*meshSolid, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("sdfx: polyhedron needs at least 3 points, got %d", len(points))
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("sdfx: polyhedron needs at least one face")
	}

	var tris [][3][3]float64
	for fi, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("sdfx: polyhedron face %d has %d vertices, need at least 3", fi, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("sdfx: polyhedron face %d references point %d, have %d points", fi, idx, len(points))
			}
		}
		for i := 1; i+1 < len(face); i++ {
			tris = append(tris, [3][3]float64{
				points[face[0]],
				points[face[i]],
				points[face[i+1]],
			})
		}
	}

	s := &meshSolid{tris: tris}
	s.computeBounds()
	return s, nil
}

// BoundingBox returns the axis-aligned bounding box.
func (s *meshSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

func (s *meshSolid) computeBounds() {
	first := true
	for _, tri := range s.tris {
		for _, v := range tri {
			if first {
				s.min, s.max = v, v
				first = false
				continue
			}
			for j := 0; j < 3; j++ {
				if v[j] < s.min[j] {
					s.min[j] = v[j]
				}
				if v[j] > s.max[j] {
					s.max[j] = v[j]
				}
			}
		}
	}
}

// mapVertices applies f to every vertex. flip reverses triangle winding,
// needed when the transform inverts orientation.
func (s *meshSolid) mapVertices(f func([3]float64) [3]float64, flip bool) *meshSolid {
	out := &meshSolid{tris: make([][3][3]float64, len(s.tris))}
	for i, tri := range s.tris {
		t := [3][3]float64{f(tri[0]), f(tri[1]), f(tri[2])}
		if flip {
			t[1], t[2] = t[2], t[1]
		}
		out.tris[i] = t
	}
	out.computeBounds()
	return out
}

func (s *meshSolid) translate(x, y, z float64) *meshSolid {
	return s.mapVertices(func(v [3]float64) [3]float64 {
		return [3]float64{v[0] + x, v[1] + y, v[2] + z}
	}, false)
}

func (s *meshSolid) rotate(x, y, z float64) *meshSolid {
	sx, cx := math.Sincos(x)
	sy, cy := math.Sincos(y)
	sz, cz := math.Sincos(z)
	return s.mapVertices(func(v [3]float64) [3]float64 {
		// X axis
		v[1], v[2] = v[1]*cx-v[2]*sx, v[1]*sx+v[2]*cx
		// Y axis
		v[0], v[2] = v[0]*cy+v[2]*sy, -v[0]*sy+v[2]*cy
		// Z axis
		v[0], v[1] = v[0]*cz-v[1]*sz, v[0]*sz+v[1]*cz
		return v
	}, false)
}

func (s *meshSolid) scale(x, y, z float64) *meshSolid {
	flip := x*y*z < 0
	return s.mapVertices(func(v [3]float64) [3]float64 {
		return [3]float64{v[0] * x, v[1] * y, v[2] * z}
	}, flip)
}

// mirror reflects across the plane through the origin with unit normal n.
func (s *meshSolid) mirror(nx, ny, nz float64) *meshSolid {
	return s.mapVertices(func(v [3]float64) [3]float64 {
		d := 2 * (v[0]*nx + v[1]*ny + v[2]*nz)
		return [3]float64{v[0] - d*nx, v[1] - d*ny, v[2] - d*nz}
	}, true)
}

// toMesh emits the triangles with per-face normals.
func (s *meshSolid) toMesh() *kernel.Mesh {
	mesh := kernel.NewMesh("")
	numVerts := len(s.tris) * 3
	mesh.Vertices = make([]float32, 0, numVerts*3)
	mesh.Normals = make([]float32, 0, numVerts*3)
	mesh.Indices = make([]uint32, 0, numVerts)

	for i, tri := range s.tris {
		n := faceNormal(tri)
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
			mesh.Normals = append(mesh.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	return mesh
}

func faceNormal(tri [3][3]float64) [3]float64 {
	ax := tri[1][0] - tri[0][0]
	ay := tri[1][1] - tri[0][1]
	az := tri[1][2] - tri[0][2]
	bx := tri[2][0] - tri[0][0]
	by := tri[2][1] - tri[0][1]
	bz := tri[2][2] - tri[0][2]
	n := [3]float64{ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx}
	length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if length == 0 {
		return [3]float64{0, 0, 1}
	}
	return [3]float64{n[0] / length, n[1] / length, n[2] / length}
}
